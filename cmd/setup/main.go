// setup runs the .env configuration wizard without starting the server.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dualsolve/dualsolve/internal/envsetup"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func mainE() error {
	fs := ff.NewFlagSet("dualsolve-setup")
	var (
		path  = fs.StringLong("path", ".env", "File to write")
		force = fs.BoolLong("force", "Overwrite an existing file")
	)
	if err := ff.Parse(fs, os.Args[1:]); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	if !envsetup.NeedsSetup(*path) && !*force {
		return errors.New(*path + " already exists; pass --force to overwrite")
	}

	done, err := envsetup.Run(*path)
	if err != nil {
		return fmt.Errorf("running setup wizard: %w", err)
	}
	if !done {
		fmt.Println("setup cancelled, nothing written")
	}
	return nil
}
