package web

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/dualsolve/dualsolve/internal/health"
	"github.com/dualsolve/dualsolve/internal/web/handlers"
	"github.com/dualsolve/dualsolve/internal/web/middleware"
)

type Router struct {
	solver  handlers.Solver
	log     *slog.Logger
	static  fs.FS
	origins []string
}

// NewRouter wires the HTTP surface. static holds the landing page; it may be
// nil, in which case GET / is not registered.
func NewRouter(s handlers.Solver, log *slog.Logger, static fs.FS, origins []string) *Router {
	return &Router{
		solver:  s,
		log:     log,
		static:  static,
		origins: origins,
	}
}

func (r *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	solutionHandler := handlers.NewSolutionHandler(r.solver, r.log)

	mux.Handle("POST /generate",
		middleware.Chain(
			http.HandlerFunc(solutionHandler.Generate),
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.Recover(r.log),
		),
	)

	mux.Handle("POST /explain",
		middleware.Chain(
			http.HandlerFunc(solutionHandler.Explain),
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.Recover(r.log),
		),
	)

	mux.Handle("GET /healthz",
		middleware.Chain(
			health.Handler(r.solver),
			middleware.CacheControl("no-store"),
		),
	)

	if r.static != nil {
		mux.Handle("GET /",
			middleware.Chain(
				http.FileServer(http.FS(r.static)),
				middleware.PrometheusMetrics(),
				middleware.CacheControl("public, max-age=0"),
			),
		)
	}

	return middleware.CORS(r.origins)(mux)
}
