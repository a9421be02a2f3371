package health

import (
	"encoding/json"
	"net/http"
)

type Checker interface {
	Ready() error
}

type response struct {
	Status        string `json:"status"`
	LLMConfigured bool   `json:"llm_configured"`
}

// Handler always answers 200 while the process is serving; llm_configured
// reports whether completion calls can be attempted.
func Handler(c Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response{
			Status:        "ok",
			LLMConfigured: c.Ready() == nil,
		})
	}
}
