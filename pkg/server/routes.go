package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/zen-systems/catvet/pkg/adapter"
)

// AnalyzePath is the route served by the default provider. Each configured
// provider is also reachable at AnalyzePath + "/" + kind.
const AnalyzePath = "/api/analyze"

// Routes builds the HTTP handler tree. def answers AnalyzePath; every adapter
// in byKind gets its own standalone route.
func Routes(def adapter.Adapter, byKind map[adapter.Kind]adapter.Adapter, logger *zap.Logger, opts ...HandlerOption) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if def != nil {
		mux.Handle(AnalyzePath, NewAnalyzeHandler(def, logger, opts...))
	}
	for kind, a := range byKind {
		mux.Handle(AnalyzePath+"/"+string(kind), NewAnalyzeHandler(a, logger, opts...))
	}

	return Chain(mux,
		RequestID,
		// AnalyzeHandler sets CORS itself; this covers 404s, /healthz and recovered panics.
		CORS,
		Logging(logger.Named("access")),
		Recovery(logger),
	)
}
