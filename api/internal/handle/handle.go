package handle

import (
	"encoding/json"
	"net/http"

	"aura-check/api/internal/aura"
	"aura-check/api/internal/metrics"
)

type Handle struct {
	pipeline    *aura.Pipeline
	metrics     *metrics.Registry
	maxBodySize int64
}

func New(pipeline *aura.Pipeline, reg *metrics.Registry, maxBodySize int64) *Handle {
	return &Handle{
		pipeline:    pipeline,
		metrics:     reg,
		maxBodySize: maxBodySize,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
