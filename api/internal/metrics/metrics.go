package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	HTTPRequestsTotal    = "http_requests_total"
	AnalyzeOutcomesTotal = "analyze_outcomes_total"
)

// Registry keeps counters for /metrics and mirrors every increment to an
// OTel counter of the same base name.
type Registry struct {
	mu       sync.RWMutex
	counters map[string]*atomic.Int64 // key = fullKey(name, labels)
	meter    metric.Meter
	otelCtrs map[string]metric.Int64Counter
}

func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[string]*atomic.Int64),
		meter:    otel.GetMeterProvider().Meter("aura-check"),
		otelCtrs: make(map[string]metric.Int64Counter),
	}
}

// fullKey renders name{k=v,...} with labels sorted by key.
func fullKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(labels[k])
	}
	b.WriteByte('}')
	return b.String()
}

// Inc adds n to the labelled counter. A nil Registry is a no-op.
func (r *Registry) Inc(ctx context.Context, name string, labels map[string]string, n int64) {
	if r == nil {
		return
	}
	r.counter(fullKey(name, labels)).Add(n)

	if inst := r.instrument(name); inst != nil {
		attrs := make([]attribute.KeyValue, 0, len(labels))
		for k, v := range labels {
			attrs = append(attrs, attribute.String(k, v))
		}
		inst.Add(ctx, n, metric.WithAttributes(attrs...))
	}
}

func (r *Registry) counter(key string) *atomic.Int64 {
	r.mu.RLock()
	c := r.counters[key]
	r.mu.RUnlock()
	if c != nil {
		return c
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c = r.counters[key]; c == nil {
		c = new(atomic.Int64)
		r.counters[key] = c
	}
	return c
}

func (r *Registry) instrument(name string) metric.Int64Counter {
	r.mu.RLock()
	inst := r.otelCtrs[name]
	r.mu.RUnlock()
	if inst != nil {
		return inst
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if inst = r.otelCtrs[name]; inst == nil {
		ctr, err := r.meter.Int64Counter(name)
		if err != nil {
			return nil
		}
		r.otelCtrs[name] = ctr
		inst = ctr
	}
	return inst
}

// Value reads one counter; zero when it was never incremented.
func (r *Registry) Value(name string, labels map[string]string) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c := r.counters[fullKey(name, labels)]; c != nil {
		return c.Load()
	}
	return 0
}

// SnapshotLines returns sorted "key value" lines.
func (r *Registry) SnapshotLines() []string {
	snap := r.SnapshotJSON()
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s %d", k, snap[k]))
	}
	return lines
}

func (r *Registry) SnapshotJSON() map[string]int64 {
	out := make(map[string]int64)
	r.mu.RLock()
	for k, v := range r.counters {
		out[k] = v.Load()
	}
	r.mu.RUnlock()
	return out
}

// HandlerJSON serves the snapshot as a JSON object.
func (r *Registry) HandlerJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(r.SnapshotJSON())
}

// HandlerText serves one counter per line.
func (r *Registry) HandlerText(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, line := range r.SnapshotLines() {
		if _, err := w.Write([]byte(line + "\n")); err != nil {
			return
		}
	}
}

// StatusClass folds an HTTP status into 2xx/4xx/... for label cardinality.
func StatusClass(code int) string {
	switch {
	case code >= 100 && code < 200:
		return "1xx"
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	default:
		return "0"
	}
}
