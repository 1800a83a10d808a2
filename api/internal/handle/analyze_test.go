package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura-check/api/internal/aura"
	"aura-check/api/internal/metrics"
	"aura-check/api/internal/vision/types"
)

type stubEngine struct {
	out   string
	err   error
	calls int
}

func (s *stubEngine) Name() string     { return "stub" }
func (s *stubEngine) GetModel() string { return "stub-1" }

func (s *stubEngine) Generate(context.Context, types.Prompt) (string, error) {
	s.calls++
	return s.out, s.err
}

const verdict = `{"auraScore": 64, "vibeLabel": "Soft Grunge Revival", "roast": "The boots are trying harder than you."}`

func newHandle(eng *stubEngine, credential string, maxBody int64) (*Handle, *metrics.Registry) {
	reg := metrics.NewRegistry()
	return New(aura.New(eng, credential), reg, maxBody), reg
}

func post(h *Handle, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body types.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestAnalyzeOK(t *testing.T) {
	eng := &stubEngine{out: "```json\n" + verdict + "\n```"}
	h, reg := newHandle(eng, "key", 1<<20)

	rec := post(h, `{"image": "data:image/jpeg;base64,QUJD"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 3)
	assert.Equal(t, 64.0, got["auraScore"])
	assert.Equal(t, "Soft Grunge Revival", got["vibeLabel"])
	assert.Equal(t, "The boots are trying harder than you.", got["roast"])
	assert.EqualValues(t, 1, reg.Value(metrics.AnalyzeOutcomesTotal, map[string]string{"outcome": "ok"}))
}

func TestAnalyzeAllowsTrailingWhitespace(t *testing.T) {
	eng := &stubEngine{out: verdict}
	h, _ := newHandle(eng, "key", 1<<20)

	rec := post(h, "{\"image\": \"QUJD\"}\n\t ")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, eng.calls)
}

func TestAnalyzeLegacyFieldName(t *testing.T) {
	eng := &stubEngine{out: verdict}
	h, _ := newHandle(eng, "key", 1<<20)

	rec := post(h, `{"imageBase64": "QUJD"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name       string
		credential string
		body       string
		out        string
		engErr     error
		status     int
		outcome    string
		message    string
	}{
		{
			name: "missing credential", credential: "", body: `{"image": "QUJD"}`,
			status: 500, outcome: "configuration", message: "server configuration incomplete",
		},
		{
			name: "missing credential and malformed body", credential: "", body: `{"image":`,
			status: 500, outcome: "configuration", message: "server configuration incomplete",
		},
		{
			name: "malformed body", credential: "key", body: `{"image":`,
			status: 400, outcome: "invalid_input", message: "JSON object",
		},
		{
			name: "trailing garbage", credential: "key", body: `{"image":"QUJD"} junk`,
			status: 400, outcome: "invalid_input", message: "JSON object",
		},
		{
			name: "two objects", credential: "key", body: `{"image":"QUJD"}{"image":"REVG"}`,
			status: 400, outcome: "invalid_input", message: "JSON object",
		},
		{
			name: "empty body", credential: "key", body: ``,
			status: 400, outcome: "invalid_input", message: "missing",
		},
		{
			name: "no image field", credential: "key", body: `{"photo": "QUJD"}`,
			status: 400, outcome: "invalid_input", message: "missing",
		},
		{
			name: "numeric image", credential: "key", body: `{"image": 42}`,
			status: 400, outcome: "invalid_input", message: "must be a string",
		},
		{
			name: "provider down", credential: "key", body: `{"image": "QUJD"}`, engErr: errors.New("503 from upstream"),
			status: 502, outcome: "provider", message: "provider",
		},
		{
			name: "prose answer", credential: "key", body: `{"image": "QUJD"}`, out: "That outfit is beyond words.",
			status: 502, outcome: "format", message: "unreadable",
		},
		{
			name: "incomplete answer", credential: "key", body: `{"image": "QUJD"}`, out: `{"auraScore": 3}`,
			status: 502, outcome: "schema", message: "incomplete",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := &stubEngine{out: tt.out, err: tt.engErr}
			h, reg := newHandle(eng, tt.credential, 1<<20)

			rec := post(h, tt.body)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, decodeError(t, rec), tt.message)
			assert.EqualValues(t, 1, reg.Value(metrics.AnalyzeOutcomesTotal, map[string]string{"outcome": tt.outcome}))
		})
	}
}

func TestAnalyzeHidesProviderDetail(t *testing.T) {
	eng := &stubEngine{err: errors.New("googleapi: Error 403: API key sk-live-123 not valid")}
	h, _ := newHandle(eng, "key", 1<<20)

	rec := post(h, `{"image": "QUJD"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "sk-live-123")
}

func TestAnalyzeBodyTooLarge(t *testing.T) {
	eng := &stubEngine{out: verdict}
	h, _ := newHandle(eng, "key", 64)

	rec := post(h, `{"image": "`+strings.Repeat("A", 256)+`"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "request body too large", decodeError(t, rec))
	assert.Zero(t, eng.calls)
}
