package handle

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "aura-check/api/internal/errors"
	"aura-check/api/internal/logger"
	"aura-check/api/internal/metrics"
	"aura-check/api/internal/vision/types"
)

const (
	msgBadJSON      = "request body must be a JSON object"
	msgBodyTooLarge = "request body too large"
)

// Analyze serves POST /api/analyze: one image payload in, one verdict out.
func (h *Handle) Analyze(w http.ResponseWriter, r *http.Request) {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	req, decodeErr := decodeAnalysisRequest(r.Body)
	if decodeErr != nil {
		// a missing credential outranks a bad body
		if err := h.pipeline.CheckCredential(); err != nil {
			h.fail(w, r, err)
			return
		}
		logger.FromContext(r.Context()).WithError(decodeErr).Warn("analyze: bad request body")
		h.fail(w, r, decodeErr)
		return
	}

	res, err := h.pipeline.Analyze(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.metrics.Inc(r.Context(), metrics.AnalyzeOutcomesTotal, map[string]string{"outcome": "ok"}, 1)
	writeJSON(w, http.StatusOK, res)
}

// decodeAnalysisRequest treats an empty body as an empty object so the
// pipeline reports the missing payload. Anything after the object is rejected.
func decodeAnalysisRequest(body io.Reader) (types.AnalysisRequest, error) {
	var req types.AnalysisRequest
	dec := json.NewDecoder(body)
	err := dec.Decode(&req)
	if errors.Is(err, io.EOF) {
		return req, nil
	}
	if err == nil {
		if _, err = dec.Token(); errors.Is(err, io.EOF) {
			return req, nil
		}
		if err == nil {
			err = errors.New("trailing data after JSON object")
		}
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return req, apperrors.NewInvalidInputError(msgBodyTooLarge, err)
	}
	return req, apperrors.NewInvalidInputError(msgBadJSON, err)
}

func (h *Handle) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.metrics.Inc(r.Context(), metrics.AnalyzeOutcomesTotal, map[string]string{
		"outcome": string(apperrors.TypeOf(err)),
	}, 1)
	writeJSON(w, apperrors.GetStatusCode(err), types.ErrorResponse{Error: apperrors.PublicMessage(err)})
}
