package types

// AnalysisRequest is the inbound body. Image is the current field name and
// ImageBase64 the legacy one; both are decoded untyped so a non-string value
// can be told apart from a missing one.
type AnalysisRequest struct {
	Image       any `json:"image,omitempty"`
	ImageBase64 any `json:"imageBase64,omitempty"`
}

// NewAnalysisRequest wraps a payload for callers that already hold a string.
func NewAnalysisRequest(payload string) AnalysisRequest {
	return AnalysisRequest{Image: payload}
}

// Payload returns the primary field, or the legacy alias when the primary is
// absent or an empty string.
func (r AnalysisRequest) Payload() any {
	if r.Image != nil {
		if s, ok := r.Image.(string); !ok || s != "" {
			return r.Image
		}
	}
	return r.ImageBase64
}

// AnalysisResult is the verdict returned to clients.
type AnalysisResult struct {
	AuraScore float64 `json:"auraScore"` // -100..100
	VibeLabel string  `json:"vibeLabel"`
	Roast     string  `json:"roast"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
