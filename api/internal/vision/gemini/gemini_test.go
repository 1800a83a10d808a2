package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"

	"aura-check/api/internal/vision/types"
)

func TestFirstText(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{"nil response", nil, ""},
		{"no candidates", &genai.GenerateContentResponse{}, ""},
		{"nil content", &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: nil}},
		}, ""},
		{"skips blank text", &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{genai.Text("  ")}}},
				{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"auraScore":1}`)}}},
			},
		}, `{"auraScore":1}`},
		{"skips blobs", &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{
					genai.Blob{MIMEType: "image/png", Data: []byte{1}},
					genai.Text("hello"),
				}}},
			},
		}, "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstText(tt.resp))
		})
	}
}

func TestGenerateRequiresKey(t *testing.T) {
	e := New("  ", "gemini-2.0-flash")
	_, err := e.Generate(context.Background(), types.Prompt{Text: "x", MIMEType: "image/jpeg", ImageB64: "AAAA"})
	assert.ErrorContains(t, err, "GEMINI_API_KEY")
}

func TestGenerateRejectsBadBase64BeforeDialing(t *testing.T) {
	e := New("key", "gemini-2.0-flash")
	_, err := e.Generate(context.Background(), types.Prompt{Text: "x", MIMEType: "image/jpeg", ImageB64: "%%%"})
	assert.ErrorContains(t, err, "bad base64")
}

func TestIdentity(t *testing.T) {
	e := New("key", " gemini-2.0-flash ")
	assert.Equal(t, "gemini", e.Name())
	assert.Equal(t, "gemini-2.0-flash", e.GetModel())
}

func TestGenerateAcceptsURLSafeBase64(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New("key", "gemini-2.0-flash")
	// "-_8" only decodes with the URL-safe alphabet
	_, err := e.Generate(ctx, types.Prompt{Text: "x", MIMEType: "image/jpeg", ImageB64: "-_8A"})
	assert.Error(t, err)
	assert.NotContains(t, err.Error(), "bad base64")
}
