package types

// Prompt is what an engine sends upstream: instruction text plus one inline image.
type Prompt struct {
	Text     string
	MIMEType string
	// ImageB64 is base64 without any data-URL header.
	ImageB64 string
}
