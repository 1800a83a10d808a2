package util

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// NormalizePayload drops everything up to and including the first comma, which
// removes a "data:<mime>;base64," header. The header itself is not validated.
func NormalizePayload(payload string) string {
	if idx := strings.IndexByte(payload, ','); idx >= 0 {
		return payload[idx+1:]
	}
	return payload
}

func SniffMimeHTTP(b []byte) string {
	// JPEG: FF D8
	if len(b) >= 2 && b[0] == 0xFF && b[1] == 0xD8 {
		return "image/jpeg"
	}
	// PNG
	if len(b) >= 8 &&
		b[0] == 0x89 && b[1] == 0x50 && b[2] == 0x4E && b[3] == 0x47 &&
		b[4] == 0x0D && b[5] == 0x0A && b[6] == 0x1A && b[7] == 0x0A {
		return "image/png"
	}
	if len(b) > 0 {
		return http.DetectContentType(b)
	}
	return "application/octet-stream"
}

func MakeDataURL(mime, b64 string) string {
	return "data:" + mime + ";base64," + b64
}

// DecodeBase64 tries the standard alphabet first, then the URL-safe one.
// The standard error is returned when both fail.
func DecodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	b, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return b, nil
	}
	if b2, err2 := base64.URLEncoding.DecodeString(s); err2 == nil {
		return b2, nil
	}
	return nil, err
}
