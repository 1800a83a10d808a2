package aura

import (
	"fmt"
	"strings"

	apperrors "aura-check/api/internal/errors"
	"aura-check/api/internal/vision/types"
)

const (
	MinScore = -100
	MaxScore = 100

	msgIncomplete = "model returned an incomplete verdict"
)

// Sanitize checks field presence and types, then clamps the score and trims
// the strings. Length is not capped.
func Sanitize(obj map[string]any) (types.AnalysisResult, error) {
	var out types.AnalysisResult

	score, ok := obj["auraScore"].(float64)
	if !ok {
		return out, schemaError("auraScore", "number", obj["auraScore"])
	}
	label, ok := obj["vibeLabel"].(string)
	if !ok {
		return out, schemaError("vibeLabel", "string", obj["vibeLabel"])
	}
	roast, ok := obj["roast"].(string)
	if !ok {
		return out, schemaError("roast", "string", obj["roast"])
	}

	out.AuraScore = ClampScore(score)
	out.VibeLabel = strings.TrimSpace(label)
	out.Roast = strings.TrimSpace(roast)

	if out.VibeLabel == "" {
		return types.AnalysisResult{}, apperrors.NewSchemaError(msgIncomplete, fmt.Errorf("vibeLabel is blank"))
	}
	if out.Roast == "" {
		return types.AnalysisResult{}, apperrors.NewSchemaError(msgIncomplete, fmt.Errorf("roast is blank"))
	}
	return out, nil
}

// ClampScore pulls out-of-range values to the nearest bound.
func ClampScore(v float64) float64 {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

func schemaError(field, want string, got any) error {
	if got == nil {
		return apperrors.NewSchemaError(msgIncomplete, fmt.Errorf("field %q is missing", field))
	}
	return apperrors.NewSchemaError(msgIncomplete, fmt.Errorf("field %q: want %s, got %T", field, want, got))
}
