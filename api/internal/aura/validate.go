package aura

import (
	"fmt"
	"strings"

	apperrors "aura-check/api/internal/errors"
	"aura-check/api/internal/vision/types"
)

const (
	msgMissingConfig  = "server configuration incomplete: model credential is not set"
	msgMissingPayload = "image payload is missing"
	msgBadPayload     = "image payload must be a string"
)

// CheckCredential reports a deployment fault before anything else is looked at.
func CheckCredential(credential string) error {
	if strings.TrimSpace(credential) == "" {
		return apperrors.NewConfigurationError(msgMissingConfig, nil)
	}
	return nil
}

// Validate returns the payload string once the credential and the payload
// field have been checked, in that order.
func Validate(credential string, req types.AnalysisRequest) (string, error) {
	if err := CheckCredential(credential); err != nil {
		return "", err
	}
	raw := req.Payload()
	if raw == nil {
		return "", apperrors.NewInvalidInputError(msgMissingPayload, nil)
	}
	payload, ok := raw.(string)
	if !ok {
		return "", apperrors.NewInvalidInputError(msgBadPayload, fmt.Errorf("payload has type %T", raw))
	}
	if strings.TrimSpace(payload) == "" {
		return "", apperrors.NewInvalidInputError(msgMissingPayload, nil)
	}
	return payload, nil
}
