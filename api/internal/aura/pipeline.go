package aura

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	apperrors "aura-check/api/internal/errors"
	"aura-check/api/internal/logger"
	"aura-check/api/internal/util"
	"aura-check/api/internal/vision"
	"aura-check/api/internal/vision/types"
)

// Stage names one step of a request; a failure at any stage is terminal.
type Stage string

const (
	StageReceived   Stage = "received"
	StageValidated  Stage = "validated"
	StageNormalized Stage = "normalized"
	StageInvoked    Stage = "invoked"
	StageExtracted  Stage = "extracted"
	StageSanitized  Stage = "sanitized"
	StageReturned   Stage = "returned"
)

const (
	msgProviderFailed = "model provider unavailable, try again"
	msgNoResponse     = "model provider returned no response"
	msgUnreadable     = "model returned an unreadable verdict"
)

// Pipeline turns one outfit photo into one verdict. It holds no per-request
// state and is safe for concurrent use.
type Pipeline struct {
	engine     vision.Engine
	credential string
}

// New binds the engine and the credential read from configuration. An empty
// credential is allowed here and reported on every Analyze call.
func New(engine vision.Engine, credential string) *Pipeline {
	return &Pipeline{
		engine:     engine,
		credential: strings.TrimSpace(credential),
	}
}

func (p *Pipeline) CheckCredential() error {
	return CheckCredential(p.credential)
}

// Analyze runs validate → normalize → invoke → extract → sanitize. Every
// returned error is an *errors.AppError.
func (p *Pipeline) Analyze(ctx context.Context, req types.AnalysisRequest) (types.AnalysisResult, error) {
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"engine": p.engine.Name(),
		"model":  p.engine.GetModel(),
	})
	stage := StageReceived

	// stage is the last one completed; fail logs it with the error kind.
	fail := func(err error) (types.AnalysisResult, error) {
		log.WithError(err).WithFields(logrus.Fields{
			"stage": stage,
			"kind":  apperrors.TypeOf(err),
		}).Error("analysis failed")
		return types.AnalysisResult{}, err
	}

	payload, err := Validate(p.credential, req)
	if err != nil {
		return fail(err)
	}
	stage = StageValidated

	imageB64 := util.NormalizePayload(payload)
	stage = StageNormalized

	raw, err := p.engine.Generate(ctx, BuildPrompt(imageB64))
	if err != nil {
		return fail(apperrors.NewProviderError(msgProviderFailed, err))
	}
	if strings.TrimSpace(raw) == "" {
		return fail(apperrors.NewProviderError(msgNoResponse, errors.New("empty model output")))
	}
	stage = StageInvoked
	log.WithField("raw_output", util.Snippet(raw)).Debug("model responded")

	obj, err := util.ExtractJSONObject(raw)
	if err != nil {
		return fail(apperrors.NewFormatError(msgUnreadable, err))
	}
	stage = StageExtracted

	result, err := Sanitize(obj)
	if err != nil {
		return fail(err)
	}
	stage = StageSanitized
	log.WithField("stage", stage).Debug("verdict sanitized")

	log.WithFields(logrus.Fields{
		"stage":      StageReturned,
		"aura_score": result.AuraScore,
		"vibe_label": result.VibeLabel,
	}).Info("analysis completed")
	return result, nil
}
