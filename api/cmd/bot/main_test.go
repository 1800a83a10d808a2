package main

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestRetryDelayFromError(t *testing.T) {
	assert.Zero(t, retryDelayFromError(nil))
	assert.Equal(t, 7*time.Second, retryDelayFromError(errors.New("Too Many Requests: retry after 7")))
	assert.Equal(t, 3*time.Second, retryDelayFromError(errors.New("too many requests")))
	assert.Equal(t, 2*time.Second, retryDelayFromError(timeoutErr{}))
	assert.Equal(t, time.Second, retryDelayFromError(errors.New("bad gateway")))
}

func TestShortHashStable(t *testing.T) {
	a := shortHash("123:abc")
	assert.Len(t, a, 16)
	assert.Equal(t, a, shortHash("123:abc"))
	assert.NotEqual(t, a, shortHash("123:abd"))
}

type scriptedSource struct {
	batches [][]tgbotapi.Update
	offsets []int
	cancel  context.CancelFunc
}

func (s *scriptedSource) GetUpdates(cfg tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	s.offsets = append(s.offsets, cfg.Offset)
	if len(s.batches) == 0 {
		s.cancel()
		return nil, nil
	}
	next := s.batches[0]
	s.batches = s.batches[1:]
	return next, nil
}

func TestRunPollingAdvancesOffset(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := &scriptedSource{
		batches: [][]tgbotapi.Update{
			{{UpdateID: 10}, {UpdateID: 11}},
			{{UpdateID: 12}},
		},
		cancel: cancel,
	}

	var seen []int
	runPolling(ctx, src, func(u tgbotapi.Update) { seen = append(seen, u.UpdateID) })

	assert.Equal(t, []int{10, 11, 12}, seen)
	assert.Equal(t, []int{0, 12, 13}, src.offsets)
}
