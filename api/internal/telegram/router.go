package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"aura-check/api/internal/aura"
	"aura-check/api/internal/logger"
)

const defaultConcurrency = 4

// Bot is the slice of *tgbotapi.BotAPI the router needs.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Router struct {
	Bot      Bot
	Pipeline *aura.Pipeline

	sem chan struct{}
}

// NewRouter bounds how many photos are analysed at once; concurrency <= 0
// picks the default.
func NewRouter(bot Bot, pipeline *aura.Pipeline, concurrency int) *Router {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Router{
		Bot:      bot,
		Pipeline: pipeline,
		sem:      make(chan struct{}, concurrency),
	}
}

// Dispatch handles upd on its own goroutine once a slot is free, so a slow
// model call never stalls the update loop.
func (r *Router) Dispatch(ctx context.Context, upd tgbotapi.Update) {
	select {
	case r.sem <- struct{}{}:
	case <-ctx.Done():
		return
	}
	go func() {
		defer func() { <-r.sem }()
		r.HandleUpdate(ctx, upd)
	}()
}

func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	cid := msg.Chat.ID

	log := logger.WithFields(logrus.Fields{
		"chat_id":   cid,
		"update_id": upd.UpdateID,
	})
	ctx = logger.WithContext(ctx, log)

	switch {
	case msg.IsCommand():
		r.HandleCommand(cid, msg.Command())
	case len(msg.Photo) > 0:
		r.acceptPhoto(ctx, cid, largestPhoto(msg.Photo).FileID)
	case msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/"):
		r.acceptPhoto(ctx, cid, msg.Document.FileID)
	default:
		r.send(cid, helpText)
	}
}

func (r *Router) HandleCommand(chatID int64, command string) {
	switch command {
	case "start":
		r.send(chatID, startText)
	case "help":
		r.send(chatID, helpText)
	default:
		r.send(chatID, "Unknown command. Try /help")
	}
}

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := r.Bot.Send(msg); err != nil {
		logger.WithError(err).WithField("chat_id", chatID).Warn("telegram send failed")
	}
}

// sendHTML falls back to plain when Telegram rejects the markup.
func (r *Router) sendHTML(chatID int64, text, plain string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := r.Bot.Send(msg); err != nil {
		logger.WithError(err).WithField("chat_id", chatID).Warn("telegram html send failed, resending plain")
		r.send(chatID, plain)
	}
}

func largestPhoto(sizes []tgbotapi.PhotoSize) tgbotapi.PhotoSize {
	best := sizes[0]
	for _, s := range sizes[1:] {
		if s.Width*s.Height > best.Width*best.Height {
			best = s
		}
	}
	return best
}
