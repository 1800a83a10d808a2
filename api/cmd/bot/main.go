package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"aura-check/api/internal/aura"
	"aura-check/api/internal/config"
	"aura-check/api/internal/httpserver"
	"aura-check/api/internal/logger"
	"aura-check/api/internal/metrics"
	"aura-check/api/internal/telegram"
	"aura-check/api/internal/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}
	logger.Setup(cfg.LogLevel)
	if cfg.TelegramBotToken == "" {
		logger.Logger.Fatal("TELEGRAM_BOT_TOKEN is not set")
	}

	engine, err := vision.NewEngines(cfg).GetEngine(cfg.Provider)
	if err != nil {
		logger.WithError(err).Fatal("select engine")
	}
	pipeline := aura.New(engine, cfg.Credential())

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		logger.WithError(err).Fatal("telegram login")
	}
	bot.Debug = false
	logger.WithField("bot", bot.Self.UserName).Info("telegram authorized")

	r := telegram.NewRouter(bot, pipeline, 0)
	reg := metrics.NewRegistry()
	mux := httpserver.NewBaseRouter(reg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.WebhookURL != "" {
		startWebhookMode(ctx, cfg, bot, r, mux)
	} else {
		startPollingMode(ctx, cfg, bot, r, mux)
	}
}

// ---------------- Modes -----------------

func startWebhookMode(ctx context.Context, cfg *config.Config, bot *tgbotapi.BotAPI, r *telegram.Router, mux *chi.Mux) {
	// secret path derived from the token
	path := "/webhook/" + shortHash(bot.Token)
	public := strings.TrimRight(cfg.WebhookURL, "/") + path

	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		logger.WithError(err).Fatal("webhook config")
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		logger.WithError(err).Fatal("set webhook")
	}

	mux.Post(path, func(w http.ResponseWriter, req *http.Request) {
		upd, err := bot.HandleUpdate(req)
		if err != nil {
			logger.FromContext(req.Context()).WithError(err).Warn("webhook: bad update")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		r.Dispatch(ctx, *upd)
		w.WriteHeader(http.StatusOK)
	})

	logger.WithField("addr", cfg.Addr()).Info("webhook mode")
	if err := httpserver.Run(ctx, newServer(cfg, mux)); err != nil {
		logger.WithError(err).Fatal("http server stopped")
	}
}

func startPollingMode(ctx context.Context, cfg *config.Config, bot *tgbotapi.BotAPI, r *telegram.Router, mux *chi.Mux) {
	// health server, not needed for polling itself
	go func() {
		if err := httpserver.Run(ctx, newServer(cfg, mux)); err != nil {
			logger.WithError(err).Error("health server stopped")
			os.Exit(1)
		}
	}()

	if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		logger.WithError(err).Warn("delete webhook")
	}
	logger.Info("polling mode")
	runPolling(ctx, bot, func(upd tgbotapi.Update) {
		r.Dispatch(ctx, upd)
	})
}

func newServer(cfg *config.Config, h http.Handler) *http.Server {
	return httpserver.New(httpserver.Options{
		Addr:         cfg.Addr(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, h)
}

// ---------------- Polling loop -----------------

type updateSource interface {
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") { // HTTP 429 from Telegram
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) {
		if ne.Timeout() {
			return 2 * time.Second
		}
	}
	return 1 * time.Second
}

func runPolling(ctx context.Context, bot updateSource, handle func(tgbotapi.Update)) {
	offset := 0
	baseDelay := 1 * time.Second
	maxDelay := 15 * time.Second

	for {
		select {
		case <-ctx.Done():
			logger.Info("polling: context cancelled")
			return
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30 // long polling timeout (sec)

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := min(max(retryDelayFromError(err), baseDelay), maxDelay)
			logger.WithError(err).WithField("retry_in", d.String()).Warn("polling error")
			if !sleepCtx(ctx, d) {
				return
			}
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}

		if len(updates) == 0 {
			if !sleepCtx(ctx, 200*time.Millisecond) {
				return
			}
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// ---------------- Helpers -----------------

func shortHash(s string) string {
	// FNV-1a, stable per token; not a secret by itself
	h := uint64(1469598103934665603)
	const prime = 1099511628211
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		out[i] = hexdigits[h&0xF]
		h >>= 4
	}
	return string(out)
}
