package telegram

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"aura-check/api/internal/logger"
	"aura-check/api/internal/util"
	"aura-check/api/internal/vision/types"
)

const (
	maxDownloadBytes = 20 << 20
	jpegQuality      = 90
)

func (r *Router) acceptPhoto(ctx context.Context, cid int64, fileID string) {
	log := logger.FromContext(ctx)
	_, _ = r.Bot.Request(tgbotapi.NewChatAction(cid, tgbotapi.ChatTyping))

	url, err := r.Bot.GetFileDirectURL(fileID)
	if err != nil {
		log.WithError(err).Warn("telegram: resolve file url")
		r.send(cid, msgFetchFailed)
		return
	}
	raw, err := download(ctx, url, maxDownloadBytes)
	if err != nil {
		log.WithError(err).Warn("telegram: download photo")
		r.send(cid, msgFetchFailed)
		return
	}
	img, err := prepareImage(raw)
	if err != nil {
		log.WithError(err).Warn("telegram: decode photo")
		r.send(cid, msgNotAnImage)
		return
	}

	payload := util.MakeDataURL("image/jpeg", base64.StdEncoding.EncodeToString(img))
	res, err := r.Pipeline.Analyze(ctx, types.NewAnalysisRequest(payload))
	if err != nil {
		r.send(cid, RenderError(err))
		return
	}
	r.sendHTML(cid, RenderVerdict(res), renderVerdictPlain(res))
}

// prepareImage returns JPEG bytes at the original dimensions. A JPEG is
// passed through untouched; other formats are re-encoded.
func prepareImage(b []byte) ([]byte, error) {
	img, format, err := decodeImage(b)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	if bounds.Dx()*bounds.Dy() == 0 {
		return nil, fmt.Errorf("empty image")
	}
	if format == "jpeg" {
		return b, nil
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func decodeImage(b []byte) (image.Image, string, error) {
	switch util.SniffMimeHTTP(b) {
	case "image/jpeg":
		img, err := jpeg.Decode(bytes.NewReader(b))
		return img, "jpeg", err
	case "image/png":
		img, err := png.Decode(bytes.NewReader(b))
		return img, "png", err
	}
	return image.Decode(bytes.NewReader(b))
}

func download(ctx context.Context, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("file exceeds %d bytes", limit)
	}
	return b, nil
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}
