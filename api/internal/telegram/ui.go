package telegram

import (
	"fmt"
	"html"
	"strings"

	"aura-check/api/internal/aura"
	apperrors "aura-check/api/internal/errors"
	"aura-check/api/internal/vision/types"
)

const (
	startText = "Send me a photo of your outfit and I will rate its aura from -100 to 100. No mercy."
	helpText  = "Send one outfit photo (as a photo or an image file).\n" +
		"You get an aura score, a vibe label and a short roast.\n" +
		"Commands: /start, /help"

	msgFetchFailed = "Could not fetch that photo from Telegram. Send it again."
	msgNotAnImage  = "That file does not look like a JPEG or PNG image."

	gaugeCells = 10
)

var tierBadge = map[aura.Tier]string{
	aura.TierHigh: "🔥",
	aura.TierMid:  "😐",
	aura.TierLow:  "💀",
}

// RenderVerdict formats a result as Telegram HTML.
func RenderVerdict(res types.AnalysisResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>Aura: %s</b>\n", tierBadge[aura.TierOf(res.AuraScore)], formatScore(res.AuraScore))
	b.WriteString(gaugeBar(res.AuraScore))
	b.WriteString("\n\n<b>")
	b.WriteString(html.EscapeString(res.VibeLabel))
	b.WriteString("</b>\n")
	b.WriteString(html.EscapeString(res.Roast))
	return b.String()
}

// renderVerdictPlain is the same verdict without markup.
func renderVerdictPlain(res types.AnalysisResult) string {
	return fmt.Sprintf("%s Aura: %s\n%s\n\n%s\n%s",
		tierBadge[aura.TierOf(res.AuraScore)], formatScore(res.AuraScore),
		gaugeBar(res.AuraScore), res.VibeLabel, res.Roast)
}

func RenderError(err error) string {
	return "⚠️ " + apperrors.PublicMessage(err)
}

// formatScore keeps a sign on positives so +12 and -12 read differently.
func formatScore(score float64) string {
	s := fmt.Sprintf("%g", score)
	if score > 0 {
		return "+" + s
	}
	return s
}

func gaugeBar(score float64) string {
	pct := aura.GaugePercent(score)
	filled := (pct*gaugeCells + 50) / 100
	return strings.Repeat("▰", filled) + strings.Repeat("▱", gaugeCells-filled) + fmt.Sprintf(" %d%%", pct)
}
