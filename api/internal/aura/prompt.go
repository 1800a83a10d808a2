package aura

import "aura-check/api/internal/vision/types"

// ImageMIMEType is the type declared for every upload; there is no sniffing.
const ImageMIMEType = "image/jpeg"

// PromptText never varies between requests, so a malformed answer is the
// model's fault and not prompt drift.
const PromptText = `Act as a ruthless Gen-Z fashion critic. Analyze the outfit in this photo. Be direct, witty and sharp.
Return ONLY a raw JSON object with exactly these three fields:
  "auraScore": a number from -100 to 100,
  "vibeLabel": a short label of two to four words,
  "roast": a one or two sentence critique.
Do not wrap the JSON in markdown code fences. Do not write any text before or after the JSON object.`

func BuildPrompt(imageB64 string) types.Prompt {
	return types.Prompt{
		Text:     PromptText,
		MIMEType: ImageMIMEType,
		ImageB64: imageB64,
	}
}
