package models

// AltTextNotFound is returned as the caption when the requested image does not exist.
const AltTextNotFound = "alt text does not exist for this image"

// DefaultPrompt asks the model for a short alt text.
const DefaultPrompt = "Generate alt text for this image that can be inserted in img html element. Keep it concise."

type AltTextRequest struct {
	File string `form:"file"`
}
