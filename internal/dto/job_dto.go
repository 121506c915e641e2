package dto

// Job kinds carried over the internal job bus.
const (
	JobKindCarousel                = "carousel"
	JobKindInfographicFromCarousel = "infographic_from_carousel"
	JobKindInfographicStandalone   = "infographic_standalone"
	JobKindPost                    = "post"
	JobKindPostStandalone          = "post_standalone"
	JobKindRegenSlide              = "regen_slide"
	JobKindRegenInfographic        = "regen_infographic"
	JobKindRegenPost               = "regen_post"
)

// JobMessage is one generation job published to the bus. Fields beyond the
// identity block are kind-specific and zero elsewhere.
type JobMessage struct {
	JobID  string `json:"job_id"`
	UserID int64  `json:"user_id"`
	ChatID int64  `json:"chat_id"`
	Kind   string `json:"kind"`

	Topic             string `json:"topic,omitempty"`
	ReferenceImageURL string `json:"reference_image_url,omitempty"`
	SlideCount        int    `json:"slide_count,omitempty"`

	// Regeneration targets.
	SlideNumber     int    `json:"slide_number,omitempty"`
	Prompt          string `json:"prompt,omitempty"`
	UseStoredPrompt bool   `json:"use_stored_prompt,omitempty"`
}
