package store

// SlideContent is one slide of a generated carousel structure. The cover
// slide carries title/subtitle/visual_idea, interior slides carry content
// bullets, the final slide additionally carries a call to action.
type SlideContent struct {
	SlideNumber     int      `json:"slide_number"`
	Type            string   `json:"type,omitempty"` // "cover" | "final" | empty for interior
	Title           string   `json:"title"`
	Subtitle        string   `json:"subtitle,omitempty"`
	Content         []string `json:"content,omitempty"`
	VisualIdea      string   `json:"visual_idea,omitempty"`
	CallToAction    string   `json:"call_to_action,omitempty"`
	BackgroundStyle string   `json:"background_style,omitempty"`
	Decoration      string   `json:"decoration,omitempty"`
}

// CarouselDocument is the structured output of the text generator for one
// carousel request.
type CarouselDocument struct {
	MetaInfo map[string]interface{} `json:"meta_info,omitempty"`
	Slides   []SlideContent         `json:"slides"`
}

// InfographicDocument is the structured output for a standalone infographic:
// a heading plus exactly four tips once padded.
type InfographicDocument struct {
	CaptivityHeading string   `json:"captivity_heading"`
	Tips             []string `json:"tips"`
}
