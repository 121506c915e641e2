package recordstore

import (
	"fmt"
	"time"
)

// Column names of the generation table. The table itself is owned by the
// content team and uses Russian headers, so these stay verbatim.
const (
	FieldTopic       = "Тема от пользователя"
	FieldRequestDate = "Дата запроса пользователя по теме"
	FieldSlideCount  = "Количество слайдов"
	FieldBackground  = "background/image1"

	FieldInfographicPrompt = "Prompt_infografic"
	FieldInfographicImage  = "Visual_infografic"
	FieldPostText          = "Post_text"
)

// SlidePromptField returns the prompt column for a 1-based slide number.
func SlidePromptField(n int) string {
	return fmt.Sprintf("Prompt_slide%d", n)
}

// SlideImageField returns the image column for a 1-based slide number.
func SlideImageField(n int) string {
	return fmt.Sprintf("Visual_slide%d", n)
}

// CarouselFields assembles the row for a finished carousel run. Prompts and
// images are keyed by slide number; missing slides are simply omitted.
func CarouselFields(topic string, slideCount int, referenceImageURL string, prompts map[int]string, images map[int]string) Fields {
	fields := Fields{
		FieldTopic:       topic,
		FieldRequestDate: time.Now().Format("2006-01-02"),
		FieldSlideCount:  slideCount,
	}
	if referenceImageURL != "" {
		fields[FieldBackground] = Attachment(referenceImageURL)
	}
	for n, p := range prompts {
		fields[SlidePromptField(n)] = p
	}
	for n, url := range images {
		fields[SlideImageField(n)] = Attachment(url)
	}
	return fields
}

// InfographicFields assembles the infographic columns for an update or a
// standalone row.
func InfographicFields(topic, prompt, imageURL string) Fields {
	fields := Fields{
		FieldInfographicPrompt: prompt,
	}
	if topic != "" {
		fields[FieldTopic] = topic
		fields[FieldRequestDate] = time.Now().Format("2006-01-02")
	}
	if imageURL != "" {
		fields[FieldInfographicImage] = Attachment(imageURL)
	}
	return fields
}

// SlidePrompt reads back a stored slide prompt, if present.
func SlidePrompt(fields Fields, n int) (string, bool) {
	v, ok := fields[SlidePromptField(n)]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// InfographicPrompt reads back the stored infographic prompt, if present.
func InfographicPrompt(fields Fields) (string, bool) {
	v, ok := fields[FieldInfographicPrompt]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}
