// Package prompt assembles the instruction strings sent to the image
// generator. Builders are pure: no I/O, no randomness.
package prompt

import (
	"fmt"
	"strings"

	"ai-carousel-bot/pkg/store"
)

// SlideKind classifies a slide by its position within the carousel.
type SlideKind int

const (
	KindCover SlideKind = iota
	KindInterior
	KindFinal
)

// Classify maps a 1-based slide position onto its kind. Position 1 is the
// cover, the last position is the final slide, everything in between is
// interior.
func Classify(position, total int) SlideKind {
	switch {
	case position == 1:
		return KindCover
	case position == total:
		return KindFinal
	default:
		return KindInterior
	}
}

// CoverSlide builds the prompt for slide 1: user reference image background,
// dark overlay, high-contrast title and subtitle.
func CoverSlide(title, subtitle, visualIdea string) string {
	return fmt.Sprintf(`Create a 4:5 Instagram slide. Use the provided reference image (background/image1.jpg) as the background.

IMPORTANT VISUAL REQUIREMENTS:
1. Apply a dark overlay/dimming effect to the background image (darken it by 40-50%%) to create contrast and make text highly readable.
2. The background should be noticeably darker than the original image while still maintaining the image's essence.

Overlay the following text in Russian with HIGH CONTRAST:
Title: "%s" (Font: Elegant Serif, Bold, Color: White or Very Light Beige, Large size, Centered, with subtle text shadow for extra readability).
Subtitle: "%s" (Font: Sans Serif, Bold, Color: White or Light Cream, Medium size, with subtle text shadow for extra readability).

Visual idea: %s

Text contrast: Ensure maximum readability - use white or very light colors for text against the darkened background. Add subtle text shadows or outlines if needed.

Atmosphere: Psychological, calm, professional, cozy, with strong visual contrast for readability.`, title, subtitle, visualIdea)
}

// InteriorSlide builds the prompt for slides between the cover and the final
// one: shared background reference, bulleted body text, small decoration.
func InteriorSlide(title string, content []string, backgroundStyle, decoration string) string {
	return fmt.Sprintf(`Create a 4:5 Instagram slide. Use the provided reference image (background/image2.jpg) as the background style.

Background: %s

Design elements:
1. Header: "%s" (Font: Elegant Serif, Color: Brown/Beige, Top aligned).
2. Body Text: "%s" (Font: Clean Sans Serif, Color: Black/Dark Grey, Aligned left or center, Bullet points).
3. Decor: Place a small, minimalist illustration in the bottom right corner depicting: %s. Style of illustration: Line art or soft watercolor, matching the background.

Keep the design clean, airy, easy to read.`, backgroundStyle, title, bullets(content), decoration)
}

// FinalSlide builds the prompt for the last slide: interior layout plus a
// call-to-action footer.
func FinalSlide(title string, content []string, callToAction, backgroundStyle, decoration string) string {
	return fmt.Sprintf(`Create a 4:5 Instagram slide. Use the provided reference image (background/image2.jpg) as the background style.

Background: %s

Design elements:
1. Header: "%s" (Font: Elegant Serif, Color: Brown/Beige, Top aligned).
2. Body Text: "%s" (Font: Clean Sans Serif, Color: Black/Dark Grey, Aligned left or center, Bullet points).
3. Decor: Place a small, minimalist illustration in the bottom right corner depicting: %s. Style of illustration: Line art or soft watercolor, matching the background.
4. Footer: Call to Action text: "%s" (Font: Sans Serif, Color: Dark Brown, Medium size, Centered at bottom).

Keep the design clean, airy, easy to read.`, backgroundStyle, title, bullets(content), decoration, callToAction)
}

// ForSlide picks the right builder for the slide's position.
func ForSlide(s store.SlideContent, total int) string {
	switch Classify(s.SlideNumber, total) {
	case KindCover:
		return CoverSlide(s.Title, s.Subtitle, s.VisualIdea)
	case KindFinal:
		return FinalSlide(s.Title, s.Content, s.CallToAction, s.BackgroundStyle, s.Decoration)
	default:
		return InteriorSlide(s.Title, s.Content, s.BackgroundStyle, s.Decoration)
	}
}

// InfographicFromTopic builds the fixed single-shot infographic prompt used
// after a carousel, populated only with the topic.
func InfographicFromTopic(topic string) string {
	return fmt.Sprintf(`Create a detailed and structured infographic/cheat sheet in a 4:5 aspect ratio.

CRITICAL LANGUAGE REQUIREMENT: ALL TEXT MUST BE STRICTLY IN RUSSIAN LANGUAGE ONLY. NO ENGLISH TEXT ALLOWED. NO MIXED LANGUAGES.

Content Layout:

1. Main Headline at the Top: "%s" (font: bold, elegant serif, color: dark brown). Text must be in Russian.

2. Central Visual: A structured list, flowchart, or mind map summarizing the key points of the topic.

3. Text: Include 3-5 key takeaways or "golden rules" derived from the topic. Use clear headings and bullet points. ALL TEXT MUST BE IN RUSSIAN LANGUAGE ONLY. Write in Russian: "Ключевые моменты", "Правила", "Советы", etc.

4. Footer: A short note in Russian: "Сохрани себе" or "Сохрани для себя". NO ENGLISH TEXT.

Style: Clean, minimalist, high-quality typography, organized structure. Avoid unnecessary details. The image should look like a helpful psychological checklist or reminder.

REMINDER: ALL TEXT CONTENT MUST BE EXCLUSIVELY IN RUSSIAN. NO ENGLISH WORDS, NO ENGLISH PHRASES, NO MIXED LANGUAGES.`, topic)
}

// InfographicFromStructure builds the render prompt from a generated
// {heading, tips} document. Only the first four tips are used.
func InfographicFromStructure(heading string, tips []string) string {
	if len(tips) > 4 {
		tips = tips[:4]
	}
	lines := make([]string, len(tips))
	for i, t := range tips {
		lines[i] = "- " + t
	}
	return fmt.Sprintf(`Create a detailed and structured infographic/cheat sheet in a 4:5 aspect ratio.

CRITICAL LANGUAGE REQUIREMENT: ALL TEXT MUST BE STRICTLY IN RUSSIAN LANGUAGE ONLY. NO ENGLISH TEXT ALLOWED. NO MIXED LANGUAGES. NO ENGLISH WORDS OR PHRASES.

Style: Clean, minimalist, background: cream or soft. High-quality vector style.

Content Layout:

1. TOP HEADING: Large, bold text "%s" (font: bold, elegant, serif, color: dark brown, centered, clear and legible). Text is already in Russian - use it exactly as provided.

2. CENTRAL VISUAL ELEMENT: A structured list or simple diagram summarizing the topic. All labels and text in Russian only.

3. MAIN TEXT: Include the following texts in Russian (strict, legible, dark font). ALL TEXT MUST BE IN RUSSIAN:

%s

4. BOTTOM COLUMN: A short note at the bottom in Russian: "Сохрани себе" or "Сохрани для себя". NO ENGLISH TEXT LIKE "Save it for yourself".

Specifications: 4k resolution, organized structure, no spelling errors, ALL CONTENT WRITTEN EXCLUSIVELY IN RUSSIAN LANGUAGE, intended for a psychology blog on Instagram.

REMINDER: ABSOLUTELY NO ENGLISH TEXT. ALL TEXT MUST BE IN RUSSIAN. If you see any English words in the generated image, it is an error.`, heading, strings.Join(lines, "\n"))
}

// PadTips guarantees exactly four tips, filling gaps with placeholders when
// the generator returned fewer.
func PadTips(tips []string) []string {
	out := make([]string, 0, 4)
	for _, t := range tips {
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
		if len(out) == 4 {
			return out
		}
	}
	for len(out) < 4 {
		out = append(out, fmt.Sprintf("Совет %d", len(out)+1))
	}
	return out
}

func bullets(content []string) string {
	lines := make([]string, len(content))
	for i, item := range content {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}
