package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanStripsIntroPhrase(t *testing.T) {
	got := Clean("Вот пост:\n\nГраницы нужны каждому из нас.")
	assert.Equal(t, "Границы нужны каждому из нас.", got)
}

func TestCleanStripsWrappingQuotes(t *testing.T) {
	assert.Equal(t, "Текст поста", Clean(`"Текст поста"`))
	// Nested quoting is peeled layer by layer.
	assert.Equal(t, "Текст поста", Clean(`"'Текст поста'"`))
}

func TestCleanRemovesMarkdownOutsideTags(t *testing.T) {
	got := Clean("**Жирный** текст и <b>важное</b> слово")
	assert.Equal(t, "Жирный текст и <b>важное</b> слово", got)
}

func TestCleanKeepsTagSpansVerbatim(t *testing.T) {
	in := "<b>X</b> и <i>Y</i>"
	assert.Equal(t, in, Clean(in))
}

func TestCleanRemovesListMarkersAtLineStart(t *testing.T) {
	got := Clean("* первый\n- второй\nне - маркер")
	assert.Equal(t, "первый\nвторой\nне - маркер", got)
}

func TestCleanCollapsesBlankLines(t *testing.T) {
	got := Clean("Абзац один\n\n\n\n\nАбзац два")
	assert.Equal(t, "Абзац один\n\nАбзац два", got)
}

func TestCleanClampsLongText(t *testing.T) {
	in := strings.Repeat("н", 4200)
	got := Clean(in)
	assert.Equal(t, MaxPostLength, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestCleanIsIdempotent(t *testing.T) {
	inputs := []string{
		"Вот пост:\n\n**Жирный** и <b>тег</b>",
		`"'в кавычках'"`,
		"# Заголовок\n* пункт\n\n\n\nконец",
		strings.Repeat("а", 5000),
	}
	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once))
	}
}
