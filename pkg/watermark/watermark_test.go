package watermark

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestLogo(t *testing.T) string {
	t.Helper()
	logo := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			logo.SetRGBA(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "logo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, logo))
	require.NoError(t, f.Close())
	return path
}

func slideBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNewStamperMissingFile(t *testing.T) {
	_, err := NewStamper(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestApplyStampsLogo(t *testing.T) {
	s, err := NewStamper(writeTestLogo(t))
	require.NoError(t, err)

	in := slideBytes(t, 400, 500)
	out := s.Apply(in, PositionBottomRight, false)
	require.NotEqual(t, in, out)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 400, decoded.Bounds().Dx())
	assert.Equal(t, 500, decoded.Bounds().Dy())

	// Stamp is 80x40 at offset (300,440): the marked region is light, a far
	// corner is untouched.
	r, _, _, _ := decoded.At(340, 460).RGBA()
	assert.NotZero(t, r)
	r, _, _, _ = decoded.At(10, 10).RGBA()
	assert.Zero(t, r)
}

func TestApplyNoPositionPassthrough(t *testing.T) {
	s, err := NewStamper(writeTestLogo(t))
	require.NoError(t, err)

	in := slideBytes(t, 100, 100)
	assert.Equal(t, in, s.Apply(in, PositionNone, false))
}

func TestApplyNilStamperPassthrough(t *testing.T) {
	var s *Stamper
	in := []byte("not an image")
	assert.Equal(t, in, s.Apply(in, PositionTopLeft, true))
}

func TestApplyBadImagePassthrough(t *testing.T) {
	s, err := NewStamper(writeTestLogo(t))
	require.NoError(t, err)

	in := []byte("definitely not a png")
	assert.Equal(t, in, s.Apply(in, PositionTopLeft, true))
}
