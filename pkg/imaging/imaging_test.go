package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPNG renders a white page with a black block, a crude stand-in for
// printed text on paper.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for y := h / 4; y < h/2; y++ {
		for x := w / 4; x < w/2; x++ {
			img.SetGray(x, y, color.Gray{Y: 0})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func flatPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeProducesBitonalPNG(t *testing.T) {
	opts := DefaultOptions()
	opts.MinHeight = 64 // keep the test image at its native size

	out, err := Normalize(testPNG(t, 64, 64), opts)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	bounds := decoded.Bounds()
	assert.Equal(t, 64, bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(decoded.At(x, y)).(color.Gray)
			if g.Y != 0 && g.Y != 255 {
				t.Fatalf("pixel (%d,%d)=%d is not bitonal", x, y, g.Y)
			}
		}
	}
}

func TestNormalizeUpscalesShortImages(t *testing.T) {
	opts := DefaultOptions()
	opts.MinHeight = 128

	out, err := Normalize(testPNG(t, 64, 64), opts)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, decoded.Bounds().Dy(), 128)
}

func TestNormalizeDegenerateInputs(t *testing.T) {
	opts := DefaultOptions()
	opts.MinHeight = 64

	tests := []struct {
		name    string
		content []byte
	}{
		{"empty", nil},
		{"not an image", []byte("definitely not image bytes")},
		{"single pixel", testPNG(t, 1, 1)},
		{"flat color", flatPNG(t, 64, 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.content, opts)
			require.Error(t, err)
			var decodeErr *DecodeError
			assert.ErrorAs(t, err, &decodeErr)
			assert.NotEmpty(t, decodeErr.Message)
		})
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	filled := Options{}.withDefaults()
	assert.Equal(t, DefaultOptions(), filled)

	// even block sizes are bumped to the next odd value
	odd := Options{BlockSize: 30}.withDefaults()
	assert.Equal(t, 31, odd.BlockSize)
}
