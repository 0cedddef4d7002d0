// +build !ocr

package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
)

// Normalize is the pure-Go variant used when the OpenCV-backed build is not
// available. It runs a reduced pipeline: grayscale decode, minimum-height
// upscale and mean-block adaptive threshold. Illumination correction, CLAHE
// and bilateral denoise need the ocr build.
func Normalize(content []byte, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, &DecodeError{Message: "content is not a decodable image"}
	}
	bounds := img.Bounds()
	if bounds.Dx() < 2 || bounds.Dy() < 2 {
		return nil, &DecodeError{Message: fmt.Sprintf("image %dx%d is too small to process", bounds.Dx(), bounds.Dy())}
	}

	gray := toGray(img)
	if isFlat(gray) {
		return nil, &DecodeError{Message: "image is a single flat color"}
	}
	if gray.Rect.Dy() < opts.MinHeight {
		gray = upscale(gray, opts.MinHeight)
	}
	binarized := adaptiveBinarize(gray, opts.BlockSize, opts.ThresholdC)

	var out bytes.Buffer
	if err := png.Encode(&out, binarized); err != nil {
		return nil, fmt.Errorf("encoding binarized image: %w", err)
	}
	return out.Bytes(), nil
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == image.Pt(0, 0) {
		return g
	}
	bounds := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(x-bounds.Min.X, y-bounds.Min.Y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return dst
}

func isFlat(g *image.Gray) bool {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	first := g.Pix[0]
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+w]
		for _, p := range row {
			if p != first {
				return false
			}
		}
	}
	return true
}

// upscale grows the image so its height reaches minHeight, preserving the
// aspect ratio. Nearest neighbor is enough as a DPI proxy for recognition.
func upscale(src *image.Gray, minHeight int) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	nw := int(float64(w)*float64(minHeight)/float64(h) + 0.5)
	if nw < 1 {
		nw = 1
	}
	dst := image.NewGray(image.Rect(0, 0, nw, minHeight))
	for y := 0; y < minHeight; y++ {
		sy := y * h / minHeight
		for x := 0; x < nw; x++ {
			sx := x * w / nw
			dst.Pix[y*dst.Stride+x] = src.Pix[sy*src.Stride+sx]
		}
	}
	return dst
}

// adaptiveBinarize thresholds each pixel against the mean of its block
// neighborhood minus c, via a summed-area table.
func adaptiveBinarize(src *image.Gray, block int, c float64) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	stride := w + 1
	sums := make([]uint64, stride*(h+1))
	for y := 0; y < h; y++ {
		var rowSum uint64
		for x := 0; x < w; x++ {
			rowSum += uint64(src.Pix[y*src.Stride+x])
			sums[(y+1)*stride+x+1] = sums[y*stride+x+1] + rowSum
		}
	}

	half := block / 2
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		y0, y1 := max(0, y-half), min(h, y+half+1)
		for x := 0; x < w; x++ {
			x0, x1 := max(0, x-half), min(w, x+half+1)
			area := uint64((y1 - y0) * (x1 - x0))
			total := sums[y1*stride+x1] - sums[y0*stride+x1] - sums[y1*stride+x0] + sums[y0*stride+x0]
			mean := float64(total) / float64(area)
			if float64(src.Pix[y*src.Stride+x]) > mean-c {
				dst.Pix[y*dst.Stride+x] = 255
			}
		}
	}
	return dst
}
