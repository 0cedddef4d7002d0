// +build ocr

package imaging

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Normalize turns encoded image bytes into a PNG-encoded bitonal bitmap
// ready for recognition. Stages in order: grayscale decode, minimum-height
// upscale, illumination correction, CLAHE contrast enhancement, bilateral
// denoise, adaptive Gaussian threshold.
func Normalize(content []byte, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	src, err := gocv.IMDecode(content, gocv.IMReadGrayScale)
	if err != nil || src.Empty() {
		return nil, &DecodeError{Message: "content is not a decodable image"}
	}
	defer src.Close()
	if src.Rows() < 2 || src.Cols() < 2 {
		return nil, &DecodeError{Message: fmt.Sprintf("image %dx%d is too small to process", src.Cols(), src.Rows())}
	}
	minVal, maxVal, _, _ := gocv.MinMaxLoc(src)
	if minVal == maxVal {
		return nil, &DecodeError{Message: "image is a single flat color"}
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if src.Rows() < opts.MinHeight {
		// upscale acts as a DPI proxy for low-resolution photos
		scale := float64(opts.MinHeight) / float64(src.Rows())
		gocv.Resize(src, &gray, image.Point{}, scale, scale, gocv.InterpolationCubic)
	} else {
		src.CopyTo(&gray)
	}

	// dividing by a wide blur of the page flattens uneven lighting
	f32 := gocv.NewMat()
	defer f32.Close()
	gray.ConvertTo(&f32, gocv.MatTypeCV32F)
	bg := gocv.NewMat()
	defer bg.Close()
	gocv.GaussianBlur(f32, &bg, image.Point{}, opts.BlurSigma, opts.BlurSigma, gocv.BorderDefault)
	flat := gocv.NewMat()
	defer flat.Close()
	gocv.Divide(f32, bg, &flat)
	gocv.Normalize(flat, &flat, 0, 255, gocv.NormMinMax)
	leveled := gocv.NewMat()
	defer leveled.Close()
	flat.ConvertTo(&leveled, gocv.MatTypeCV8U)

	clahe := gocv.NewCLAHEWithParams(opts.ClipLimit, image.Pt(opts.TileSize, opts.TileSize))
	defer clahe.Close()
	contrasted := gocv.NewMat()
	defer contrasted.Close()
	clahe.Apply(leveled, &contrasted)

	// bilateral keeps glyph edges and punctuation that median blur eats
	denoised := gocv.NewMat()
	defer denoised.Close()
	gocv.BilateralFilter(contrasted, &denoised, opts.BilateralD, opts.BilateralSigma, opts.BilateralSigma)

	binarized := gocv.NewMat()
	defer binarized.Close()
	gocv.AdaptiveThreshold(denoised, &binarized, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinary, opts.BlockSize, float32(opts.ThresholdC))

	buf, err := gocv.IMEncode(gocv.PNGFileExt, binarized)
	if err != nil {
		return nil, fmt.Errorf("encoding binarized image: %w", err)
	}
	defer buf.Close()
	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}
