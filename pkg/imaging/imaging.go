package imaging

// DecodeError indicates input bytes that cannot be processed as a supported
// image: undecodable data, a degenerate size, or a single flat color.
type DecodeError struct {
	Message string
}

func (e *DecodeError) Error() string {
	return e.Message
}

// Options tunes the binarization pipeline. The zero value is usable; any
// zero field falls back to its default.
type Options struct {
	MinHeight      int     // images shorter than this are upscaled first
	BlurSigma      float64 // width of the background blur for illumination correction
	ClipLimit      float64 // CLAHE contrast clip
	TileSize       int     // CLAHE tile grid side
	BilateralD     int     // bilateral filter pixel neighborhood diameter
	BilateralSigma float64 // bilateral filter color and space sigma
	BlockSize      int     // adaptive threshold neighborhood side, must be odd
	ThresholdC     float64 // constant subtracted from the local weighted mean
}

// DefaultOptions returns the settings tuned for photographed lab reports.
func DefaultOptions() Options {
	return Options{
		MinHeight:      1500,
		BlurSigma:      25,
		ClipLimit:      2.0,
		TileSize:       8,
		BilateralD:     5,
		BilateralSigma: 50,
		BlockSize:      31,
		ThresholdC:     15,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MinHeight <= 0 {
		o.MinHeight = def.MinHeight
	}
	if o.BlurSigma <= 0 {
		o.BlurSigma = def.BlurSigma
	}
	if o.ClipLimit <= 0 {
		o.ClipLimit = def.ClipLimit
	}
	if o.TileSize <= 0 {
		o.TileSize = def.TileSize
	}
	if o.BilateralD <= 0 {
		o.BilateralD = def.BilateralD
	}
	if o.BilateralSigma <= 0 {
		o.BilateralSigma = def.BilateralSigma
	}
	if o.BlockSize <= 0 {
		o.BlockSize = def.BlockSize
	}
	if o.BlockSize%2 == 0 {
		o.BlockSize++
	}
	if o.ThresholdC == 0 {
		o.ThresholdC = def.ThresholdC
	}
	return o
}
