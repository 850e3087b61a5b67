package imageutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// DefaultMaxDimension bounds the longest side of a signature image
const DefaultMaxDimension = 400

// ResizeConfig holds configuration for image resizing
type ResizeConfig struct {
	MaxDimension int    // Maximum width or height (default 400)
	Quality      int    // JPEG quality 1-100 (default 90)
	OutputFormat string // "png" or "jpeg" (default "png")
}

// DefaultConfig returns the configuration used for signature images
func DefaultConfig() *ResizeConfig {
	return &ResizeConfig{
		MaxDimension: DefaultMaxDimension,
		Quality:      90,
		OutputFormat: "png",
	}
}

// Normalize decodes any supported image, downsizes it if it exceeds the max
// dimension while keeping the aspect ratio, and re-encodes it in the configured
// output format. Re-encoding always happens so callers get a predictable type.
func Normalize(imageData []byte, config *ResizeConfig) ([]byte, error) {
	if config == nil {
		config = DefaultConfig()
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	var out image.Image = img
	if config.MaxDimension > 0 && (width > config.MaxDimension || height > config.MaxDimension) {
		newWidth, newHeight := fit(width, height, config.MaxDimension)
		dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		// CatmullRom keeps thin pen strokes legible when shrinking
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	switch config.OutputFormat {
	case "jpeg", "jpg":
		err = jpeg.Encode(&buf, out, &jpeg.Options{Quality: config.Quality})
	default:
		err = png.Encode(&buf, out)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), nil
}

// fit scales width×height so the longest side equals max
func fit(width, height, max int) (int, int) {
	if width > height {
		h := int(float64(height) * float64(max) / float64(width))
		if h < 1 {
			h = 1
		}
		return max, h
	}
	w := int(float64(width) * float64(max) / float64(height))
	if w < 1 {
		w = 1
	}
	return w, max
}
