package tesseract

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageSize returns the pixel dimensions and format name of an encoded image
// Only the header is decoded. PNG, JPEG, GIF, TIFF, WebP and BMP are supported.
func ImageSize(data []byte) (width, height int, format string, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", fmt.Errorf("failed to read image header: %w", err)
	}
	return cfg.Width, cfg.Height, format, nil
}
