//go:build !ocr

package tesseract

import (
	"context"

	"github.com/gardar/ocrlayout/pkg/layout"
)

// Enabled reports whether Tesseract support was compiled in
const Enabled = false

// Recognize returns ErrOCRNotEnabled
func Recognize(ctx context.Context, image []byte, pageNumber int, opts Options) (layout.PageInput, error) {
	return layout.PageInput{}, ErrOCRNotEnabled
}
