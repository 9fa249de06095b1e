//go:build ocr

package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/gardar/ocrlayout/pkg/layout"
)

// Enabled reports whether Tesseract support was compiled in
const Enabled = true

// Recognize runs Tesseract on one page image and returns its words
// Word boxes are in image pixels; confidences are rescaled to [0, 1].
func Recognize(ctx context.Context, image []byte, pageNumber int, opts Options) (layout.PageInput, error) {
	if err := ctx.Err(); err != nil {
		return layout.PageInput{}, err
	}

	width, height, _, err := ImageSize(image)
	if err != nil {
		return layout.PageInput{}, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(image); err != nil {
		return layout.PageInput{}, fmt.Errorf("failed to set image: %w", err)
	}
	if len(opts.Languages) > 0 {
		if err := client.SetLanguage(opts.Languages...); err != nil {
			return layout.PageInput{}, fmt.Errorf("failed to set languages: %w", err)
		}
	}
	if opts.PageSegMode > 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(opts.PageSegMode)); err != nil {
			return layout.PageInput{}, fmt.Errorf("failed to set page segmentation mode: %w", err)
		}
	}
	if opts.DPI > 0 {
		if err := client.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(opts.DPI)); err != nil {
			return layout.PageInput{}, fmt.Errorf("failed to set dpi: %w", err)
		}
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return layout.PageInput{}, fmt.Errorf("OCR failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return layout.PageInput{}, err
	}

	in := layout.PageInput{
		PageNumber: pageNumber,
		Width:      float64(width),
		Height:     float64(height),
		Words:      make([]layout.PayloadWord, 0, len(boxes)),
	}
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		p := layout.Probability(b.Confidence / 100)
		in.Words = append(in.Words, layout.PayloadWord{
			Text: text,
			Location: &layout.Location{
				Left:   float64(b.Box.Min.X),
				Top:    float64(b.Box.Min.Y),
				Width:  float64(b.Box.Dx()),
				Height: float64(b.Box.Dy()),
			},
			Probability: &p,
		})
	}
	return in, nil
}
