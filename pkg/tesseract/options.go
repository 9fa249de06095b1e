// Package tesseract recognizes page images with the Tesseract OCR engine and
// returns word boxes ready for the layout engine.
//
// Tesseract support is compiled in with the "ocr" build tag and requires the
// Tesseract libraries to be installed:
//
//	go build -tags ocr ./...
//
// On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
//
// Without the tag, Recognize returns ErrOCRNotEnabled and ImageSize remains
// available for probing page images.
package tesseract

import "errors"

// ErrOCRNotEnabled is returned when recognition is requested but OCR support
// was not compiled in. Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Options controls a recognition run
type Options struct {
	// Languages are Tesseract language codes such as "eng" or "isl"; empty means eng
	Languages []string
	// DPI overrides the resolution Tesseract assumes for the image, 0 keeps its guess
	DPI int
	// PageSegMode is a Tesseract page segmentation mode, 0 keeps the default (3, fully automatic)
	PageSegMode int
}
