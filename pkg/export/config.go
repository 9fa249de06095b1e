package export

import "log/slog"

// PDFConfig holds user options for rendering reconstructed pages as PDF
type PDFConfig struct {
	Title    string       // Document title stored in the PDF metadata
	PageSize string       // fpdf page size name ("A4", "Letter", ...)
	Margin   float64      // Page margin in points
	Debug    bool         // Frame every paragraph block
	Compress bool         // Compress page streams
	Logger   *slog.Logger // Receives encoding warnings (nil discards)
	Font     FontConfig
}

// DefaultPDFConfig returns a config with sensible defaults
func DefaultPDFConfig() PDFConfig {
	return PDFConfig{
		PageSize: "A4",
		Margin:   56,
		Compress: true,
		Font:     DefaultFont,
	}
}

// withDefaults fills zero fields from DefaultPDFConfig
func (c PDFConfig) withDefaults() PDFConfig {
	d := DefaultPDFConfig()
	if c.PageSize == "" {
		c.PageSize = d.PageSize
	}
	if c.Margin <= 0 {
		c.Margin = d.Margin
	}
	if c.Font.Name == "" {
		c.Font.Name = d.Font.Name
	}
	if c.Font.Size <= 0 {
		c.Font.Size = d.Font.Size
	}
	if c.Font.LineHeight <= 0 {
		c.Font.LineHeight = d.Font.LineHeight
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// FontConfig contains font settings for rendered text
type FontConfig struct {
	Name       string  // Font name (e.g., "Helvetica")
	Style      string  // Base font style ("", "B", "I", "BI")
	Size       float64 // Size used for tables and blocks without a font size
	LineHeight float64 // Line height as a multiple of the font size
}

// DefaultFont uses Helvetica, one of the PDF core fonts, so no font files are needed
var DefaultFont = FontConfig{
	Name:       "Helvetica",
	Style:      "",
	Size:       10,
	LineHeight: 1.2,
}
