package layout

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned when a Config fails validation
var ErrInvalidConfig = errors.New("invalid layout config")

// SpacingStep maps a gap/line-height ratio to a bounded spacing value
// A gap whose ratio exceeds Ratio is converted to points and clamped to [Min, Max]
type SpacingStep struct {
	Ratio float64 `json:"ratio" yaml:"ratio"`
	Min   int     `json:"min" yaml:"min"`
	Max   int     `json:"max" yaml:"max"`
}

// Config holds every threshold used by the reconstruction pipeline
// All distances are in page units (pixels for scanned pages)
type Config struct {
	// Lines
	LineTolerance float64 `json:"line_tolerance" yaml:"line_tolerance"` // y0 snapping grid

	// Paragraphs
	ParagraphGapMultiplier float64 `json:"paragraph_gap" yaml:"paragraph_gap"` // x average line height

	// Tables
	HeuristicTables   bool    `json:"heuristic_tables" yaml:"heuristic_tables"`
	RowCandidateGap   float64 `json:"row_candidate_gap" yaml:"row_candidate_gap"` // x mean word width
	ColumnSnap        float64 `json:"column_snap" yaml:"column_snap"`
	ColumnTolerance   float64 `json:"column_tolerance" yaml:"column_tolerance"`
	MinAlignedColumns int     `json:"min_aligned_columns" yaml:"min_aligned_columns"`
	MinTableRows      int     `json:"min_table_rows" yaml:"min_table_rows"`
	MinTableCols      int     `json:"min_table_cols" yaml:"min_table_cols"`
	HeaderMaxChars    int     `json:"header_max_chars" yaml:"header_max_chars"`
	MaxGridCells      int     `json:"max_grid_cells" yaml:"max_grid_cells"`

	// Block styling
	PointsPerUnit      float64       `json:"points_per_unit" yaml:"points_per_unit"`
	LineHeightPerFont  float64       `json:"line_height_per_font" yaml:"line_height_per_font"`
	MinFontSize        int           `json:"min_font_size" yaml:"min_font_size"` // half-points
	MaxFontSize        int           `json:"max_font_size" yaml:"max_font_size"` // half-points
	IndentScale        float64       `json:"indent_scale" yaml:"indent_scale"`
	AlignmentTolerance float64       `json:"alignment_tolerance" yaml:"alignment_tolerance"` // fraction of content width
	FullWidthRatio     float64       `json:"full_width_ratio" yaml:"full_width_ratio"`
	HeadingRatio       float64       `json:"heading_ratio" yaml:"heading_ratio"`
	Spacing            []SpacingStep `json:"spacing" yaml:"spacing"` // largest ratio first

	// Statistics
	LowConfidence float64 `json:"low_confidence" yaml:"low_confidence"`
}

// DefaultConfig returns the thresholds the pipeline was tuned with
func DefaultConfig() Config {
	return Config{
		LineTolerance:          5,
		ParagraphGapMultiplier: 1.8,

		HeuristicTables:   true,
		RowCandidateGap:   1.5,
		ColumnSnap:        15,
		ColumnTolerance:   15,
		MinAlignedColumns: 2,
		MinTableRows:      2,
		MinTableCols:      2,
		HeaderMaxChars:    20,
		MaxGridCells:      10000,

		PointsPerUnit:      0.75,
		LineHeightPerFont:  1.3,
		MinFontSize:        18,
		MaxFontSize:        48,
		IndentScale:        0.75,
		AlignmentTolerance: 0.15,
		FullWidthRatio:     0.9,
		HeadingRatio:       1.3,
		Spacing: []SpacingStep{
			{Ratio: 2.5, Min: 12, Max: 24},
			{Ratio: 1.5, Min: 6, Max: 12},
			{Ratio: 1.1, Min: 2, Max: 6},
		},

		LowConfidence: 60,
	}
}

// Validate checks that the thresholds can drive the pipeline
func (c Config) Validate() error {
	positive := map[string]float64{
		"line_tolerance":       c.LineTolerance,
		"paragraph_gap":        c.ParagraphGapMultiplier,
		"row_candidate_gap":    c.RowCandidateGap,
		"column_snap":          c.ColumnSnap,
		"column_tolerance":     c.ColumnTolerance,
		"points_per_unit":      c.PointsPerUnit,
		"line_height_per_font": c.LineHeightPerFont,
		"alignment_tolerance":  c.AlignmentTolerance,
		"heading_ratio":        c.HeadingRatio,
	}
	for _, name := range sortedKeys(positive) {
		if v := positive[name]; !finite(v) || v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, name, v)
		}
	}
	bounded := map[string]float64{
		"indent_scale":     c.IndentScale,
		"full_width_ratio": c.FullWidthRatio,
		"low_confidence":   c.LowConfidence,
	}
	for _, name := range sortedKeys(bounded) {
		if !finite(bounded[name]) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidConfig, name, bounded[name])
		}
	}
	if c.MinTableRows < 1 || c.MinTableCols < 1 {
		return fmt.Errorf("%w: table minimums must be at least 1", ErrInvalidConfig)
	}
	if c.MinAlignedColumns < 1 {
		return fmt.Errorf("%w: min_aligned_columns must be at least 1", ErrInvalidConfig)
	}
	if c.MaxGridCells < 1 {
		return fmt.Errorf("%w: max_grid_cells must be at least 1", ErrInvalidConfig)
	}
	if c.MinFontSize < 1 || c.MaxFontSize < c.MinFontSize {
		return fmt.Errorf("%w: font size range [%d, %d] is empty", ErrInvalidConfig, c.MinFontSize, c.MaxFontSize)
	}
	if c.IndentScale < 0 {
		return fmt.Errorf("%w: indent_scale must not be negative", ErrInvalidConfig)
	}
	for i, step := range c.Spacing {
		if !finite(step.Ratio) {
			return fmt.Errorf("%w: spacing step %d has ratio %v", ErrInvalidConfig, i, step.Ratio)
		}
		if step.Max < step.Min {
			return fmt.Errorf("%w: spacing step %d has max %d below min %d", ErrInvalidConfig, i, step.Max, step.Min)
		}
		if i > 0 && step.Ratio > c.Spacing[i-1].Ratio {
			return fmt.Errorf("%w: spacing steps must be ordered by descending ratio", ErrInvalidConfig)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
