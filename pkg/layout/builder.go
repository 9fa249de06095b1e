package layout

import (
	"math"
	"sort"
)

// BuildBlocks converts the surviving lines and the reconstructed tables into
// an ordered block sequence. Tables are placed by their top edge among the
// lines and always close the paragraph they interrupt.
func BuildBlocks(lines []Line, starts, excluded []bool, tables []Table, cfg Config) []Block {
	ordered := make([]Table, len(tables))
	copy(ordered, tables)
	sort.SliceStable(ordered, func(a, b int) bool {
		if ordered[a].BBox.Y0 != ordered[b].BBox.Y0 {
			return ordered[a].BBox.Y0 < ordered[b].BBox.Y0
		}
		return ordered[a].BBox.X0 < ordered[b].BBox.X0
	})

	st := newStyler(lines, cfg)

	var blocks []Block
	paragraph := -1
	forceBreak := true
	next := 0
	for i, line := range lines {
		if i < len(excluded) && excluded[i] {
			continue
		}

		// Place the tables that start above this line
		for next < len(ordered) && ordered[next].BBox.Y0 < line.BBox.Y0 {
			blocks = append(blocks, Block{Type: BlockTable, Table: &ordered[next]})
			next++
			forceBreak = true
		}

		if forceBreak || (i < len(starts) && starts[i]) {
			paragraph++
			forceBreak = false
		}

		pb := st.style(line)
		pb.Paragraph = paragraph
		blocks = append(blocks, Block{Type: BlockParagraph, Paragraph: pb})
	}
	for ; next < len(ordered); next++ {
		blocks = append(blocks, Block{Type: BlockTable, Table: &ordered[next]})
	}

	st.finish(blocks)
	return blocks
}

// styler derives paragraph styling from page-level geometry
type styler struct {
	cfg       Config
	content   BBox
	avgHeight float64
}

func newStyler(lines []Line, cfg Config) *styler {
	return &styler{
		cfg:       cfg,
		content:   contentBounds(lines),
		avgHeight: meanLineHeight(lines),
	}
}

// style computes the per-line attributes that do not depend on neighbours
func (s *styler) style(line Line) *ParagraphBlock {
	return &ParagraphBlock{
		Text:      line.Text,
		Indent:    s.indent(line),
		Alignment: s.alignment(line),
		FontSize:  s.fontSize(line),
		BBox:      line.BBox,
	}
}

// fontSize estimates the font size in half-points from the line height
func (s *styler) fontSize(line Line) int {
	points := line.BBox.Height() / s.cfg.LineHeightPerFont * s.cfg.PointsPerUnit
	return clampInt(int(math.Round(points*2)), s.cfg.MinFontSize, s.cfg.MaxFontSize)
}

// indent measures the left offset from the content edge
func (s *styler) indent(line Line) int {
	return max(0, int(math.Round((line.BBox.X0-s.content.X0)*s.cfg.IndentScale)))
}

// alignment classifies a line against the content box
func (s *styler) alignment(line Line) Alignment {
	width := s.content.Width()
	if width <= 0 {
		return AlignLeft
	}
	if s.cfg.FullWidthRatio > 0 && line.BBox.Width() >= s.cfg.FullWidthRatio*width {
		return AlignLeft
	}

	tol := s.cfg.AlignmentTolerance * width
	switch {
	case math.Abs(line.BBox.CenterX()-s.content.CenterX()) < tol:
		return AlignCenter
	case math.Abs(line.BBox.X1-s.content.X1) < tol:
		return AlignRight
	default:
		return AlignLeft
	}
}

// spacing maps the gap below a line to a bounded spacing in points
func (s *styler) spacing(gap float64) int {
	if s.avgHeight <= 0 || gap <= 0 {
		return 0
	}
	ratio := gap / s.avgHeight
	for _, step := range s.cfg.Spacing {
		if ratio > step.Ratio {
			return clampInt(int(math.Round(gap*s.cfg.PointsPerUnit)), step.Min, step.Max)
		}
	}
	return 0
}

// finish fills the attributes that depend on the whole block sequence:
// spacing after each line and the heading flag
func (s *styler) finish(blocks []Block) {
	var sum, n int
	for _, b := range blocks {
		if b.Type == BlockParagraph {
			sum += b.Paragraph.FontSize
			n++
		}
	}
	if n == 0 {
		return
	}
	mean := float64(sum) / float64(n)

	for i, b := range blocks {
		if b.Type != BlockParagraph {
			continue
		}
		pb := b.Paragraph
		if i+1 < len(blocks) {
			pb.SpacingAfter = s.spacing(blocks[i+1].top() - pb.BBox.Y1)
		}
		if float64(pb.FontSize) > s.cfg.HeadingRatio*mean {
			pb.Bold = true
			pb.Heading = true
		}
	}
}
