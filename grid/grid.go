// Package grid plans terminal character-grid resolutions that preserve a
// video's displayed aspect ratio.
//
// Terminal glyph cells are not square: a typical font cell is roughly twice
// as tall as it is wide. A planner corrects for both the source's pixel
// (sample) aspect ratio and the cell geometry so that a frame rendered one
// glyph per pixel keeps its original proportions on screen.
package grid

import "math"

const (
	// DefaultMaxColumns is the default character-grid width cap.
	DefaultMaxColumns = 80
	// DefaultCellAspect is the width:height ratio of a typical terminal
	// glyph cell.
	DefaultCellAspect = 0.5

	// minAdjustedAspect guards the height derivation against degenerate
	// inputs (zero width or height) that would otherwise divide by zero.
	minAdjustedAspect = 1e-6
)

// Plan is a planned character-grid resolution. Both dimensions are even and
// at least 2.
type Plan struct {
	Width  int
	Height int
}

// Planner computes character-grid plans for source video dimensions.
//
// Create instances with [Config.NewPlanner].
type Planner struct {
	maxColumns int
	cellAspect float64
}

// NewPlanner creates a [Planner] with the given width cap and glyph cell
// aspect ratio. Non-positive values fall back to the defaults.
func NewPlanner(maxColumns int, cellAspect float64) *Planner {
	if maxColumns <= 0 {
		maxColumns = DefaultMaxColumns
	}

	if cellAspect <= 0 {
		cellAspect = DefaultCellAspect
	}

	return &Planner{
		maxColumns: maxColumns,
		cellAspect: cellAspect,
	}
}

// Plan computes the character grid for a source of width x height pixels
// with the given sample aspect ratio.
//
// The width is always pinned to the planner's column cap; the height is
// derived from the cell-corrected display aspect ratio. Deriving height from
// a fixed width (rather than the other way around) is deliberate: terminal
// width is the binding constraint for ASCII output.
func (p *Planner) Plan(width, height, sarNum, sarDen int) Plan {
	displayWidth := float64(width)
	if sarNum > 0 && sarDen > 0 {
		displayWidth *= float64(sarNum) / float64(sarDen)
	}

	var displayAspect float64
	if height > 0 {
		displayAspect = displayWidth / float64(height)
	}

	adjustedAspect := displayAspect / p.cellAspect
	if adjustedAspect < minAdjustedAspect {
		adjustedAspect = minAdjustedAspect
	}

	targetWidth := float64(p.maxColumns)

	targetHeight := math.Round(targetWidth / adjustedAspect)
	if targetHeight < 1 {
		targetHeight = 1
	}

	// Scale filters prefer even dimensions. Width rounds down so an odd
	// column cap is never exceeded; height rounds to nearest.
	w := p.maxColumns / 2 * 2
	h := int(math.Round(targetHeight/2)) * 2

	if w == 0 {
		w = 2
	}

	if h == 0 {
		h = 2
	}

	return Plan{Width: w, Height: h}
}
