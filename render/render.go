// Package render draws single-channel grayscale frames as ASCII glyphs on a
// terminal.
//
// Each pixel intensity maps to one glyph from a fixed five-step ramp ordered
// light to dark. Every render repositions the cursor to the top-left first,
// so repeated renders repaint in place rather than scrolling.
package render

import (
	"bufio"
	"fmt"
	"io"
)

// ramp orders glyphs by increasing visual density. Intensities bucket in
// steps of 52, so the last glyph absorbs 208 through 255.
const ramp = " .-+#"

const bucketSize = 52

// cursorHome moves the cursor to row 1, column 1.
const cursorHome = "\x1b[H"

// Frame is a tightly packed single-plane grayscale image.
type Frame struct {
	// Pix holds one intensity byte per pixel; row y starts at y*Stride.
	Pix    []byte
	Width  int
	Height int
	Stride int
}

// Glyph returns the ramp glyph for a pixel intensity.
func Glyph(v byte) byte {
	return ramp[int(v)/bucketSize]
}

// Renderer writes ASCII frames to a terminal.
//
// Create instances with [New].
type Renderer struct {
	w *bufio.Writer
}

// New creates a [Renderer] writing to w.
func New(w io.Writer) *Renderer {
	return &Renderer{
		w: bufio.NewWriter(w),
	}
}

// Render draws one frame: a cursor-home escape, then one line of glyphs per
// pixel row. Output is buffered and flushed once after the full frame, so a
// partial frame is never left sitting in the buffer.
func (r *Renderer) Render(f *Frame) error {
	_, err := r.w.WriteString(cursorHome)
	if err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}

	for y := 0; y < f.Height; y++ {
		row := f.Pix[y*f.Stride:]

		for x := 0; x < f.Width; x++ {
			err = r.w.WriteByte(Glyph(row[x]))
			if err != nil {
				return fmt.Errorf("writing frame: %w", err)
			}
		}

		err = r.w.WriteByte('\n')
		if err != nil {
			return fmt.Errorf("writing frame: %w", err)
		}
	}

	err = r.w.Flush()
	if err != nil {
		return fmt.Errorf("flushing frame: %w", err)
	}

	return nil
}
