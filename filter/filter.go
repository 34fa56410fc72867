// Package filter builds the grayscale conversion pipeline on go-astiav's
// filter graph.
//
// The pipeline is a parsed textual chain between a buffer source and a
// buffer sink: decoded frames go in at the source with their native size and
// pixel format, and single-channel gray frames of exactly the planned grid
// size come out at the sink. Scaling and format conversion both happen
// inside the graph.
package filter

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"

	"go.jacobcolvin.com/asciiframe/grid"
	"go.jacobcolvin.com/asciiframe/media"
)

var (
	// ErrGraphParse indicates the textual filter description could not be
	// parsed.
	ErrGraphParse = errors.New("parsing filter graph")
	// ErrGraphConfig indicates the graph could not be built or validated.
	ErrGraphConfig = errors.New("configuring filter graph")
	// ErrFormatNegotiation indicates the sink produced something other than
	// single-channel grayscale at the planned size.
	ErrFormatNegotiation = errors.New("negotiating output format")
	// ErrPush indicates a decoded frame could not be fed to the graph.
	ErrPush = errors.New("feeding filter graph")
	// ErrPull indicates a converted frame could not be retrieved from the
	// graph.
	ErrPull = errors.New("pulling from filter graph")

	// ErrNeedMoreInput signals that the sink cannot emit a frame until more
	// input is pushed. It is normal flow control, not a failure.
	ErrNeedMoreInput = errors.New("filter graph needs more input")
)

// Description returns the textual filter chain for a plan: scale to the
// planned grid, then convert to grayscale.
func Description(p grid.Plan) string {
	return fmt.Sprintf("scale=%d:%d,format=gray", p.Width, p.Height)
}

// Pipeline is a configured conversion graph. It owns the underlying filter
// graph and must be closed exactly once.
//
// Create instances with [NewPipeline].
type Pipeline struct {
	graph  *astiav.FilterGraph
	src    *astiav.BuffersrcFilterContext
	sink   *astiav.BuffersinkFilterContext
	plan   grid.Plan
	closed bool
}

// NewPipeline builds and validates a conversion pipeline for the given
// stream and plan. The buffer source is parameterized with the stream's
// exact metadata; frames pushed later must match it.
func NewPipeline(stream media.Stream, plan grid.Plan) (*Pipeline, error) {
	graph := astiav.AllocFilterGraph()
	if graph == nil {
		return nil, fmt.Errorf("%w: allocating graph", ErrGraphConfig)
	}

	ok := false
	defer func() {
		if !ok {
			graph.Free()
		}
	}()

	buffersrc := astiav.FindFilterByName("buffer")
	buffersink := astiav.FindFilterByName("buffersink")

	if buffersrc == nil || buffersink == nil {
		return nil, fmt.Errorf("%w: buffer source or sink filter unavailable", ErrGraphConfig)
	}

	srcCtx, err := graph.NewBuffersrcFilterContext(buffersrc, "in")
	if err != nil {
		return nil, fmt.Errorf("%w: creating buffer source: %w", ErrGraphConfig, err)
	}

	sinkCtx, err := graph.NewBuffersinkFilterContext(buffersink, "out")
	if err != nil {
		return nil, fmt.Errorf("%w: creating buffer sink: %w", ErrGraphConfig, err)
	}

	params := astiav.AllocBuffersrcFilterContextParameters()
	defer params.Free()

	params.SetWidth(stream.Width)
	params.SetHeight(stream.Height)
	params.SetPixelFormat(stream.PixelFormat)
	params.SetSampleAspectRatio(stream.SampleAspectRatio)
	params.SetTimeBase(stream.TimeBase)

	err = srcCtx.SetParameters(params)
	if err != nil {
		return nil, fmt.Errorf("%w: setting buffer source parameters: %w", ErrGraphConfig, err)
	}

	err = srcCtx.Initialize(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: initializing buffer source: %w", ErrGraphConfig, err)
	}

	// The parsed chain consumes the source's output pad and feeds the
	// sink's input pad.
	outputs := astiav.AllocFilterInOut()
	defer outputs.Free()

	outputs.SetName("in")
	outputs.SetFilterContext(srcCtx.FilterContext())
	outputs.SetPadIdx(0)

	inputs := astiav.AllocFilterInOut()
	defer inputs.Free()

	inputs.SetName("out")
	inputs.SetFilterContext(sinkCtx.FilterContext())
	inputs.SetPadIdx(0)

	err = graph.Parse(Description(plan), inputs, outputs)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrGraphParse, Description(plan), err)
	}

	err = graph.Configure()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGraphConfig, err)
	}

	ok = true

	return &Pipeline{
		graph: graph,
		src:   srcCtx,
		sink:  sinkCtx,
		plan:  plan,
	}, nil
}

// Plan returns the grid the pipeline was configured for.
func (p *Pipeline) Plan() grid.Plan {
	return p.plan
}

// Push feeds a decoded frame into the graph. The graph keeps its own
// reference, so the caller still owns f and remains responsible for
// unreferencing it.
func (p *Pipeline) Push(f *astiav.Frame) error {
	err := p.src.AddFrame(f, astiav.NewBuffersrcFlags(astiav.BuffersrcFlagKeepRef))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPush, err)
	}

	return nil
}

// Pull retrieves one converted frame into dst. It returns
// [ErrNeedMoreInput] when the sink has nothing to emit yet, and verifies
// that emitted frames are gray8 at exactly the planned size.
func (p *Pipeline) Pull(dst *astiav.Frame) error {
	err := p.sink.GetFrame(dst, astiav.NewBuffersinkFlags())
	if err != nil {
		if errors.Is(err, astiav.ErrEagain) || errors.Is(err, astiav.ErrEof) {
			return ErrNeedMoreInput
		}

		return fmt.Errorf("%w: %w", ErrPull, err)
	}

	if dst.PixelFormat() != astiav.PixelFormatGray8 {
		pf := dst.PixelFormat()
		dst.Unref()

		return fmt.Errorf("%w: sink emitted %s, want gray8", ErrFormatNegotiation, pf)
	}

	if dst.Width() != p.plan.Width || dst.Height() != p.plan.Height {
		w, h := dst.Width(), dst.Height()
		dst.Unref()

		return fmt.Errorf("%w: sink emitted %dx%d, want %dx%d",
			ErrFormatNegotiation, w, h, p.plan.Width, p.plan.Height)
	}

	return nil
}

// Close frees the filter graph. Safe to call once; calls after the first are
// no-ops.
func (p *Pipeline) Close() {
	if p.closed {
		return
	}

	p.closed = true

	p.graph.Free()
}
