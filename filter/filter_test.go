package filter_test

import (
	"bytes"
	"testing"

	"github.com/asticode/go-astiav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/asciiframe/filter"
	"go.jacobcolvin.com/asciiframe/grid"
	"go.jacobcolvin.com/asciiframe/media"
)

func TestDescription(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		plan     grid.Plan
		expected string
	}{
		"sd": {
			plan:     grid.Plan{Width: 80, Height: 30},
			expected: "scale=80:30,format=gray",
		},
		"square": {
			plan:     grid.Plan{Width: 80, Height: 40},
			expected: "scale=80:40,format=gray",
		},
		"minimum": {
			plan:     grid.Plan{Width: 2, Height: 2},
			expected: "scale=2:2,format=gray",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, filter.Description(tc.plan))
		})
	}
}

func TestPipelineConvertsToGray(t *testing.T) {
	t.Parallel()

	stream := media.Stream{
		Width:             4,
		Height:            4,
		PixelFormat:       astiav.PixelFormatRgb24,
		SampleAspectRatio: astiav.NewRational(1, 1),
		TimeBase:          astiav.NewRational(1, 25),
	}
	plan := grid.Plan{Width: 2, Height: 2}

	pipe, err := filter.NewPipeline(stream, plan)
	require.NoError(t, err)
	t.Cleanup(pipe.Close)

	assert.Equal(t, plan, pipe.Plan())

	dst := astiav.AllocFrame()
	require.NotNil(t, dst)
	t.Cleanup(dst.Free)

	// Nothing pushed yet: the sink has nothing to emit.
	require.ErrorIs(t, pipe.Pull(dst), filter.ErrNeedMoreInput)

	src := astiav.AllocFrame()
	require.NotNil(t, src)
	t.Cleanup(src.Free)

	src.SetWidth(stream.Width)
	src.SetHeight(stream.Height)
	src.SetPixelFormat(stream.PixelFormat)
	require.NoError(t, src.AllocBuffer(1))

	white := bytes.Repeat([]byte{0xff}, stream.Width*stream.Height*3)
	require.NoError(t, src.Data().SetBytes(white, 1))

	require.NoError(t, pipe.Push(src))
	require.NoError(t, pipe.Pull(dst))

	assert.Equal(t, astiav.PixelFormatGray8, dst.PixelFormat())
	assert.Equal(t, plan.Width, dst.Width())
	assert.Equal(t, plan.Height, dst.Height())

	pix, err := dst.Data().Bytes(1)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(pix), plan.Width*plan.Height)

	// A solid white input stays near-white through scaling and the gray
	// conversion.
	for i, v := range pix[:plan.Width*plan.Height] {
		assert.GreaterOrEqual(t, int(v), 230, "pixel %d", i)
	}

	dst.Unref()
	src.Unref()
}

func TestPipelineCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	stream := media.Stream{
		Width:             4,
		Height:            4,
		PixelFormat:       astiav.PixelFormatRgb24,
		SampleAspectRatio: astiav.NewRational(1, 1),
		TimeBase:          astiav.NewRational(1, 25),
	}

	pipe, err := filter.NewPipeline(stream, grid.Plan{Width: 2, Height: 2})
	require.NoError(t, err)

	pipe.Close()
	pipe.Close()
}
