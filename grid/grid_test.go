package grid_test

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/asciiframe/grid"
)

func TestPlan(t *testing.T) {
	t.Parallel()

	planner := grid.NewPlanner(grid.DefaultMaxColumns, grid.DefaultCellAspect)

	tcs := map[string]struct {
		width    int
		height   int
		sarNum   int
		sarDen   int
		expected grid.Plan
	}{
		"sd 4:3": {
			width: 640, height: 480, sarNum: 1, sarDen: 1,
			// display aspect 4/3, adjusted 8/3, 80/(8/3) = 30.
			expected: grid.Plan{Width: 80, Height: 30},
		},
		"square pixel 1x1": {
			width: 1, height: 1, sarNum: 1, sarDen: 1,
			expected: grid.Plan{Width: 80, Height: 40},
		},
		"hd 16:9": {
			width: 1920, height: 1080, sarNum: 1, sarDen: 1,
			// adjusted aspect 32/9, 80*9/32 = 22.5, rounds to 23, then
			// even-rounds up to 24.
			expected: grid.Plan{Width: 80, Height: 24},
		},
		"anamorphic": {
			width: 720, height: 576, sarNum: 16, sarDen: 11,
			// display width 720*16/11 = 1047.27, adjusted 3.6364,
			// round(80/3.6364) = 22.
			expected: grid.Plan{Width: 80, Height: 22},
		},
		"invalid sar ignored": {
			width: 640, height: 480, sarNum: 0, sarDen: 1,
			expected: grid.Plan{Width: 80, Height: 30},
		},
		"negative sar ignored": {
			width: 640, height: 480, sarNum: -1, sarDen: 1,
			expected: grid.Plan{Width: 80, Height: 30},
		},
		"tall video clamps height rounding": {
			width: 2, height: 2000, sarNum: 1, sarDen: 1,
			// adjusted aspect 0.002, raw height 40000, even.
			expected: grid.Plan{Width: 80, Height: 40000},
		},
	}

	for name, tc := range tcs {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, planner.Plan(tc.width, tc.height, tc.sarNum, tc.sarDen))
		})
	}
}

func TestPlanDegenerateInputs(t *testing.T) {
	t.Parallel()

	planner := grid.NewPlanner(grid.DefaultMaxColumns, grid.DefaultCellAspect)

	// Zero width or height must not panic or divide by zero; the plan is
	// still even and at least 2 in both dimensions.
	for _, dims := range [][2]int{{0, 100}, {100, 0}, {0, 0}} {
		p := planner.Plan(dims[0], dims[1], 1, 1)

		assert.Equal(t, 80, p.Width)
		assert.GreaterOrEqual(t, p.Height, 2)
		assert.Zero(t, p.Height%2)
	}
}

func TestPlanInvariants(t *testing.T) {
	t.Parallel()

	// Odd caps included: terminal autodetection can hand the planner any
	// width, and the plan must never exceed it.
	caps := []int{2, 3, 33, 79, 80, 81, 120}
	sizes := []int{1, 2, 3, 7, 16, 100, 480, 576, 720, 1080, 1920, 3840}
	sars := [][2]int{{1, 1}, {4, 3}, {16, 11}, {10, 11}, {0, 0}}

	for _, c := range caps {
		planner := grid.NewPlanner(c, grid.DefaultCellAspect)

		for _, w := range sizes {
			for _, h := range sizes {
				for _, sar := range sars {
					p := planner.Plan(w, h, sar[0], sar[1])

					assert.LessOrEqual(t, p.Width, c, "width must fit %d columns for %dx%d", c, w, h)
					assert.GreaterOrEqual(t, p.Width, 2)
					assert.GreaterOrEqual(t, p.Height, 2)
					assert.Zero(t, p.Width%2, "width must be even for %dx%d", w, h)
					assert.Zero(t, p.Height%2, "height must be even for %dx%d", w, h)
				}
			}
		}
	}
}

func TestPlanDeterministic(t *testing.T) {
	t.Parallel()

	planner := grid.NewPlanner(grid.DefaultMaxColumns, grid.DefaultCellAspect)

	first := planner.Plan(1280, 720, 1, 1)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, planner.Plan(1280, 720, 1, 1))
	}
}

func TestNewPlannerDefaults(t *testing.T) {
	t.Parallel()

	// Non-positive configuration falls back to defaults.
	p := grid.NewPlanner(0, 0)
	assert.Equal(t, grid.Plan{Width: 80, Height: 30}, p.Plan(640, 480, 1, 1))

	p = grid.NewPlanner(-5, -1)
	assert.Equal(t, grid.Plan{Width: 80, Height: 30}, p.Plan(640, 480, 1, 1))
}

func TestPlanOddColumnCap(t *testing.T) {
	t.Parallel()

	// 79 columns must yield at most 79: the width rounds down to 78, never
	// up to 80.
	p := grid.NewPlanner(79, grid.DefaultCellAspect)
	assert.Equal(t, grid.Plan{Width: 78, Height: 30}, p.Plan(640, 480, 1, 1))

	p = grid.NewPlanner(3, grid.DefaultCellAspect)
	assert.Equal(t, 2, p.Plan(640, 480, 1, 1).Width)
}

func TestNewPlannerCustomColumns(t *testing.T) {
	t.Parallel()

	p := grid.NewPlanner(40, grid.DefaultCellAspect)
	assert.Equal(t, grid.Plan{Width: 40, Height: 16}, p.Plan(640, 480, 1, 1))
}

func TestConfigRegisterFlags(t *testing.T) {
	t.Parallel()

	cfg := grid.NewConfig()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.RegisterFlags(flags)

	require.NoError(t, flags.Parse([]string{"--max-width=120", "--cell-aspect=0.45"}))
	assert.Equal(t, 120, cfg.MaxWidth)
	assert.InEpsilon(t, 0.45, cfg.CellAspect, 1e-9)

	planner := cfg.NewPlanner()
	plan := planner.Plan(640, 480, 1, 1)
	assert.Equal(t, 120, plan.Width)
}
