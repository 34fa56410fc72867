package grid

import (
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for grid configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	MaxWidth   string
	CellAspect string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		MaxWidth:   DefaultMaxColumns,
		CellAspect: DefaultCellAspect,
		Flags:      f,
	}
}

// Config holds CLI flag values for grid planning.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewPlanner] to create a [Planner].
type Config struct {
	// MaxWidth caps the character grid width. Zero means autodetect from
	// the terminal; the caller resolves it before building the planner.
	MaxWidth int

	// CellAspect is the width:height ratio of one terminal glyph cell.
	CellAspect float64

	Flags Flags
}

// NewConfig returns a new [Config] with default flag names and values.
// Use [Config.RegisterFlags] to add CLI flags, or set values directly.
func NewConfig() *Config {
	f := Flags{
		MaxWidth:   "max-width",
		CellAspect: "cell-aspect",
	}

	return f.NewConfig()
}

// RegisterFlags adds grid flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.IntVar(&c.MaxWidth, c.Flags.MaxWidth, DefaultMaxColumns,
		"maximum output width in characters (0 = autodetect terminal width)")
	flags.Float64Var(&c.CellAspect, c.Flags.CellAspect, DefaultCellAspect,
		"terminal glyph cell width:height ratio")
}

// NewPlanner creates a [Planner] from this [Config].
func (c *Config) NewPlanner() *Planner {
	return NewPlanner(c.MaxWidth, c.CellAspect)
}
