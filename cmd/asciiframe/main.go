// Package main provides the CLI entry point for asciiframe, a tool that
// renders the first video frame of a media file as ASCII art.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"go.jacobcolvin.com/asciiframe/filter"
	"go.jacobcolvin.com/asciiframe/grid"
	"go.jacobcolvin.com/asciiframe/log"
	"go.jacobcolvin.com/asciiframe/media"
	"go.jacobcolvin.com/asciiframe/player"
	"go.jacobcolvin.com/asciiframe/profile"
	"go.jacobcolvin.com/asciiframe/render"
	"go.jacobcolvin.com/asciiframe/version"
)

func main() {
	logCfg := log.NewConfig()
	gridCfg := grid.NewConfig()
	profCfg := profile.NewConfig()

	rootCmd := &cobra.Command{
		Use:   "asciiframe [flags] <media>",
		Short: "Render the first video frame of a media file as ASCII art",
		Long: `asciiframe decodes the first video frame of a media file or stream URL,
converts it to grayscale at a terminal-appropriate resolution, and renders it
as ASCII art on stdout. Proportions are preserved, corrected for the
terminal's non-square glyph cells.`,
		Args:          cobra.ExactArgs(1),
		Version:       version.Short(),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(logCfg, gridCfg, profCfg, args[0])
		},
	}

	logCfg.RegisterFlags(rootCmd.Flags())
	gridCfg.RegisterFlags(rootCmd.Flags())
	profCfg.RegisterFlags(rootCmd.Flags())

	completionErr := logCfg.RegisterCompletions(rootCmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(logCfg *log.Config, gridCfg *grid.Config, profCfg *profile.Config, path string) error {
	handler, err := logCfg.NewHandler(os.Stderr)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(handler))

	// The parse cannot fail here: NewHandler already validated it.
	lvl, _ := log.ParseLevel(logCfg.Level)
	media.SetLogVerbosity(lvl == log.LevelDebug)

	prof := profCfg.NewProfiler()

	err = prof.Start()
	if err != nil {
		return err
	}

	defer func() {
		stopErr := prof.Stop()
		if stopErr != nil {
			slog.Error("stopping profiler", "error", stopErr)
		}
	}()

	if gridCfg.MaxWidth == 0 {
		gridCfg.MaxWidth = terminalWidth()
	}

	planner := gridCfg.NewPlanner()

	src, err := media.Open(path)
	if err != nil {
		return err
	}

	stream := src.Stream()
	plan := planner.Plan(stream.Width, stream.Height,
		stream.SampleAspectRatio.Num(), stream.SampleAspectRatio.Den())

	slog.Debug("planned output grid",
		"input_width", stream.Width,
		"input_height", stream.Height,
		"sample_aspect_ratio", fmt.Sprintf("%d:%d",
			stream.SampleAspectRatio.Num(), stream.SampleAspectRatio.Den()),
		"filter", filter.Description(plan),
		"grid_width", plan.Width,
		"grid_height", plan.Height,
	)

	pipe, err := filter.NewPipeline(stream, plan)
	if err != nil {
		src.Close()

		return err
	}

	p, err := player.New(src, pipe, render.New(os.Stdout))
	if err != nil {
		pipe.Close()
		src.Close()

		return err
	}

	defer p.Close()

	return p.ShowFirstFrame()
}

// terminalWidth returns the current terminal width, falling back to the
// default column cap when stdout is not a terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		slog.Debug("unable to detect terminal width, using default", "error", err)

		return grid.DefaultMaxColumns
	}

	return w
}
