// Package profile adds runtime profiling capabilities to CLI applications.
//
// It supports CPU, heap, and goroutine profiles through command-line flags.
// Use [Config.RegisterFlags] to add CLI flags, then wrap command execution
// with a [Profiler]:
//
//	cfg := profile.NewConfig()
//	cfg.RegisterFlags(rootCmd.Flags())
//
//	p := cfg.NewProfiler()
//	err := p.Start()
//	defer p.Stop()
//
// Users can then enable profiling via flags like --cpu-profile=cpu.prof.
package profile
