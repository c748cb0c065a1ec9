package config

import "time"

// Config holds all CLI configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log" validate:"required"`
	Kernel KernelConfig `mapstructure:"kernel" validate:"required"`
	Run    RunConfig    `mapstructure:"run" validate:"required"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// KernelConfig selects the geometry kernel.
type KernelConfig struct {
	Name string `mapstructure:"name" validate:"required,oneof=sdfx polyhedron"`
	// MeshCells is the sdfx sampling resolution along the longest side.
	MeshCells int `mapstructure:"mesh_cells" validate:"gte=16,lte=4096"`
}

// RunConfig holds pipeline settings applied to jobs that leave them unset.
type RunConfig struct {
	Tolerance float64 `mapstructure:"tolerance" validate:"gt=0"`
	// Workers bounds parallelism; 0 means GOMAXPROCS.
	Workers int `mapstructure:"workers" validate:"gte=0"`
	// Timeout bounds each job; 0 disables it.
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}
