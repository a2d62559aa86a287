package meta

import (
	"github.com/coregx/btregex/prog"
	"github.com/coregx/btregex/vm"
)

// Config controls compilation limits and search behavior.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.MaxDepth = 50_000 // allow deeper backtracking
//	engine, err := meta.CompileWithConfig(`(a|b)*c`, config)
type Config struct {
	// MaxDepth is the VM recursion ceiling: the number of choice points that
	// may be open at once. A path that would exceed it fails locally.
	// Default: 10,000
	MaxDepth int

	// MaxProgramSize caps the number of compiled instructions, lookaround
	// sub-programs included. Larger patterns fail with ErrPatternTooLarge.
	// Default: 100,000
	MaxProgramSize int

	// EnablePrefilter enables literal-based skipping of start offsets.
	// Results are identical either way.
	// Default: true
	EnablePrefilter bool

	// MaxLiterals limits the prefix literal set extracted for the prefilter.
	// Default: 64
	MaxLiterals int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxDepth:        vm.DefaultMaxDepth,
		MaxProgramSize:  prog.DefaultMaxInsts,
		EnablePrefilter: true,
		MaxLiterals:     64,
	}
}

// Validate checks if the configuration is valid.
//
// Valid ranges:
//   - MaxDepth: 1 to 1,000,000
//   - MaxProgramSize: 1 to 10,000,000
//   - MaxLiterals: 1 to 1,000 (only checked with EnablePrefilter)
func (c Config) Validate() error {
	if c.MaxDepth < 1 || c.MaxDepth > 1_000_000 {
		return &ConfigError{
			Field:   "MaxDepth",
			Message: "must be between 1 and 1,000,000",
		}
	}
	if c.MaxProgramSize < 1 || c.MaxProgramSize > 10_000_000 {
		return &ConfigError{
			Field:   "MaxProgramSize",
			Message: "must be between 1 and 10,000,000",
		}
	}
	if c.EnablePrefilter && (c.MaxLiterals < 1 || c.MaxLiterals > 1_000) {
		return &ConfigError{
			Field:   "MaxLiterals",
			Message: "must be between 1 and 1,000",
		}
	}
	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "regexp: invalid config: " + e.Field + ": " + e.Message
}
