package author

// Limits bounds the authoring engine's work on a single compilation,
// guarding against pathological or adversarial source text.
type Limits struct {
	MaxOperations int
	MaxCallDepth  int
	MaxExprDepth  int
}

// Default limits, matching the original authoring engine's defaults.
const (
	DefaultMaxOperations = 100000
	DefaultMaxCallDepth  = 100
	DefaultMaxExprDepth  = 100
)

// DefaultLimits returns the Limits used when Compile is called without
// an explicit override.
func DefaultLimits() Limits {
	return Limits{
		MaxOperations: DefaultMaxOperations,
		MaxCallDepth:  DefaultMaxCallDepth,
		MaxExprDepth:  DefaultMaxExprDepth,
	}
}
