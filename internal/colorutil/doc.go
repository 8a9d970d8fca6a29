// Package colorutil provides pure numeric color primitives used by the
// classification engine: CSS color normalization, saturation, luminance,
// vibrancy, and the neutrality/validity predicates that drive palette
// selection. All functions are deterministic and allocation-light so they
// can run over hundreds of candidates per scan without overhead.
package colorutil
