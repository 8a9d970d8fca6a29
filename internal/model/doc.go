// Package model defines the data structures shared across brandscan:
// the raw candidate observations extracted from a rendered page, the
// classified design signals (palette, typography, logo), the brand tone
// profile, and the scan report envelope that ties them together for
// storage and reporting.
//
// All types are plain data with JSON tags. Candidates are produced by
// the renderer and never mutated; classified results are created fresh
// per scan and immutable once built.
package model
