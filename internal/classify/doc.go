// Package classify implements the design signal classification engine:
// the deterministic scoring and selection logic that converts raw, noisy
// page observations (hundreds of candidate colors, font usages, and logo
// candidates) into a small, decisive result set.
//
// The engine is a pure, single-threaded computation. All accumulation
// state is local to one Classify call, so independent scans can run
// concurrently without coordination. Absence of signal is never an
// error; every missing input degrades to a documented default. The only
// error the engine raises is ErrInvalidInput for malformed input shape,
// which signals a contract violation by the renderer.
//
// Determinism matters here: selection cascades break score ties by
// first-observed order, so the engine tracks insertion order explicitly
// instead of relying on map iteration order.
package classify
