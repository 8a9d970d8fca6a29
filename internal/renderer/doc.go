// Package renderer fetches a web page and statically extracts the raw
// design observations the classification engine consumes: color
// candidates tagged by element category, font usages tagged by role,
// logo candidates, and hero text.
//
// This is a best-effort static renderer. It reads inline styles,
// presentational attributes, embedded stylesheets, and SVG fills from
// the parsed DOM; it does not execute scripts or compute layout, so
// geometry and visibility flags are heuristics. The engine is designed
// to rank noisy input, so approximate candidates are acceptable here.
package renderer
