// Package tone derives a brand-voice summary from the text a page leads
// with. The shipped implementation is a keyword heuristic: it scores a
// fixed vocabulary of tone dimensions against the hero copy and page
// snapshot and reports the strongest dimensions as descriptors.
//
// The Analyzer interface exists so an LLM-backed implementation can be
// swapped in without touching the pipeline.
package tone
