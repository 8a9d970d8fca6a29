// Package api exposes the scan store over a JSON HTTP API.
//
// The API is read-mostly: sites, scan history, and individual reports
// are served straight from the store. A single write endpoint accepts a
// URL and runs a live scan through the pipeline.
//
// Design decision: Handlers are registered on a stdlib ServeMux using
// method-and-pattern routes. The surface is small enough that a router
// dependency would buy nothing, and the mux keeps the server embeddable
// in tests via Handler().
package api
