// Package main provides the entry point for the brandscan CLI.
//
// Brandscan turns a rendered web page into a design fingerprint: a
// ranked color palette, a typography summary, and a best-guess logo.
//
// Usage:
//
//	brandscan scan <url>
//	brandscan history <site>
//	brandscan serve
//
// See --help for all available options.
package main

// main is the entry point for brandscan.
func main() {
	Execute()
}
