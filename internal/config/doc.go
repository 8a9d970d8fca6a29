// Package config provides configuration structures and utilities for
// brandscan. It defines the main configuration options for fetching
// pages, classification behavior, persistence, and report generation
// preferences.
package config
