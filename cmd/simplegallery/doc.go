// Package main hosts the simplegallery CLI entrypoint and command graph.
//
// The Cobra command tree maps `simplegallery -d DIR [-A] prepare|process`
// onto the gallery pipeline and adds the read-only status and check views
// plus configuration scaffolding. Configuration loading, logger construction
// and run correlation IDs are resolved here once per invocation so the
// internal packages stay free of CLI concerns.
package main
