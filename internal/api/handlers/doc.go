// Package handlers implements the HTTP side of the terrenos API.
//
// Listings, searches and catalog metadata are huma operations registered by
// the Register*Routes functions; their inputs share the FilterParams query
// parameters, which the trn CLI also builds from key=value arguments. The
// health probes are plain Echo handlers so they stay out of the OpenAPI
// document.
package handlers
