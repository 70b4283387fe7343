// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines the
// listen port, the API key consumed by the auth middleware and request timeouts.
package server
