// Package directory is a thin client for an external FFL directory API.
//
// It is only used as a best-effort search fallback when the local store has no match.
// Responses are translated field by field because upstream naming is not stable.
package directory
