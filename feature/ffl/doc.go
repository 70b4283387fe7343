// Package ffl is the Federal Firearms License directory feature.
//
// Service ties the pieces together:
//
//   - upload decodes CSV or XLSX files into raw rows
//   - normalize validates rows into records
//   - the core reconcile engine classifies records against the store
//   - store applies the commit plan inside its sync serialization boundary
//   - search answers queries with the optional external directory fallback
//   - audit records every completed sync
//
// Handler exposes the service over HTTP:
//
//	POST /ffl/sync        multipart 'file' upload
//	GET  /ffl/search      ?q=&type=ffl|name|both&limit=&state=
//	GET  /ffl/:license    single entry
package ffl
