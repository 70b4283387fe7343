// Package models defines the FFL directory data model: the normalized FflRecord, the raw
// uploaded row, per-sync summaries, search results and the gorm row persisted in
// 'ffl_records'.
package models
