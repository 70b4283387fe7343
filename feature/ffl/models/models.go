package models

import (
	"time"

	"ffl-directory/core/reconcile"
)

// Address is the premise address of a licensee. State is a 2-letter code.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// FflRecord is one directory entry. LicenseNumber is canonical and is the sole identity.
type FflRecord struct {
	LicenseNumber  string     `json:"licenseNumber"`
	BusinessName   string     `json:"businessName"`
	TradeName      string     `json:"tradeName,omitempty"`
	Address        Address    `json:"address"`
	Phone          string     `json:"phone,omitempty"`
	LicenseType    string     `json:"licenseType,omitempty"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`

	// SourceRowNumber is the origin row in the uploaded batch; never persisted.
	SourceRowNumber int `json:"-"`
}

// RawRow is one decoded spreadsheet row: column name to raw cell value.
type RawRow struct {
	// Number is the 1-indexed data row within the upload.
	Number int
	// Values maps the header text of each column to the cell value.
	Values map[string]string
	// Columns lists the headers of Values in sheet order. Nil means no known order.
	Columns []string
}

// RowError is a non-fatal problem with one uploaded row.
type RowError = reconcile.RowError

// DiffEntry is the classification of one uploaded record.
type DiffEntry = reconcile.DiffEntry[FflRecord]

// SyncResult summarizes one upload. It is produced once and never mutated.
type SyncResult struct {
	TotalProcessed int       `json:"totalProcessed"`
	Added          int       `json:"added"`
	Updated        int       `json:"updated"`
	Unchanged      int       `json:"unchanged"`
	Errors         []string  `json:"errors"`
	SyncedAt       time.Time `json:"syncedAt"`
}

// MatchKind tells how a search result matched the query.
type MatchKind string

const (
	MatchExact   MatchKind = "exact"
	MatchPartial MatchKind = "partial"
)

// Result sources.
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// SearchResult is one ranked hit. Built fresh per query and never persisted.
type SearchResult struct {
	LicenseNumber string    `json:"licenseNumber"`
	BusinessName  string    `json:"businessName"`
	TradeName     string    `json:"tradeName,omitempty"`
	Address       Address   `json:"address"`
	MatchKind     MatchKind `json:"matchKind"`
	Score         float64   `json:"score"`
	Source        string    `json:"source"`
}
