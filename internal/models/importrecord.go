package models

import "time"

// Import represents one statement ingestion attempt row.
type Import struct {
	ImportID          string     `db:"import_id"`
	UserID            string     `db:"user_id"`
	AccountID         string     `db:"account_id"`
	Filename          string     `db:"filename"`
	FileType          string     `db:"file_type"`
	RowCount          int        `db:"row_count"`
	DuplicatesSkipped int        `db:"duplicates_skipped"`
	DateRangeStart    *time.Time `db:"date_range_start"` // Nullable
	DateRangeEnd      *time.Time `db:"date_range_end"`   // Nullable
	Status            string     `db:"status"`
	ErrorMessage      string     `db:"error_message"` // Nullable
	AuditFields
}
