package domain

import "time"

// ImportStatus tracks the lifecycle of one ingestion attempt.
type ImportStatus string

const (
	ImportProcessing ImportStatus = "processing"
	ImportCompleted  ImportStatus = "completed"
	ImportError      ImportStatus = "error"
)

// Import records one statement ingestion attempt and its summary statistics.
// It is created in the processing state at pipeline start, finalized to
// completed or error within the same unit of work, and immutable afterwards.
type Import struct {
	ImportID          string       `json:"importID"` // Primary Key (UUID)
	UserID            string       `json:"userID"`
	AccountID         string       `json:"accountID"`
	Filename          string       `json:"filename"`
	FileType          string       `json:"fileType"` // Always "csv" for now
	RowCount          int          `json:"rowCount"` // Newly inserted rows only
	DuplicatesSkipped int          `json:"duplicatesSkipped"`
	DateRangeStart    *time.Time   `json:"dateRangeStart"` // Min date of newly inserted rows
	DateRangeEnd      *time.Time   `json:"dateRangeEnd"`   // Max date of newly inserted rows
	Status            ImportStatus `json:"status"`
	ErrorMessage      string       `json:"errorMessage"`
	AuditFields
}
