package dto

import (
	"time"

	"github.com/SscSPs/statement_ledger_app/internal/core/domain"
)

// ImportResponse defines the summary returned for one ingestion attempt.
type ImportResponse struct {
	ImportID          string     `json:"importID"`
	AccountID         string     `json:"accountID"`
	Filename          string     `json:"filename"`
	RowCount          int        `json:"rowCount"`
	DuplicatesSkipped int        `json:"duplicatesSkipped"`
	DateRangeStart    *time.Time `json:"dateRangeStart,omitempty"`
	DateRangeEnd      *time.Time `json:"dateRangeEnd,omitempty"`
	Status            string     `json:"status"`
	ErrorMessage      string     `json:"errorMessage,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// ToImportResponse converts a domain.Import to ImportResponse DTO
func ToImportResponse(imp *domain.Import) ImportResponse {
	return ImportResponse{
		ImportID:          imp.ImportID,
		AccountID:         imp.AccountID,
		Filename:          imp.Filename,
		RowCount:          imp.RowCount,
		DuplicatesSkipped: imp.DuplicatesSkipped,
		DateRangeStart:    imp.DateRangeStart,
		DateRangeEnd:      imp.DateRangeEnd,
		Status:            string(imp.Status),
		ErrorMessage:      imp.ErrorMessage,
		CreatedAt:         imp.CreatedAt,
	}
}

// ToImportResponses converts a slice of import records.
func ToImportResponses(imports []domain.Import) []ImportResponse {
	out := make([]ImportResponse, 0, len(imports))
	for i := range imports {
		out = append(out, ToImportResponse(&imports[i]))
	}
	return out
}
