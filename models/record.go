package models

import "time"

// DataRecord is one user-defined tabular row. Values are opaque to the core
// beyond schema validation: strings, float64 numbers, or RFC 3339 dates.
type DataRecord map[string]any

// DatasetMetadata travels with the stored dataset and is stamped on every
// mutation.
type DatasetMetadata struct {
	Version     string     `json:"version"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	UpdatedBy   string     `json:"updated_by,omitempty"`
	RowCount    int        `json:"row_count"`
}

// StoredRecord is a data record together with its stable storage identity.
type StoredRecord struct {
	ID     int64      `json:"id"`
	Fields DataRecord `json:"fields"`
}

// Page is one page of records returned by a paginated read.
type Page struct {
	Records  []StoredRecord  `json:"records"`
	Metadata DatasetMetadata `json:"metadata"`

	TotalRecords int `json:"total_records"`
	TotalPages   int `json:"total_pages"`
	CurrentPage  int `json:"current_page"`
	PageSize     int `json:"page_size"`
}
