package models

import "time"

// FieldType enumerates the value types a schema column may declare.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldNumber FieldType = "number"
	FieldDate   FieldType = "date"
)

// Valid reports whether t is one of the defined field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldString, FieldNumber, FieldDate:
		return true
	}
	return false
}

// ColumnDef describes one column of the administrator-defined schema.
type ColumnDef struct {
	// Name is the field name records are keyed by.
	Name string `json:"name"`

	// Type constrains the values accepted for this column.
	Type FieldType `json:"type"`

	// Nullable permits absent or null values for this column.
	Nullable bool `json:"nullable"`

	// SourceColumn optionally names the column in an imported tabular file
	// that feeds this field. Empty when the field name is used directly.
	SourceColumn string `json:"source_column,omitempty"`
}

// Schema is the administrator-defined shape that every data record is
// validated against before it reaches the store.
type Schema struct {
	Columns []ColumnDef `json:"columns"`

	// LastModified is stamped on every schema update.
	LastModified *time.Time `json:"last_modified,omitempty"`

	// ModifiedBy is the email of the actor that last changed the schema.
	ModifiedBy string `json:"modified_by,omitempty"`
}

// Column returns the definition of the named column and whether it exists.
func (s Schema) Column(name string) (ColumnDef, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// Empty reports whether the schema defines no columns.
func (s Schema) Empty() bool {
	return len(s.Columns) == 0
}
