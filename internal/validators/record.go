package validators

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-data-vault/models"
)

// ValidateSchema checks an administrator-submitted schema definition before
// it is persisted: at least one column, unique names, known field types.
func ValidateSchema(schema models.Schema) error {
	if schema.Empty() {
		return ErrEmptySchema
	}

	seen := make(map[string]struct{}, len(schema.Columns))
	for _, col := range schema.Columns {
		if col.Name == "" {
			return fmt.Errorf("%w: empty column name", ErrInvalidFieldType)
		}
		if _, dup := seen[col.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateColumn, col.Name)
		}
		seen[col.Name] = struct{}{}

		if !col.Type.Valid() {
			return fmt.Errorf("%w: column %s declares %q", ErrInvalidFieldType, col.Name, col.Type)
		}
	}

	return nil
}

// ValidateRecord checks a data record against the active schema. Every
// non-nullable column must be present, no extra fields are accepted, and
// values must match the declared type: string, float64 number, or an
// RFC 3339 date (either time.Time or a parseable string).
func ValidateRecord(schema models.Schema, record models.DataRecord) error {
	if schema.Empty() {
		return ErrSchemaNotDefined
	}

	for _, col := range schema.Columns {
		value, present := record[col.Name]
		if !present || value == nil {
			if col.Nullable {
				continue
			}
			return fmt.Errorf("%w: %s", ErrMissingField, col.Name)
		}
		if err := checkFieldType(col, value); err != nil {
			return err
		}
	}

	for name := range record {
		if _, known := schema.Column(name); !known {
			return fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
	}

	return nil
}

func checkFieldType(col models.ColumnDef, value any) error {
	switch col.Type {
	case models.FieldString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%w: column %s wants a string", ErrTypeMismatch, col.Name)
		}
	case models.FieldNumber:
		switch value.(type) {
		case float64, int, int64:
		default:
			return fmt.Errorf("%w: column %s wants a number", ErrTypeMismatch, col.Name)
		}
	case models.FieldDate:
		switch v := value.(type) {
		case time.Time:
		case string:
			if _, err := time.Parse(time.RFC3339, v); err != nil {
				return fmt.Errorf("%w: column %s wants an RFC 3339 date", ErrTypeMismatch, col.Name)
			}
		default:
			return fmt.Errorf("%w: column %s wants a date", ErrTypeMismatch, col.Name)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFieldType, col.Type)
	}
	return nil
}
