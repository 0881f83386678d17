package validators

import "errors"

var (
	ErrPasswordTooShort  = errors.New("password is too short")
	ErrPasswordNoUpper   = errors.New("password must contain an upper-case letter")
	ErrPasswordNoLower   = errors.New("password must contain a lower-case letter")
	ErrPasswordNoDigit   = errors.New("password must contain a digit")
	ErrPasswordNoSpecial = errors.New("password must contain a special character")

	ErrInvalidEmail = errors.New("invalid email address")

	ErrSchemaNotDefined = errors.New("schema is not defined")
	ErrEmptySchema      = errors.New("schema must define at least one column")
	ErrDuplicateColumn  = errors.New("duplicate column name in schema")
	ErrInvalidFieldType = errors.New("invalid field type")
	ErrMissingField     = errors.New("record is missing a required field")
	ErrUnknownField     = errors.New("record contains a field not in the schema")
	ErrTypeMismatch     = errors.New("record value does not match the column type")
)
