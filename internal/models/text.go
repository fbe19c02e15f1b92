package models

import (
	"database/sql/driver"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Text is a string column for serialized JSON that may be large and may not be valid JSON.
// It maps to a long text type on every supported engine so snapshots are never truncated.
type Text string

// Value implements driver.Valuer
func (t Text) Value() (driver.Value, error) {
	return string(t), nil
}

// Scan implements sql.Scanner
func (t *Text) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = ""
	case string:
		*t = Text(v)
	case []byte:
		*t = Text(v)
	default:
		return fmt.Errorf("models.Text: unsupported scan type %T", value)
	}
	return nil
}

// String returns the underlying text
func (t Text) String() string {
	return string(t)
}

// TextPtr returns a pointer to s as Text
func TextPtr(s string) *Text {
	t := Text(s)
	return &t
}

// GormDBDataType ensures the correct data type is used for each database driver.
// MySQL TEXT tops out at 64KB and MSSQL deprecates TEXT.
func (Text) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "LONGTEXT"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	}
	return "TEXT"
}
