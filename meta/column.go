package meta

import (
	"fmt"
	"reflect"
)

// EnumType mirrors how an enumerated property is persisted.
type EnumType uint8

const (
	EnumNone EnumType = iota
	EnumString
	EnumOrdinal
)

func (e EnumType) String() string {
	switch e {
	case EnumString:
		return "STRING"
	case EnumOrdinal:
		return "ORDINAL"
	default:
		return ""
	}
}

// ColumnMetaData describes one persisted property of an entity.
type ColumnMetaData struct {
	Name        string       // Column name as declared by the column marker
	Alias       string       // Property name on the Go type
	Length      int          // Declared length, 0 when unspecified
	Precision   int          // Declared precision, 0 when unspecified
	Scale       int          // Declared scale, 0 when unspecified
	GoType      reflect.Type // Declared value type of the property
	StorageType StorageType
	EnumType    EnumType
	Converter   ValueConverter // Only set for TIMESTAMP, DATE and NUMERIC columns
}

// HasConverter reports whether a value converter is attached.
func (c *ColumnMetaData) HasConverter() bool {
	return c.Converter != nil
}

func (c *ColumnMetaData) String() string {
	goType := "<nil>"
	if c.GoType != nil {
		goType = c.GoType.String()
	}
	return fmt.Sprintf("%s(%s %s -> %s)", c.Name, c.Alias, goType, c.StorageType)
}
