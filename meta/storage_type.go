package meta

import (
	"fmt"
	"strings"
)

// StorageType identifies how a column's values are represented at the storage
// boundary. String returns the JDBC type name.
type StorageType uint8

const (
	Other StorageType = iota
	Varchar
	Integer
	BigInt
	Decimal
	Numeric
	Bit
	Blob
	Clob
	Timestamp
	Date
)

var storageTypeNames = [...]string{
	Other:     "OTHER",
	Varchar:   "VARCHAR",
	Integer:   "INTEGER",
	BigInt:    "BIGINT",
	Decimal:   "DECIMAL",
	Numeric:   "NUMERIC",
	Bit:       "BIT",
	Blob:      "BLOB",
	Clob:      "CLOB",
	Timestamp: "TIMESTAMP",
	Date:      "DATE",
}

func (s StorageType) String() string {
	if int(s) < len(storageTypeNames) {
		return storageTypeNames[s]
	}
	return fmt.Sprintf("StorageType(%d)", uint8(s))
}

// ParseStorageType returns the storage type for a JDBC type name, ignoring case.
func ParseStorageType(name string) (StorageType, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range storageTypeNames {
		if n == upper {
			return StorageType(i), nil
		}
	}
	return Other, fmt.Errorf("unknown storage type %q", name)
}

// IsTemporal reports whether values of this type carry a date or instant.
func (s StorageType) IsTemporal() bool {
	return s == Timestamp || s == Date
}
