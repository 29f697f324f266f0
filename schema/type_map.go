package schema

import (
	"math/big"
	"reflect"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Konsultn-Engineering/tablemeta/meta"
)

// Pre-initialize all reflect.Type values to avoid repeated allocations
var (
	stringType  = reflect.TypeOf("")
	intType     = reflect.TypeOf(int(0))
	int32Type   = reflect.TypeOf(int32(0))
	float32Type = reflect.TypeOf(float32(0))
	float64Type = reflect.TypeOf(float64(0))
	boolType    = reflect.TypeOf(false)
	bytesType   = reflect.TypeOf([]byte{})

	bigIntType   = reflect.TypeOf(big.Int{})
	bigFloatType = reflect.TypeOf(big.Float{})
	numericType  = reflect.TypeOf(pgtype.Numeric{})

	timeType        = reflect.TypeOf(time.Time{})
	pgDateType      = reflect.TypeOf(pgtype.Date{})
	pgTimestampType = reflect.TypeOf(pgtype.Timestamp{})
	pgTimestamptzTy = reflect.TypeOf(pgtype.Timestamptz{})
)

// storageTypeMap is the static declared-type to storage-type table.
var storageTypeMap = buildStorageTypeMap()

func buildStorageTypeMap() map[reflect.Type]meta.StorageType {
	// Pointer forms stand in for boxed values and map like their element type.
	boxable := map[reflect.Type]meta.StorageType{
		// Text
		stringType: meta.Varchar,

		// Integers
		intType:   meta.Integer,
		int32Type: meta.Integer,

		// Floating point
		float64Type: meta.Decimal,
		float32Type: meta.Decimal,

		// Boolean
		boolType: meta.Bit,

		// Arbitrary precision
		bigIntType:   meta.Integer,
		bigFloatType: meta.Decimal,
		numericType:  meta.Decimal,

		// Date and time
		timeType:        meta.Timestamp,
		pgDateType:      meta.Timestamp,
		pgTimestampType: meta.Timestamp,
		pgTimestamptzTy: meta.Timestamp,
	}

	m := make(map[reflect.Type]meta.StorageType, len(boxable)*2+1)
	for t, st := range boxable {
		m[t] = st
		m[reflect.PointerTo(t)] = st
	}
	m[bytesType] = meta.Blob
	return m
}

// lookupStorageType consults the static table. Absence is not an error; it
// sends the caller to the resolution chain.
func lookupStorageType(t reflect.Type) (meta.StorageType, bool) {
	st, ok := storageTypeMap[t]
	return st, ok
}

// StorageTypeOf reports the storage type the static table assigns to t.
func StorageTypeOf(t reflect.Type) (meta.StorageType, bool) {
	return lookupStorageType(t)
}
