package meta

// ValueConverter translates a column value between its storage representation
// and the in-memory value held by the entity field.
type ValueConverter interface {
	// Encode converts an in-memory value into the value written to storage.
	Encode(value any) (any, error)
	// Decode converts a value read from storage into the in-memory type.
	Decode(value any) (any, error)
}
