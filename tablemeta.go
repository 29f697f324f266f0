// Package tablemeta derives relational table metadata from annotated Go
// struct types. See the schema package for the marker syntax.
package tablemeta

import (
	"reflect"

	"github.com/Konsultn-Engineering/tablemeta/meta"
	"github.com/Konsultn-Engineering/tablemeta/schema"
)

var defaultContext = schema.New()

// Default returns the process-wide Context used by Parse.
func Default() *schema.Context {
	return defaultContext
}

// Parse returns the table metadata for the type of v using the default
// Context. It returns nil metadata and a nil error when the type is not an
// entity.
func Parse(v any) (*meta.TableMetaData, error) {
	return defaultContext.ParseValue(v)
}

// ParseType is Parse for a reflect.Type.
func ParseType(t reflect.Type) (*meta.TableMetaData, error) {
	return defaultContext.Parse(t)
}

// MustParse is like Parse but panics on error or when v is not an entity.
func MustParse(v any) *meta.TableMetaData {
	tm, err := Parse(v)
	if err != nil {
		panic(err)
	}
	if tm == nil {
		panic("tablemeta: " + reflect.TypeOf(v).String() + " is not an entity")
	}
	return tm
}
