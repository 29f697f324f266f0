package schema

import "reflect"

// annotationResolver locates the marker that applies to a property. The
// search order is: the field declared on the type, the same lookup on the
// embedded "superclass" when the field is not declared here, then the read
// accessor, then the write accessor.
//
// For a promoted field the superclass is the embedded struct the field is
// promoted through, so fields of any embed are found. Properties without a
// field path use the first embedded struct.
type annotationResolver struct {
	source MarkerSource
}

func (r *annotationResolver) resolve(entity reflect.Type, p Property, kind MarkerKind) (*Marker, error) {
	return r.resolveAt(entity, p.Index, p, kind)
}

// resolveAt searches entity, where path is the remaining field index path of
// p relative to entity.
func (r *annotationResolver) resolveAt(entity reflect.Type, path []int, p Property, kind MarkerKind) (*Marker, error) {
	var found *Marker

	if f, ok := declaredField(entity, p.Name); ok {
		m, err := r.source.FieldMarker(f, kind)
		if err != nil {
			return nil, err
		}
		found = m
	} else if super, ok := superclassOn(entity, path); ok {
		return r.resolveAt(super, path[1:], p, kind)
	} else if super, ok := superclass(entity); ok {
		return r.resolveAt(super, nil, p, kind)
	}
	// Field missing with no embedded parent: fall through to the accessors
	// of this level without recursing any further.

	if found == nil && p.Read != nil {
		m, err := r.source.MethodMarker(*p.Read, kind)
		if err != nil {
			return nil, err
		}
		found = m
	}
	if found == nil && p.Write != nil {
		m, err := r.source.MethodMarker(*p.Write, kind)
		if err != nil {
			return nil, err
		}
		found = m
	}
	return found, nil
}

// declaredField returns the field named name declared directly on t.
// Promoted fields do not count.
func declaredField(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous && f.Name == name {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

// superclassOn returns the embedded struct a promoted field is reached
// through, following the first step of its index path.
func superclassOn(t reflect.Type, path []int) (reflect.Type, bool) {
	if len(path) < 2 || path[0] >= t.NumField() {
		return nil, false
	}
	f := t.Field(path[0])
	if !f.Anonymous {
		return nil, false
	}
	if ft := indirectType(f.Type); ft.Kind() == reflect.Struct {
		return ft, true
	}
	return nil, false
}

// superclass returns the first embedded struct of t. A struct without one
// sits directly on the universal root.
func superclass(t reflect.Type) (reflect.Type, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		if ft := indirectType(f.Type); ft.Kind() == reflect.Struct && ft != t {
			return ft, true
		}
	}
	return nil, false
}
