package schema

import (
	"reflect"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Property is a named, externally visible value of an entity type.
type Property struct {
	Name  string
	Type  reflect.Type
	Index []int           // field index path as in reflect.StructField, nil for accessor-only properties
	Read  *reflect.Method // GetX() T or IsX() bool
	Write *reflect.Method // SetX(T)
}

// Properties lists the properties of struct type t in a deterministic order:
// exported fields as reflect.VisibleFields reports them (promoted fields of
// embedded structs included, shadowed ones excluded), then accessor-only
// properties sorted by name. Accessors are taken from the method set of *t.
func Properties(t reflect.Type) []Property {
	t = indirectType(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	readers, writers := accessors(reflect.PointerTo(t))

	var props []Property
	seen := make(map[string]bool)

	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous || f.Name == "_" {
			continue
		}
		p := Property{Name: f.Name, Type: f.Type, Index: f.Index}
		if m, ok := readers[f.Name]; ok && m.Type.Out(0) == f.Type {
			p.Read = m
		}
		if m, ok := writers[f.Name]; ok && m.Type.In(1) == f.Type {
			p.Write = m
		}
		props = append(props, p)
		seen[f.Name] = true
	}

	var extra []string
	for name := range readers {
		if !seen[name] {
			extra = append(extra, name)
			seen[name] = true
		}
	}
	for name := range writers {
		if !seen[name] {
			extra = append(extra, name)
			seen[name] = true
		}
	}
	sort.Strings(extra)

	for _, name := range extra {
		p := Property{Name: name}
		if m, ok := readers[name]; ok {
			p.Read = m
			p.Type = m.Type.Out(0)
		}
		if m, ok := writers[name]; ok {
			if p.Type == nil {
				p.Type = m.Type.In(1)
			}
			if m.Type.In(1) == p.Type {
				p.Write = m
			}
		}
		props = append(props, p)
	}

	return props
}

// accessors collects getter and setter methods of a pointer method set,
// keyed by property name.
func accessors(ptr reflect.Type) (readers, writers map[string]*reflect.Method) {
	readers = make(map[string]*reflect.Method)
	writers = make(map[string]*reflect.Method)

	for i := 0; i < ptr.NumMethod(); i++ {
		m := ptr.Method(i)
		mt := m.Type

		switch {
		case mt.NumIn() == 1 && mt.NumOut() == 1:
			if name, ok := trimAccessorPrefix(m.Name, "Get"); ok {
				readers[name] = &m
			} else if name, ok := trimAccessorPrefix(m.Name, "Is"); ok && mt.Out(0).Kind() == reflect.Bool {
				if _, exists := readers[name]; !exists {
					readers[name] = &m
				}
			}
		case mt.NumIn() == 2 && mt.NumOut() == 0:
			if name, ok := trimAccessorPrefix(m.Name, "Set"); ok {
				writers[name] = &m
			}
		}
	}
	return readers, writers
}

// trimAccessorPrefix returns the property name behind an accessor name such
// as GetStatus. The remainder must start with an upper-case letter.
func trimAccessorPrefix(name, prefix string) (string, bool) {
	if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
		return "", false
	}
	rest := name[len(prefix):]
	r, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(r) {
		return "", false
	}
	return rest, true
}
