package schema

import (
	"fmt"
	"reflect"

	"github.com/Konsultn-Engineering/tablemeta/meta"
)

// MarkerKind names a persistence marker.
type MarkerKind uint8

const (
	MarkerTable MarkerKind = iota + 1
	MarkerColumn
	MarkerEnumerated
	MarkerLob
)

func (k MarkerKind) String() string {
	switch k {
	case MarkerTable:
		return "table"
	case MarkerColumn:
		return "column"
	case MarkerEnumerated:
		return "enumerated"
	case MarkerLob:
		return "lob"
	default:
		return fmt.Sprintf("MarkerKind(%d)", uint8(k))
	}
}

// Marker is a persistence hint attached to a type, field or accessor.
// Parameters that do not apply to the marker's kind are left zero.
type Marker struct {
	Kind      MarkerKind
	Name      string // table name or column name
	Length    int
	Precision int
	Scale     int
	EnumType  meta.EnumType
}

// TableNamer lets a type declare its table marker in code instead of a tag.
type TableNamer interface {
	TableName() string
}

// AccessorTagger attaches marker tags to accessor methods. Keys are method
// names (GetStatus, SetStatus), values use the same syntax as struct tags.
type AccessorTagger interface {
	AccessorTags() map[string]string
}

// MarkerSource answers whether a type, a struct field or an accessor method
// carries a marker of the given kind. A nil marker with a nil error means the
// marker is absent.
type MarkerSource interface {
	TypeMarker(t reflect.Type, kind MarkerKind) (*Marker, error)
	FieldMarker(f reflect.StructField, kind MarkerKind) (*Marker, error)
	MethodMarker(m reflect.Method, kind MarkerKind) (*Marker, error)
}

// tagMarkerSource reads markers from struct tags. Table markers come from a
// blank field (`_ struct{} `db:"table:orders"``) or TableNamer and are also
// found on embedded structs. Accessor markers come from AccessorTagger.
type tagMarkerSource struct {
	tagName string
	parser  *TagParser
}

func newTagMarkerSource(tagName string, parser *TagParser) *tagMarkerSource {
	return &tagMarkerSource{tagName: tagName, parser: parser}
}

func (s *tagMarkerSource) TypeMarker(t reflect.Type, kind MarkerKind) (*Marker, error) {
	return s.typeMarker(indirectType(t), kind, make(map[reflect.Type]bool))
}

func (s *tagMarkerSource) typeMarker(t reflect.Type, kind MarkerKind, visited map[reflect.Type]bool) (*Marker, error) {
	if t.Kind() != reflect.Struct || visited[t] {
		return nil, nil
	}
	visited[t] = true

	if kind == MarkerTable {
		if tn, ok := reflect.New(t).Interface().(TableNamer); ok {
			return &Marker{Kind: MarkerTable, Name: tn.TableName()}, nil
		}
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Name != "_" {
			continue
		}
		m, err := s.FieldMarker(f, kind)
		if err != nil || m != nil {
			return m, err
		}
	}

	// markers declared on embedded types apply to the embedding type
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		m, err := s.typeMarker(indirectType(f.Type), kind, visited)
		if err != nil || m != nil {
			return m, err
		}
	}
	return nil, nil
}

func (s *tagMarkerSource) FieldMarker(f reflect.StructField, kind MarkerKind) (*Marker, error) {
	raw, ok := f.Tag.Lookup(s.tagName)
	if !ok {
		return nil, nil
	}
	parsed, err := s.parser.ParseTag(raw)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", f.Name, err)
	}
	return parsed.Marker(kind), nil
}

func (s *tagMarkerSource) MethodMarker(m reflect.Method, kind MarkerKind) (*Marker, error) {
	if m.Type == nil || m.Type.NumIn() == 0 {
		return nil, nil
	}
	recv := m.Type.In(0)
	if recv.Kind() != reflect.Ptr {
		recv = reflect.PointerTo(recv)
	}
	if !recv.Implements(accessorTaggerType) {
		return nil, nil
	}

	tags := reflect.New(recv.Elem()).Interface().(AccessorTagger).AccessorTags()
	raw, ok := tags[m.Name]
	if !ok {
		return nil, nil
	}
	parsed, err := s.parser.ParseTag(raw)
	if err != nil {
		return nil, fmt.Errorf("method %s: %w", m.Name, err)
	}
	return parsed.Marker(kind), nil
}

var accessorTaggerType = reflect.TypeOf((*AccessorTagger)(nil)).Elem()

func indirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
