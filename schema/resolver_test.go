package schema

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/tablemeta/meta"
)

func newTestResolver() *annotationResolver {
	return &annotationResolver{source: newTagMarkerSource("db", NewTagParser(nil, 0))}
}

func propertyNamed(t *testing.T, typ reflect.Type, name string) Property {
	t.Helper()
	for _, p := range Properties(typ) {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("property %s not found on %s", name, typ)
	return Property{}
}

// =========================================================================
// Resolution Order
// =========================================================================

func TestResolveDeclaredField(t *testing.T) {
	r := newTestResolver()
	typ := reflect.TypeOf(Order{})

	m, err := r.resolve(typ, propertyNamed(t, typ, "Status"), MarkerColumn)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "status", m.Name)

	m, err = r.resolve(typ, propertyNamed(t, typ, "Status"), MarkerEnumerated)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, meta.EnumString, m.EnumType)

	m, err = r.resolve(typ, propertyNamed(t, typ, "Status"), MarkerLob)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestResolveSuperclassChain(t *testing.T) {
	r := newTestResolver()
	typ := reflect.TypeOf(Article{})

	tests := []struct {
		property string
		column   string
	}{
		{"CreatedBy", "created_by"}, // grandparent
		{"Version", "version"},      // parent
		{"Headline", "headline"},    // declared
	}

	for _, tt := range tests {
		t.Run(tt.property, func(t *testing.T) {
			m, err := r.resolve(typ, propertyNamed(t, typ, tt.property), MarkerColumn)
			require.NoError(t, err)
			require.NotNil(t, m)
			assert.Equal(t, tt.column, m.Name)
		})
	}
}

func TestResolveSecondEmbed(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		name     string
		entity   reflect.Type
		property string
		column   string
	}{
		{"FirstEmbed", reflect.TypeOf(Customer{}), "ID", "id"},
		{"PointerEmbed", reflect.TypeOf(Customer{}), "UpdatedBy", "updated_by"},
		{"NestedEmbed", reflect.TypeOf(Supplier{}), "Revision", "revision"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := r.resolve(tt.entity, propertyNamed(t, tt.entity, tt.property), MarkerColumn)
			require.NoError(t, err)
			require.NotNil(t, m)
			assert.Equal(t, tt.column, m.Name)
		})
	}

	// without a field path only the first embed is searched
	m, err := r.resolve(reflect.TypeOf(Customer{}), Property{Name: "UpdatedBy", Type: reflect.TypeOf("")}, MarkerColumn)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestResolveDeclaredFieldWithoutMarker(t *testing.T) {
	r := newTestResolver()
	typ := reflect.TypeOf(Shadowed{})

	m, err := r.resolve(typ, propertyNamed(t, typ, "Label"), MarkerColumn)
	require.NoError(t, err)
	assert.Nil(t, m, "declared field stops the search even without a marker")

	m, err = r.resolve(reflect.TypeOf(Named{}), Property{Name: "Label", Type: reflect.TypeOf("")}, MarkerColumn)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "label", m.Name)
}

func TestResolveAccessors(t *testing.T) {
	r := newTestResolver()
	typ := reflect.TypeOf(Invoice{})

	// read accessor carries the marker
	total := propertyNamed(t, typ, "Total")
	require.NotNil(t, total.Read)
	m, err := r.resolve(typ, total, MarkerColumn)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "total", m.Name)

	// only the write accessor carries the marker
	amount := propertyNamed(t, typ, "Amount")
	require.NotNil(t, amount.Write)
	m, err = r.resolve(typ, amount, MarkerColumn)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 4, m.Precision)

	// no accessors at all
	m, err = r.resolve(typ, Property{Name: "Missing", Type: reflect.TypeOf(0)}, MarkerColumn)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestResolveAccessorsThroughSuperclass(t *testing.T) {
	r := newTestResolver()
	typ := reflect.TypeOf(Receipt{})

	m, err := r.resolve(typ, propertyNamed(t, typ, "Total"), MarkerColumn)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "total", m.Name)
}

func TestResolveAccessorsWithoutTags(t *testing.T) {
	r := newTestResolver()
	typ := reflect.TypeOf(Profile{})

	for _, name := range []string{"Nick", "Rank", "Score", "Visible"} {
		m, err := r.resolve(typ, propertyNamed(t, typ, name), MarkerColumn)
		require.NoError(t, err, name)
		assert.Nil(t, m, name)
	}
}

// =========================================================================
// Superclass Detection
// =========================================================================

type selfRef struct {
	*selfRef
	Value int `db:"value"`
}

func TestSuperclass(t *testing.T) {
	tests := []struct {
		name  string
		input reflect.Type
		want  reflect.Type
	}{
		{"Root", reflect.TypeOf(Order{}), nil},
		{"Parent", reflect.TypeOf(Versioned{}), reflect.TypeOf(Auditable{})},
		{"SkipsBlankField", reflect.TypeOf(Article{}), reflect.TypeOf(Versioned{})},
		{"SelfReference", reflect.TypeOf(selfRef{}), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := superclass(tt.input)
			assert.Equal(t, tt.want != nil, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeclaredFieldIgnoresPromoted(t *testing.T) {
	_, ok := declaredField(reflect.TypeOf(Article{}), "CreatedBy")
	assert.False(t, ok)

	f, ok := declaredField(reflect.TypeOf(Article{}), "Headline")
	require.True(t, ok)
	assert.Equal(t, []int{2}, f.Index)
}

// =========================================================================
// Custom Marker Source
// =========================================================================

// mapSource serves markers from a lookup table keyed by field or method name.
type mapSource struct {
	table   string
	markers map[string]*Marker
	calls   []string
}

func (s *mapSource) TypeMarker(t reflect.Type, kind MarkerKind) (*Marker, error) {
	if kind != MarkerTable || s.table == "" {
		return nil, nil
	}
	return &Marker{Kind: MarkerTable, Name: s.table}, nil
}

func (s *mapSource) FieldMarker(f reflect.StructField, kind MarkerKind) (*Marker, error) {
	s.calls = append(s.calls, "field:"+f.Name)
	return s.lookup(f.Name, kind), nil
}

func (s *mapSource) MethodMarker(m reflect.Method, kind MarkerKind) (*Marker, error) {
	s.calls = append(s.calls, "method:"+m.Name)
	return s.lookup(m.Name, kind), nil
}

func (s *mapSource) lookup(name string, kind MarkerKind) *Marker {
	m, ok := s.markers[name]
	if !ok || m.Kind != kind {
		return nil
	}
	return m
}

func TestResolveCustomSource(t *testing.T) {
	src := &mapSource{markers: map[string]*Marker{
		"GetTotal": {Kind: MarkerColumn, Name: "invoice_total"},
		"SetTotal": {Kind: MarkerColumn, Name: "ignored"},
	}}
	r := &annotationResolver{source: src}
	typ := reflect.TypeOf(Invoice{})

	m, err := r.resolve(typ, propertyNamed(t, typ, "Total"), MarkerColumn)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "invoice_total", m.Name)
	assert.Equal(t, []string{"method:GetTotal"}, src.calls, "write accessor is only consulted when the read accessor has no marker")
}

func TestParseWithCustomSource(t *testing.T) {
	src := &mapSource{
		table: "profiles_v2",
		markers: map[string]*Marker{
			"Active":    {Kind: MarkerColumn, Name: "is_active"},
			"IsVisible": {Kind: MarkerColumn, Name: "visible"},
		},
	}
	ctx := New(WithMarkerSource(src))
	assert.Nil(t, ctx.TagParser(), "no tag parser behind a custom source")

	tm := mustParse(t, ctx, Profile{})
	assert.Equal(t, "profiles_v2", tm.Name)
	assert.Equal(t, []string{"is_active", "visible"}, tm.ColumnNames())
	assert.Equal(t, meta.Bit, mustColumn(t, tm, "visible").StorageType)
}
