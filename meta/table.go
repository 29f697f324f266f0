package meta

// TableMetaData is the relational descriptor derived from an entity type.
// Columns keep the order in which they were added.
type TableMetaData struct {
	Name string

	columns []*ColumnMetaData
	byName  map[string]*ColumnMetaData
	byAlias map[string]*ColumnMetaData
}

// NewTableMetaData creates an empty descriptor for the named table.
func NewTableMetaData(name string) *TableMetaData {
	return &TableMetaData{
		Name:    name,
		byName:  make(map[string]*ColumnMetaData),
		byAlias: make(map[string]*ColumnMetaData),
	}
}

// AddColumn appends a column. A later column with the same name or alias
// replaces the earlier one in the lookup maps but both stay in Columns.
func (t *TableMetaData) AddColumn(c *ColumnMetaData) {
	if t.byName == nil {
		t.byName = make(map[string]*ColumnMetaData)
		t.byAlias = make(map[string]*ColumnMetaData)
	}
	t.columns = append(t.columns, c)
	t.byName[c.Name] = c
	if c.Alias != "" {
		t.byAlias[c.Alias] = c
	}
}

// Columns returns the columns in insertion order. The slice must not be modified.
func (t *TableMetaData) Columns() []*ColumnMetaData {
	return t.columns
}

// Column looks a column up by its column name.
func (t *TableMetaData) Column(name string) (*ColumnMetaData, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// ColumnByAlias looks a column up by the property name it was built from.
func (t *TableMetaData) ColumnByAlias(alias string) (*ColumnMetaData, bool) {
	c, ok := t.byAlias[alias]
	return c, ok
}

// ColumnNames returns column names in insertion order.
func (t *TableMetaData) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}
