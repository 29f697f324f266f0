package schema

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/tablemeta/converter"
	"github.com/Konsultn-Engineering/tablemeta/meta"
)

// Parse returns the table metadata of entity type t, building it on first use
// and serving it from the memo cache afterwards. Pointer types are
// dereferenced. A type without a table marker is not an entity: Parse returns
// nil metadata and a nil error for it.
//
// The returned metadata is shared between callers and must not be modified.
func (ctx *Context) Parse(t reflect.Type) (*meta.TableMetaData, error) {
	t, err := entityType(t)
	if err != nil {
		return nil, err
	}

	if tm, ok := ctx.metaCache.Load(t); ok {
		ctx.logger.Debug("table metadata cache hit", zap.Stringer("type", t))
		return tm, nil
	}

	tm, err := ctx.build(t)
	if err != nil {
		return nil, err
	}

	ctx.metaCache.Store(t, tm)
	return tm, nil
}

// ParseValue is Parse for the dynamic type of v.
func (ctx *Context) ParseValue(v any) (*meta.TableMetaData, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: value is nil", ErrInvalidModel)
	}
	return ctx.Parse(reflect.TypeOf(v))
}

// ParseUncached builds fresh metadata for t without touching the memo cache.
func (ctx *Context) ParseUncached(t reflect.Type) (*meta.TableMetaData, error) {
	t, err := entityType(t)
	if err != nil {
		return nil, err
	}
	return ctx.build(t)
}

// IsEntity reports whether t carries a table marker.
func (ctx *Context) IsEntity(t reflect.Type) (bool, error) {
	t, err := entityType(t)
	if err != nil {
		return false, err
	}
	m, err := ctx.source.TypeMarker(t, MarkerTable)
	return m != nil, err
}

func (ctx *Context) build(t reflect.Type) (*meta.TableMetaData, error) {
	table, err := ctx.source.TypeMarker(t, MarkerTable)
	if err != nil {
		return nil, fmt.Errorf("type %s: %w", t, err)
	}
	if table == nil {
		ctx.logger.Debug("type has no table marker", zap.Stringer("type", t))
		return nil, nil
	}

	name := table.Name
	if name == "" && ctx.namingStrategy != nil {
		name = ctx.namingStrategy.TableName(t.Name())
	}
	tm := meta.NewTableMetaData(name)

	for _, p := range Properties(t) {
		column, err := ctx.resolver.resolve(t, p, MarkerColumn)
		if err != nil {
			return nil, fmt.Errorf("type %s property %s: %w", t, p.Name, err)
		}
		if column == nil {
			ctx.logger.Debug("property has no column marker",
				zap.Stringer("type", t), zap.String("property", p.Name))
			continue
		}

		col, err := ctx.buildColumn(t, p, column)
		if err != nil {
			return nil, fmt.Errorf("type %s property %s: %w", t, p.Name, err)
		}
		tm.AddColumn(col)

		ctx.logger.Debug("resolved column",
			zap.String("table", tm.Name),
			zap.String("column", col.Name),
			zap.String("property", p.Name),
			zap.Stringer("storage", col.StorageType),
			zap.Bool("converter", col.HasConverter()))
	}

	return tm, nil
}

func (ctx *Context) buildColumn(t reflect.Type, p Property, column *Marker) (*meta.ColumnMetaData, error) {
	name := column.Name
	if name == "" && ctx.namingStrategy != nil {
		name = ctx.namingStrategy.ColumnName(p.Name)
	}

	col := &meta.ColumnMetaData{
		Name:      name,
		Alias:     p.Name,
		Length:    column.Length,
		Precision: column.Precision,
		Scale:     column.Scale,
		GoType:    p.Type,
	}

	storage, err := ctx.storageType(t, p)
	if err != nil {
		return nil, err
	}
	col.StorageType = storage

	enum, err := ctx.resolver.resolve(t, p, MarkerEnumerated)
	if err != nil {
		return nil, err
	}
	if enum != nil {
		col.EnumType = enum.EnumType
	}

	switch storage {
	case meta.Timestamp, meta.Date:
		if _, err := converter.ParseLayout(ctx.datePattern); err != nil {
			return nil, err
		}
		dc := converter.NewDateTimeConverter(ctx.datePattern, p.Type)
		dc.Location = ctx.location
		dc.Numeric = converter.EpochMillis
		col.Converter = dc
	case meta.Numeric:
		col.Converter = converter.NewNumberConverter(p.Type)
	}

	return col, nil
}

// storageType resolves the storage type of p: the type table first, then the
// resolution chain, then OTHER.
func (ctx *Context) storageType(t reflect.Type, p Property) (meta.StorageType, error) {
	if st, ok := ctx.typeMappings[p.Type]; ok {
		return st, nil
	}
	if st, ok := lookupStorageType(p.Type); ok {
		return st, nil
	}

	st, ok, err := ctx.chain.resolve(t, p)
	if err != nil {
		return meta.Other, err
	}
	if !ok {
		return meta.Other, nil
	}
	return st, nil
}

// entityType normalizes t to a struct type.
func entityType(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: type is nil", ErrInvalidModel)
	}
	t = indirectType(t)
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s (expected struct)", ErrInvalidModel, t.Kind())
	}
	return t, nil
}
