package schema

import (
	"reflect"
	"time"

	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/tablemeta/cache"
	"github.com/Konsultn-Engineering/tablemeta/converter"
	"github.com/Konsultn-Engineering/tablemeta/meta"
)

// Context derives table metadata from entity types. It is safe for
// concurrent use once New has returned.
type Context struct {
	// Configuration
	tagName        string
	namingStrategy NamingStrategy
	datePattern    string
	location       *time.Location
	tagCacheSize   int
	typeMappings   map[reflect.Type]meta.StorageType
	extraRules     []TypeRule
	aliases        map[string]string
	source         MarkerSource
	logger         *zap.Logger

	// Memoized metadata, nil entries mark types that are not entities
	metaCache cache.TypeCache[*meta.TableMetaData]

	parser   *TagParser
	resolver *annotationResolver
	chain    *typeChain
}

type Option func(*Context)

// WithTagName sets the struct tag key markers are read from (default "db").
func WithTagName(tagName string) Option {
	return func(ctx *Context) { ctx.tagName = tagName }
}

// WithNamingStrategy fills empty table and column names. Without it empty
// names are passed through as declared.
func WithNamingStrategy(strategy NamingStrategy) Option {
	return func(ctx *Context) { ctx.namingStrategy = strategy }
}

// WithLogger sets the logger used for debug tracing of metadata builds.
func WithLogger(logger *zap.Logger) Option {
	return func(ctx *Context) {
		if logger != nil {
			ctx.logger = logger
		}
	}
}

// WithMetaCache supplies the memo table for built metadata, e.g. an isolated
// instance per test.
func WithMetaCache(c cache.TypeCache[*meta.TableMetaData]) Option {
	return func(ctx *Context) {
		if c != nil {
			ctx.metaCache = c
		}
	}
}

// WithTagCacheSize bounds the parsed-tag cache.
func WithTagCacheSize(size int) Option {
	return func(ctx *Context) { ctx.tagCacheSize = size }
}

// WithTypeMapping adds a declared-type mapping consulted together with the
// static type table. Entries override the static table for the same type.
func WithTypeMapping(t reflect.Type, storage meta.StorageType) Option {
	return func(ctx *Context) { ctx.typeMappings[t] = storage }
}

// WithTypeRule appends rules to the end of the resolution chain.
func WithTypeRule(rules ...TypeRule) Option {
	return func(ctx *Context) { ctx.extraRules = append(ctx.extraRules, rules...) }
}

// WithMarkerAlias registers a composed marker: a tag flag called name
// expands to expansion.
func WithMarkerAlias(name, expansion string) Option {
	return func(ctx *Context) { ctx.aliases[name] = expansion }
}

// WithMarkerSource replaces the struct-tag marker source. Tag name, alias and
// tag cache options only configure the default source and have no effect.
func WithMarkerSource(source MarkerSource) Option {
	return func(ctx *Context) { ctx.source = source }
}

// WithDatePattern sets the pattern of the date-time converters attached to
// TIMESTAMP and DATE columns.
func WithDatePattern(pattern string) Option {
	return func(ctx *Context) { ctx.datePattern = pattern }
}

// WithLocation sets the time zone date-time converters parse text in.
func WithLocation(loc *time.Location) Option {
	return func(ctx *Context) {
		if loc != nil {
			ctx.location = loc
		}
	}
}

// New creates a Context with the given options applied over the defaults.
func New(options ...Option) *Context {
	ctx := &Context{
		// Default configuration
		tagName:      "db",
		datePattern:  converter.DefaultDatePattern,
		location:     time.Local,
		tagCacheSize: cache.DefaultTagCacheSize,
		typeMappings: make(map[reflect.Type]meta.StorageType),
		aliases:      make(map[string]string),
		logger:       zap.NewNop(),
		metaCache:    cache.NewTypeCache[*meta.TableMetaData](),
	}

	for _, opt := range options {
		opt(ctx)
	}

	if ctx.source == nil {
		ctx.parser = NewTagParser(ctx.aliases, ctx.tagCacheSize)
		ctx.source = newTagMarkerSource(ctx.tagName, ctx.parser)
	}
	ctx.resolver = &annotationResolver{source: ctx.source}

	rules := append(DefaultTypeRules(), ctx.extraRules...)
	ctx.chain = &typeChain{rules: rules, resolver: ctx.resolver}

	return ctx
}

// TagParser returns the parser backing the default marker source. It is nil
// when a custom source was installed with WithMarkerSource.
func (ctx *Context) TagParser() *TagParser {
	return ctx.parser
}

// ClearCache drops all memoized metadata.
func (ctx *Context) ClearCache() {
	ctx.metaCache.Clear()
}

// CacheLen returns the number of memoized types, entities and non-entities.
func (ctx *Context) CacheLen() int {
	return ctx.metaCache.Len()
}
