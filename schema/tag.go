package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Konsultn-Engineering/tablemeta/cache"
	"github.com/Konsultn-Engineering/tablemeta/meta"
)

// ParsedTag holds the markers declared by one tag value. Instances are shared
// through the parser cache and must be treated as read-only.
type ParsedTag struct {
	Skip       bool // db:"-"
	Table      *Marker
	Column     *Marker
	Enumerated *Marker
	Lob        *Marker
}

// Marker returns the marker of the given kind, or nil.
func (p *ParsedTag) Marker(kind MarkerKind) *Marker {
	if p == nil || p.Skip {
		return nil
	}
	switch kind {
	case MarkerTable:
		return p.Table
	case MarkerColumn:
		return p.Column
	case MarkerEnumerated:
		return p.Enumerated
	case MarkerLob:
		return p.Lob
	default:
		return nil
	}
}

// IsEmpty reports whether the tag declared no marker at all.
func (p *ParsedTag) IsEmpty() bool {
	return p.Table == nil && p.Column == nil && p.Enumerated == nil && p.Lob == nil
}

// TagParser parses marker tags and caches the result per raw tag value.
// Aliases are composed markers: a flag naming an alias expands into the
// alias' own tag value, so markers declared through it are still found.
type TagParser struct {
	aliases map[string]string
	cache   *cache.TagCache[*ParsedTag]
}

// NewTagParser creates a parser. aliases is copied; cacheSize bounds the
// parsed-tag cache (non-positive uses the cache package default).
func NewTagParser(aliases map[string]string, cacheSize int) *TagParser {
	copied := make(map[string]string, len(aliases))
	for name, expansion := range aliases {
		copied[name] = expansion
	}
	tags, _ := cache.NewTagCache[*ParsedTag](cacheSize)
	return &TagParser{aliases: copied, cache: tags}
}

// ParseTag parses a marker tag value.
//
// Supported syntax:
//
//	`db:"status"`                              // column named status
//	`db:"column:status;length:32"`             // explicit column with length
//	`db:"price;precision:10;scale:2"`          // first bare option is the column name
//	`db:"status;enumerated"`                   // enumerated column (enumerated:ordinal also accepted)
//	`db:"body;lob"`                            // large object column
//	`db:"table:t_order"`                       // table marker (on a blank _ field)
//	`db:"audit_time"`                          // registered alias, expanded in place
//	`db:"-"`                                   // no markers
func (p *TagParser) ParseTag(tagValue string) (*ParsedTag, error) {
	if cached, ok := p.cache.Get(tagValue); ok {
		return cached, nil
	}

	parsed := &ParsedTag{}
	if err := p.parseInto(parsed, tagValue, make(map[string]bool)); err != nil {
		return nil, err
	}

	p.cache.Add(tagValue, parsed)
	return parsed, nil
}

// CacheSize returns the number of cached parsed tags.
func (p *TagParser) CacheSize() int {
	return p.cache.Len()
}

// ClearCache removes all cached parsed tags.
func (p *TagParser) ClearCache() {
	p.cache.Purge()
}

func (p *TagParser) parseInto(parsed *ParsedTag, tagValue string, expanding map[string]bool) error {
	tagValue = strings.TrimSpace(tagValue)
	if tagValue == "" {
		return nil
	}
	if tagValue == "-" {
		parsed.Skip = true
		return nil
	}

	for i, option := range strings.Split(tagValue, ";") {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}

		if colonIdx := strings.IndexByte(option, ':'); colonIdx != -1 {
			key := strings.ToLower(strings.TrimSpace(option[:colonIdx]))
			value := strings.TrimSpace(option[colonIdx+1:])
			if err := p.parseKeyValue(parsed, key, value); err != nil {
				return err
			}
			continue
		}

		if expansion, ok := p.aliases[option]; ok {
			if expanding[option] {
				return fmt.Errorf("%w: alias %q expands into itself", ErrInvalidTag, option)
			}
			expanding[option] = true
			if err := p.parseInto(parsed, expansion, expanding); err != nil {
				return err
			}
			delete(expanding, option)
			continue
		}

		if p.parseFlag(parsed, option) {
			continue
		}

		// the leading bare word names the column
		if i == 0 {
			columnMarker(parsed).Name = option
		}
		// unknown flags are ignored for forward compatibility
	}
	return nil
}

func (p *TagParser) parseFlag(parsed *ParsedTag, flag string) bool {
	switch strings.ToLower(flag) {
	case "column":
		columnMarker(parsed)
	case "enumerated", "enum":
		parsed.Enumerated = &Marker{Kind: MarkerEnumerated, EnumType: meta.EnumString}
	case "lob":
		parsed.Lob = &Marker{Kind: MarkerLob}
	case "table":
		tableMarker(parsed)
	default:
		return false
	}
	return true
}

func (p *TagParser) parseKeyValue(parsed *ParsedTag, key, value string) error {
	switch key {
	case "column", "name":
		columnMarker(parsed).Name = value

	case "table":
		tableMarker(parsed).Name = value

	case "length", "len", "size":
		return parseIntValue(value, &columnMarker(parsed).Length, key)

	case "precision":
		return parseIntValue(value, &columnMarker(parsed).Precision, key)

	case "scale":
		return parseIntValue(value, &columnMarker(parsed).Scale, key)

	case "enumerated", "enum":
		switch strings.ToLower(value) {
		case "", "string":
			parsed.Enumerated = &Marker{Kind: MarkerEnumerated, EnumType: meta.EnumString}
		case "ordinal":
			parsed.Enumerated = &Marker{Kind: MarkerEnumerated, EnumType: meta.EnumOrdinal}
		default:
			return fmt.Errorf("%w: invalid enumerated value '%s': must be string or ordinal", ErrInvalidTag, value)
		}

	default:
		// Ignore unknown key:value pairs for extensibility
	}
	return nil
}

func columnMarker(parsed *ParsedTag) *Marker {
	if parsed.Column == nil {
		parsed.Column = &Marker{Kind: MarkerColumn}
	}
	return parsed.Column
}

func tableMarker(parsed *ParsedTag) *Marker {
	if parsed.Table == nil {
		parsed.Table = &Marker{Kind: MarkerTable}
	}
	return parsed.Table
}

// parseIntValue parses a non-negative integer tag parameter.
func parseIntValue(value string, target *int, name string) error {
	val, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%w: invalid %s value '%s': must be integer", ErrInvalidTag, name, value)
	}
	if val < 0 {
		return fmt.Errorf("%w: invalid %s value %d: must be non-negative", ErrInvalidTag, name, val)
	}
	*target = val
	return nil
}
