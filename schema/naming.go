package schema

import (
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

// pluralizeClient is a singleton instance for consistent pluralization behavior.
var pluralizeClient = pluralizer.NewClient()

// NamingStrategy fills in table and column names that markers leave empty.
// Without a strategy empty names are passed through untouched.
type NamingStrategy interface {
	// TableName derives a table name from a Go type name.
	TableName(typeName string) string
	// ColumnName derives a column name from a property name.
	ColumnName(propertyName string) string
}

// ColumnNamingType represents different column naming conventions.
type ColumnNamingType int

const (
	ColumnSnakeCase ColumnNamingType = iota // user_id, created_at
	ColumnCamelCase                         // userId, createdAt
)

type namingStrategy struct {
	columns      ColumnNamingType
	pluralTables bool
}

// NewNamingStrategy returns a strategy with snake_case table names, plural
// when pluralTables is set, and columns in the requested convention.
func NewNamingStrategy(columns ColumnNamingType, pluralTables bool) NamingStrategy {
	return &namingStrategy{columns: columns, pluralTables: pluralTables}
}

// DefaultNamingStrategy returns snake_case columns with plural snake_case tables.
func DefaultNamingStrategy() NamingStrategy {
	return NewNamingStrategy(ColumnSnakeCase, true)
}

func (n *namingStrategy) TableName(typeName string) string {
	name := toSnakeCase(typeName)
	if n.pluralTables {
		return pluralize(name)
	}
	return name
}

func (n *namingStrategy) ColumnName(propertyName string) string {
	if n.columns == ColumnCamelCase {
		return toCamelCase(propertyName)
	}
	return toSnakeCase(propertyName)
}

// =========================================================================
// Conversion Functions
// =========================================================================

// toSnakeCase converts any naming convention to snake_case.
// Handles acronyms and digits: HTTPServer -> http_server, OAuth2Token -> o_auth2_token.
func toSnakeCase(name string) string {
	if name == "" {
		return ""
	}

	// If already snake_case (contains underscores and no uppercase), return as-is
	if strings.Contains(name, "_") && !hasUpperCase(name) {
		return name
	}

	var result strings.Builder
	result.Grow(len(name) + 8)

	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			// aB -> a_b, a1B -> a1_b, ABc -> a_bc
			if unicode.IsLower(prev) || unicode.IsDigit(prev) ||
				(unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])) {
				result.WriteByte('_')
			}
		}
		result.WriteRune(unicode.ToLower(r))
	}

	return result.String()
}

// toCamelCase converts any naming convention to camelCase.
func toCamelCase(name string) string {
	parts := strings.Split(toSnakeCase(name), "_")

	var result strings.Builder
	result.Grow(len(name))

	first := true
	for _, part := range parts {
		if part == "" {
			continue
		}
		if first {
			result.WriteString(part)
			first = false
			continue
		}
		result.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	return result.String()
}

// pluralize converts singular nouns to their plural forms, keeping the case
// pattern of the input.
func pluralize(name string) string {
	if name == "" {
		return ""
	}
	return preserveCase(name, pluralizeClient.Pluralize(name, 2, false))
}

// hasUpperCase returns true if the string contains any uppercase letters.
func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// preserveCase preserves the case pattern of the original string in the result.
func preserveCase(original, result string) string {
	if original == "" || result == "" {
		return result
	}

	if strings.ToLower(original) == original {
		return strings.ToLower(result)
	}
	if strings.ToUpper(original) == original {
		return strings.ToUpper(result)
	}
	if unicode.IsUpper(rune(original[0])) {
		return strings.ToUpper(result[:1]) + result[1:]
	}
	return result
}
