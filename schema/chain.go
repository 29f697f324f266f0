package schema

import (
	"encoding"
	"reflect"

	"github.com/Konsultn-Engineering/tablemeta/meta"
)

// RuleKind discriminates the variants of TypeRule.
type RuleKind uint8

const (
	// RuleMarker applies when the property carries a marker of a given kind.
	RuleMarker RuleKind = iota
	// RuleTypeMatch applies when the property's declared type satisfies Match.
	RuleTypeMatch
)

// TypeRule is one step of the storage type resolution chain. Rules run in
// order after the static type table misses; the first that applies wins.
type TypeRule struct {
	Kind    RuleKind
	Marker  MarkerKind              // RuleMarker
	Match   func(reflect.Type) bool // RuleTypeMatch
	Storage meta.StorageType
}

// MarkerRule resolves to storage when the property carries a kind marker.
func MarkerRule(kind MarkerKind, storage meta.StorageType) TypeRule {
	return TypeRule{Kind: RuleMarker, Marker: kind, Storage: storage}
}

// TypeMatchRule resolves to storage when match reports true for the
// property's declared type.
func TypeMatchRule(match func(reflect.Type) bool, storage meta.StorageType) TypeRule {
	return TypeRule{Kind: RuleTypeMatch, Match: match, Storage: storage}
}

var textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()

// TextMarshalerRule stores types with a text form (uuid.UUID, ulid.ULID,
// net.IP) as VARCHAR. It is not part of the default chain.
func TextMarshalerRule() TypeRule {
	return TypeMatchRule(func(t reflect.Type) bool {
		return t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType)
	}, meta.Varchar)
}

// DefaultTypeRules returns the built-in chain: enumerated values are stored
// by name as VARCHAR, large objects as CLOB.
func DefaultTypeRules() []TypeRule {
	return []TypeRule{
		MarkerRule(MarkerEnumerated, meta.Varchar),
		MarkerRule(MarkerLob, meta.Clob),
	}
}

type typeChain struct {
	rules    []TypeRule
	resolver *annotationResolver
}

// resolve evaluates the rules in order. ok is false when no rule applies.
func (c *typeChain) resolve(entity reflect.Type, p Property) (meta.StorageType, bool, error) {
	for _, rule := range c.rules {
		switch rule.Kind {
		case RuleMarker:
			m, err := c.resolver.resolve(entity, p, rule.Marker)
			if err != nil {
				return meta.Other, false, err
			}
			if m != nil {
				return rule.Storage, true, nil
			}
		case RuleTypeMatch:
			if rule.Match != nil && p.Type != nil && rule.Match(p.Type) {
				return rule.Storage, true, nil
			}
		}
	}
	return meta.Other, false, nil
}
