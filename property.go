package appstate

import (
	"fmt"
	"strings"
)

// PropertyKind enumerates the primitive kinds a typed property may declare.
// Decimal shares the float representation but keeps its own tag so schema
// output can distinguish the two.
type PropertyKind uint8

const (
	PropertyString PropertyKind = iota + 1
	PropertyBool
	PropertyInt
	PropertyFloat
	PropertyDecimal
)

func (k PropertyKind) String() string {
	switch k {
	case PropertyString:
		return "string"
	case PropertyBool:
		return "bool"
	case PropertyInt:
		return "int"
	case PropertyFloat:
		return "float"
	case PropertyDecimal:
		return "decimal"
	default:
		return "unknown"
	}
}

func (k PropertyKind) supported() bool {
	switch k {
	case PropertyString, PropertyBool, PropertyInt, PropertyFloat, PropertyDecimal:
		return true
	default:
		return false
	}
}

// TypedProperty binds a declared container field to the unified name-based
// access protocol. Properties are declared explicitly at construction; there
// is no runtime introspection of the container.
type TypedProperty struct {
	Name string
	Kind PropertyKind

	get func() Value
	set func(Value) error
}

// Property assembles a raw typed property from accessor closures. Prefer the
// kind-specific constructors below; this form exists for embedders that carry
// their own accessor plumbing.
func Property(name string, kind PropertyKind, get func() Value, set func(Value) error) TypedProperty {
	return TypedProperty{Name: name, Kind: kind, get: get, set: set}
}

// StringProperty declares a string-kinded property over native accessors.
func StringProperty(name string, get func() string, set func(string)) TypedProperty {
	return TypedProperty{
		Name: name,
		Kind: PropertyString,
		get:  func() Value { return String(get()) },
		set: func(v Value) error {
			set(v.String())
			return nil
		},
	}
}

// BoolProperty declares a bool-kinded property over native accessors.
func BoolProperty(name string, get func() bool, set func(bool)) TypedProperty {
	return TypedProperty{
		Name: name,
		Kind: PropertyBool,
		get:  func() Value { return Bool(get()) },
		set: func(v Value) error {
			b, err := v.AsBool()
			if err != nil {
				return err
			}
			set(b)
			return nil
		},
	}
}

// IntProperty declares an int-kinded property over native accessors.
func IntProperty(name string, get func() int64, set func(int64)) TypedProperty {
	return TypedProperty{
		Name: name,
		Kind: PropertyInt,
		get:  func() Value { return Int(get()) },
		set: func(v Value) error {
			i, err := v.AsInt()
			if err != nil {
				return err
			}
			set(i)
			return nil
		},
	}
}

// FloatProperty declares a float-kinded property over native accessors.
func FloatProperty(name string, get func() float64, set func(float64)) TypedProperty {
	return floatBacked(name, PropertyFloat, get, set)
}

// DecimalProperty declares a decimal-kinded property. The value travels as a
// float64; only the schema tag differs from FloatProperty.
func DecimalProperty(name string, get func() float64, set func(float64)) TypedProperty {
	return floatBacked(name, PropertyDecimal, get, set)
}

func floatBacked(name string, kind PropertyKind, get func() float64, set func(float64)) TypedProperty {
	return TypedProperty{
		Name: name,
		Kind: kind,
		get:  func() Value { return Float(get()) },
		set: func(v Value) error {
			f, err := v.AsFloat()
			if err != nil {
				return err
			}
			set(f)
			return nil
		},
	}
}

// propertyRegistry is the case-folded name lookup table built once per
// container. The declared order is retained for snapshot and schema output.
type propertyRegistry struct {
	byName map[string]TypedProperty
	order  []string
}

// buildRegistry enumerates the declared schema, skipping entries missing
// either accessor and rejecting duplicate normalized names.
func buildRegistry(schema []TypedProperty) (*propertyRegistry, error) {
	registry := &propertyRegistry{
		byName: make(map[string]TypedProperty, len(schema)),
	}
	for _, property := range schema {
		if property.get == nil || property.set == nil {
			continue
		}
		key := strings.ToLower(property.Name)
		if key == "" {
			continue
		}
		if _, exists := registry.byName[key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProperty, property.Name)
		}
		registry.byName[key] = property
		registry.order = append(registry.order, key)
	}
	return registry, nil
}

func (r *propertyRegistry) resolve(normalized string) (TypedProperty, bool) {
	if r == nil {
		return TypedProperty{}, false
	}
	property, ok := r.byName[normalized]
	return property, ok
}

// declared returns the registered properties in declaration order.
func (r *propertyRegistry) declared() []TypedProperty {
	if r == nil {
		return nil
	}
	out := make([]TypedProperty, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.byName[key])
	}
	return out
}
