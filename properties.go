package gltfext

import "math"

// Properties is an unordered set of property names to values, carrying the glTF "extras" of the definition a Node,
// Mesh or Material was built from.
type Properties struct {
	props map[string]*Property
}

// NewProperties returns a new Properties object.
func NewProperties() *Properties {
	return &Properties{map[string]*Property{}}
}

// NewPropertiesFromExtras returns a Properties object filled from a decoded glTF extras value. Only object-shaped extras
// carry named properties; anything else results in an empty Properties object.
func NewPropertiesFromExtras(extras any) *Properties {
	props := NewProperties()
	props.LoadExtras(extras)
	return props
}

// LoadExtras copies every top-level key of a decoded glTF extras object into the Properties object, overwriting existing values.
func (props *Properties) LoadExtras(extras any) {
	if dataMap, isMap := extras.(map[string]any); isMap {
		for k, v := range dataMap {
			props.Get(k).Set(v)
		}
	}
}

// Clone returns a copy of the Properties object.
func (props *Properties) Clone() *Properties {
	newProps := NewProperties()
	for k, v := range props.props {
		newProps.Get(k).Set(v.Value)
	}
	return newProps
}

// Clear clears the Properties object of all properties.
func (props *Properties) Clear() {
	props.props = map[string]*Property{}
}

// Remove removes the property specified from the Properties object.
func (props *Properties) Remove(propName string) {
	delete(props.props, propName)
}

// Has returns true if the Properties object has properties by all of the names specified, and false otherwise.
func (props *Properties) Has(propNames ...string) bool {
	for _, t := range propNames {
		if _, exists := props.props[t]; !exists {
			return false
		}
	}
	return true
}

// Get returns the Property associated with the specified property name. If a property with the
// passed name (propName) doesn't exist, Get creates an empty one.
func (props *Properties) Get(propName string) *Property {
	if _, ok := props.props[propName]; !ok {
		props.props[propName] = &Property{}
	}
	return props.props[propName]
}

// Count returns the number of properties.
func (props *Properties) Count() int {
	return len(props.props)
}

// Property represents a single named value on a Node or other resource.
type Property struct {
	Value interface{}
}

// Set sets the property's value to the given value.
func (prop *Property) Set(value interface{}) {
	prop.Value = value
}

// IsBool returns true if the Property is a boolean value.
func (prop *Property) IsBool() bool {
	_, ok := prop.Value.(bool)
	return ok
}

// AsBool returns the value associated with the Property as a bool.
// Note that this does not sanity check to ensure the Property is a bool first.
func (prop *Property) AsBool() bool {
	return prop.Value.(bool)
}

// IsString returns true if the Property is a string.
func (prop *Property) IsString() bool {
	_, ok := prop.Value.(string)
	return ok
}

// AsString returns the value associated with the Property as a string.
// Note that this does not sanity check to ensure the Property is a string first.
func (prop *Property) AsString() string {
	return prop.Value.(string)
}

// IsFloat64 returns true if the Property is a float64. JSON numbers decode as float64.
func (prop *Property) IsFloat64() bool {
	_, ok := prop.Value.(float64)
	return ok
}

// AsFloat64 returns the value associated with the Property as a float64.
// Note that this does not sanity check to ensure the Property is a float64 first.
func (prop *Property) AsFloat64() float64 {
	return prop.Value.(float64)
}

// IsFloat64Slice returns true if the Property is an array made only of finite numbers.
func (prop *Property) IsFloat64Slice() bool {
	_, ok := prop.float64Slice()
	return ok
}

// AsFloat64Slice returns the Property as a slice of float64s, or nil if it isn't an array made only of finite numbers.
// Both []float64 values (set from code) and []any values (decoded from JSON) are accepted.
func (prop *Property) AsFloat64Slice() []float64 {
	out, _ := prop.float64Slice()
	return out
}

func (prop *Property) float64Slice() ([]float64, bool) {

	switch values := prop.Value.(type) {

	case []float64:
		out := make([]float64, len(values))
		for i, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, false
			}
			out[i] = v
		}
		return out, true

	case []any:
		out := make([]float64, len(values))
		for i, v := range values {
			f, isFloat := v.(float64)
			if !isFloat || math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, false
			}
			out[i] = f
		}
		return out, true

	}

	return nil, false

}
