package models

// Schema value types
const (
	TypeObject = "object"
	TypeString = "string"
	TypeArray  = "array"
)

// Schema describes the shape of a JSON value: field names, types, enum
// value sets, defaults, and required fields. It doubles as the response
// schema handed to the LLM for structured output.
type Schema struct {
	Name        string             `json:"name,omitempty"`
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Format      string             `json:"format,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Default     string             `json:"default,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// WithoutProperty returns a shallow copy of an object schema with one
// property removed, leaving the receiver untouched.
func (s *Schema) WithoutProperty(name string) *Schema {
	out := *s
	out.Properties = make(map[string]*Schema, len(s.Properties))
	for k, v := range s.Properties {
		if k != name {
			out.Properties[k] = v
		}
	}
	required := make([]string, 0, len(s.Required))
	for _, r := range s.Required {
		if r != name {
			required = append(required, r)
		}
	}
	out.Required = required
	return &out
}
