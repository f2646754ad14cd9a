package tools

import "context"

// Param describes one parameter accepted by a tool.
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // string, number, boolean
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Descriptor is the metadata advertised for a tool via tools/list.
// Immutable after registration.
type Descriptor struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"params"`
}

// Handler executes a tool call. Failures are reported as *Error values
// with a category from the closed set; any other error is treated as a
// tool execution failure by the dispatcher.
type Handler func(ctx context.Context, args map[string]any) (map[string]any, error)

// Param lookup by name. Returns the zero Param and false when absent.
func (d Descriptor) Param(name string) (Param, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// RequiredParams returns the names of all required parameters in order.
func (d Descriptor) RequiredParams() []string {
	var names []string
	for _, p := range d.Params {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}
