package tools

// Registry holds the authoritative set of available tools. Registration
// happens once at server construction; afterwards the registry is
// read-only, so concurrent lookups need no locking.
type Registry struct {
	order    []Descriptor
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds a tool. Names are unique; registering a name twice
// fails with a duplicate_tool error.
func (r *Registry) Register(desc Descriptor, h Handler) error {
	if desc.Name == "" {
		return Errorf(CategoryInvalidArgument, "tool has empty name")
	}
	if h == nil {
		return Errorf(CategoryInvalidArgument, "tool %q has nil handler", desc.Name)
	}
	if _, exists := r.handlers[desc.Name]; exists {
		return Errorf(CategoryDuplicateTool, "tool %q is already registered", desc.Name)
	}
	r.order = append(r.order, desc)
	r.handlers[desc.Name] = h
	return nil
}

// List returns descriptors in registration order. The returned slice is
// a copy; callers cannot mutate the registry through it.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, len(r.order))
	copy(out, r.order)
	return out
}

// Handler returns the handler for name, or an unknown_tool error.
func (r *Registry) Handler(name string) (Handler, error) {
	h, ok := r.handlers[name]
	if !ok {
		return nil, Errorf(CategoryUnknownTool, "tool not found: %s", name)
	}
	return h, nil
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}
