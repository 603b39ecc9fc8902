package event

// Scope is an opaque handle for a region of the host UI that events are
// published to. Scopes form a parent chain; publishing to a scope also
// delivers to every ancestor, mirroring event propagation in the host.
type Scope struct {
	name   string
	parent *Scope
}

// NewScope creates a scope with the given name. A nil parent makes it a
// root scope.
func NewScope(name string, parent *Scope) *Scope {
	return &Scope{name: name, parent: parent}
}

// Name returns the scope's name.
func (s *Scope) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Parent returns the enclosing scope, or nil for a root scope.
func (s *Scope) Parent() *Scope {
	if s == nil {
		return nil
	}
	return s.parent
}

// chain returns the scope and its ancestors, innermost first.
func (s *Scope) chain() []*Scope {
	var out []*Scope
	for cur := s; cur != nil; cur = cur.parent {
		out = append(out, cur)
	}
	return out
}
