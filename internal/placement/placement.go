// Package placement provides the registry of placement literals.
//
// A placement names the role at which a federated value resides. Two
// literals are distinguished: Server and Clients. Literals are compared by
// identity; a literal built with New is never equal to Server or Clients
// even if it carries the same name.
//
// The registry is built once at package initialization and never mutated,
// so lookups are safe for concurrent use without synchronization.
package placement

import "strings"

// Literal is a placement role.
type Literal struct {
	name            string
	uri             string
	defaultAllEqual bool
	description     string
}

// New creates a placement literal outside the registry.
// Constructors reject such literals; New exists for tests and for callers
// modelling placements this core does not support.
func New(name, uri string, defaultAllEqual bool, description string) *Literal {
	return &Literal{
		name:            name,
		uri:             uri,
		defaultAllEqual: defaultAllEqual,
		description:     description,
	}
}

var (
	// Server is the single coordinating location. A server-placed value is
	// necessarily uniform, so its all-equal bit defaults to true.
	Server = New("SERVER", "server", true,
		"The single top-level central coordinator.")

	// Clients is the collective of participating client devices. Values at
	// clients may differ per client.
	Clients = New("CLIENTS", "clients", false,
		"The collective of all client devices participating in a round.")
)

var registry = map[string]*Literal{
	Server.uri:  Server,
	Clients.uri: Clients,
}

// Name returns the upper-case name used in canonical type text ("SERVER").
func (l *Literal) Name() string { return l.name }

// URI returns the lower-case identifier ("server").
func (l *Literal) URI() string { return l.uri }

// DefaultAllEqual reports the all-equal bit a federated type at this
// placement takes when none is given.
func (l *Literal) DefaultAllEqual() bool { return l.defaultAllEqual }

// Description returns a human-readable description.
func (l *Literal) Description() string { return l.description }

// String implements fmt.Stringer.
func (l *Literal) String() string {
	if l == nil {
		return "<nil placement>"
	}
	return l.name
}

// Lookup resolves a registered literal by URI or name, case-insensitively.
func Lookup(s string) (*Literal, bool) {
	l, ok := registry[strings.ToLower(strings.TrimSpace(s))]
	return l, ok
}

// IsRegistered reports whether l is one of the registered literals.
func IsRegistered(l *Literal) bool {
	return l == Server || l == Clients
}

// All returns the registered literals in a stable order.
func All() []*Literal {
	return []*Literal{Server, Clients}
}
