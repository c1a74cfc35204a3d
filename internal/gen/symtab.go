package gen

import (
	"fmt"

	"github.com/duje-begonja-rdx/radixdlt-scrypto/schema"
)

// declaration is one translated named type: its schema identity, the
// structural definition it was translated from, and the emitted Go source.
type declaration struct {
	key      schema.TypeName
	def      schema.TypeDef
	hostName string
	source   string
}

// SymbolTable is the shared, run-scoped table of translated type definitions.
// Keys are scoped by originating package, so two packages may declare
// same-named-but-different types without collision, while an equal key must
// resolve to one structural definition across the whole batch.
//
// The table is mutated only through stages: a stage buffers one blueprint's
// translations and commits atomically, so a failed blueprint never leaves the
// table holding dangling entries.
type SymbolTable struct {
	decls     map[schema.TypeName]*declaration
	hostNames map[string]bool
	order     []*declaration
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		decls:     make(map[schema.TypeName]*declaration),
		hostNames: make(map[string]bool),
	}
}

// Declarations returns the Go source of every committed declaration in
// dependency-first emission order.
func (t *SymbolTable) Declarations() []string {
	out := make([]string, len(t.order))
	for i, d := range t.order {
		out[i] = d.source
	}
	return out
}

func (t *SymbolTable) begin() *stage {
	return &stage{
		parent:    t,
		decls:     make(map[schema.TypeName]*declaration),
		hostNames: make(map[string]bool),
	}
}

// stage buffers translations for one blueprint on top of the table.
type stage struct {
	parent    *SymbolTable
	decls     map[schema.TypeName]*declaration
	hostNames map[string]bool
	order     []*declaration
}

func (s *stage) lookup(key schema.TypeName) (*declaration, bool) {
	if d, ok := s.decls[key]; ok {
		return d, true
	}
	d, ok := s.parent.decls[key]
	return d, ok
}

func (s *stage) hostNameTaken(name string) bool {
	return s.hostNames[name] || s.parent.hostNames[name]
}

// reserveHostName assigns a free Go identifier derived from base,
// disambiguating deterministic collisions with a numeric suffix in
// first-seen order (Config, Config2, Config3, ...).
func (s *stage) reserveHostName(base string) string {
	name := base
	for n := 2; s.hostNameTaken(name); n++ {
		name = fmt.Sprintf("%s%d", base, n)
	}
	s.hostNames[name] = true
	return name
}

// insert adds a freshly translated declaration to the stage. The caller has
// already established the key is absent and the host name is reserved.
func (s *stage) insert(d *declaration) {
	s.decls[d.key] = d
	s.order = append(s.order, d)
}

// commit moves the stage's declarations into the table and returns their Go
// source in dependency-first order.
func (s *stage) commit() []string {
	sources := make([]string, len(s.order))
	for i, d := range s.order {
		s.parent.decls[d.key] = d
		s.parent.order = append(s.parent.order, d)
		sources[i] = d.source
	}
	for name := range s.hostNames {
		s.parent.hostNames[name] = true
	}
	return sources
}
