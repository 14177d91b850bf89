package target

import (
	"sort"
	"sync"
)

// RoleTable maps every role to its concrete string for one triple.
// A RoleTable is immutable once built.
type RoleTable struct {
	triple Triple
	values [roleCount]string
}

// Entry is a single role/value pair of a table.
type Entry struct {
	Role  Role
	Value string
}

// NewRoleTable builds a table from entries, rejecting partial tables with
// the first missing role.
func NewRoleTable(t Triple, entries map[Role]string) (*RoleTable, error) {
	rt := &RoleTable{triple: t}
	for role, v := range entries {
		if role < roleCount {
			rt.values[role] = v
		}
	}
	for i, v := range rt.values {
		if v == "" {
			return nil, &MissingRoleError{Triple: t, Role: Role(i)}
		}
	}
	return rt, nil
}

// Triple returns the triple the table was resolved for.
func (rt *RoleTable) Triple() Triple { return rt.triple }

// Lookup returns the value of role or a *MissingRoleError.
func (rt *RoleTable) Lookup(role Role) (string, error) {
	if rt == nil || role >= roleCount || rt.values[role] == "" {
		var t Triple
		if rt != nil {
			t = rt.triple
		}
		return "", &MissingRoleError{Triple: t, Role: role}
	}
	return rt.values[role], nil
}

// Entries lists the table in role order.
func (rt *RoleTable) Entries() []Entry {
	out := make([]Entry, 0, roleCount)
	for i, v := range rt.values {
		out = append(out, Entry{Role: Role(i), Value: v})
	}
	return out
}

// Registry is a triple-keyed set of role tables. The zero value is not
// usable; use NewRegistry or Builtin.
type Registry struct {
	mu     sync.RWMutex
	tables map[Triple]*RoleTable
}

// NewRegistry returns a registry preloaded with the builtin tables.
func NewRegistry() *Registry {
	r := &Registry{tables: make(map[Triple]*RoleTable, len(builtinTables))}
	for t, rt := range builtin().tables {
		r.tables[t] = rt
	}
	return r
}

// Register adds or replaces the table for t.
func (r *Registry) Register(t Triple, entries map[Role]string) error {
	rt, err := NewRoleTable(t, entries)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[t] = rt
	return nil
}

// Resolve returns the role table for t or an *UnsupportedTargetError.
func (r *Registry) Resolve(t Triple) (*RoleTable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.tables[t]
	if !ok {
		return nil, &UnsupportedTargetError{Triple: t}
	}
	return rt, nil
}

// Supported lists the registered triples in a stable order.
func (r *Registry) Supported() []Triple {
	r.mu.RLock()
	out := make([]Triple, 0, len(r.tables))
	for t := range r.tables {
		out = append(out, t)
	}
	r.mu.RUnlock()
	sortTriples(out)
	return out
}

func sortTriples(ts []Triple) {
	sort.Slice(ts, func(i, j int) bool {
		a, b := ts[i], ts[j]
		if a.OS != b.OS {
			return a.OS < b.OS
		}
		if a.ISA != b.ISA {
			return a.ISA < b.ISA
		}
		return a.Width > b.Width
	})
}

var (
	builtinOnce sync.Once
	builtinReg  *Registry
)

func builtin() *Registry {
	builtinOnce.Do(func() {
		reg := &Registry{tables: make(map[Triple]*RoleTable, len(builtinTables))}
		for t, entries := range builtinTables {
			rt, err := NewRoleTable(t, entries)
			if err != nil {
				panic(err)
			}
			reg.tables[t] = rt
		}
		builtinReg = reg
	})
	return builtinReg
}

// Resolve looks t up in the builtin tables.
func Resolve(t Triple) (*RoleTable, error) {
	return builtin().Resolve(t)
}

// Supported lists the builtin triples in a stable order.
func Supported() []Triple {
	return builtin().Supported()
}
