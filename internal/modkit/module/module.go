// Package module is the contract between the api composer and its modules
package module

import (
	"fmt"
	"slices"

	phttp "custintel/internal/platform/net/http"
)

// Module is one named route group with the ports it offers other modules.
// It lives apart from modkit so a module can export its own ports type
// without an import cycle.
type Module interface {
	Name() string
	// Prefix is the mount path; empty for modules without routes
	Prefix() string
	MountRoutes(r phttp.Router)
	Ports() any
}

// Set is what Mount mounted, by name
type Set map[string]Module

// Mount mounts each module's routes on r. Two modules sharing a name or a
// prefix are a wiring bug and panic.
func Mount(r phttp.Router, mods ...Module) Set {
	set := make(Set, len(mods))
	owner := make(map[string]string, len(mods))
	for _, m := range mods {
		name := m.Name()
		if _, dup := set[name]; dup {
			panic(fmt.Sprintf("module: %q mounted twice", name))
		}
		if p := m.Prefix(); p != "" {
			if other, taken := owner[p]; taken {
				panic(fmt.Sprintf("module: %q and %q both mount %s", other, name, p))
			}
			owner[p] = name
		}
		set[name] = m
		m.MountRoutes(r)
	}
	return set
}

// Names lists the mounted modules, sorted
func (s Set) Names() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Lookup finds a T among the ports of the module mounted as name
func Lookup[T any](s Set, name string) (T, bool) {
	m, ok := s[name]
	if !ok {
		var zero T
		return zero, false
	}
	return PortsOf[T](m)
}
