package modkit

import (
	"custintel/internal/modkit/httpkit"
	pstrings "custintel/internal/platform/strings"
)

// Built is a Module assembled from options. Services list their defaults
// first so caller options can rename the module or add routes.
type Built struct {
	name   string
	prefix string
	mw     []httpkit.Middleware
	routes []func(httpkit.Router)
	ports  any
}

var _ Module = (*Built)(nil)

// Build applies opts in order
func Build(opts ...Option) *Built {
	b := &Built{}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Name panics when no name was set
func (b *Built) Name() string { return pstrings.MustString(b.name, "module name") }

// Prefix is the normalised mount path, or "" to share the parent router
func (b *Built) Prefix() string {
	if b.prefix == "" {
		return ""
	}
	return pstrings.MustPrefix(b.prefix)
}

func (b *Built) Ports() any { return b.ports }

func (b *Built) MountRoutes(r httpkit.Router) {
	attach := func(rr httpkit.Router) {
		rr.Use(b.mw...)
		for _, fn := range b.routes {
			fn(rr)
		}
	}
	if p := b.Prefix(); p != "" {
		r.Route(p, attach)
		return
	}
	r.Group(attach)
}
