package modkit

import "custintel/internal/modkit/httpkit"

// Option configures a module assembled by Build
type Option func(*Built)

// WithName names the module in its Set and in panics
func WithName(name string) Option {
	return func(b *Built) { b.name = name }
}

// WithPrefix mounts the module under prefix; empty mounts at the parent
func WithPrefix(prefix string) Option {
	return func(b *Built) { b.prefix = prefix }
}

// WithMiddlewares appends middleware applied to every module route
func WithMiddlewares(mw ...httpkit.Middleware) Option {
	return func(b *Built) { b.mw = append(b.mw, mw...) }
}

// WithRoutes adds a route set; sets attach in option order
func WithRoutes(fn func(httpkit.Router)) Option {
	return func(b *Built) { b.routes = append(b.routes, fn) }
}

// WithPorts sets the port set other modules find with module.Lookup
func WithPorts(p any) Option {
	return func(b *Built) { b.ports = p }
}
