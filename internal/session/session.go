// Package session carries the current-user session descriptor through
// context. Authentication itself happens outside this module; callers attach
// whatever descriptor their auth layer produced.
package session

import "context"

// Descriptor identifies the acting user for a request.
type Descriptor struct {
	Role         string
	Organization string
}

// descriptorContextKey is the context key for the session descriptor.
type descriptorContextKey struct{}

// WithDescriptor stores a session descriptor in context.
func WithDescriptor(ctx context.Context, descriptor Descriptor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, descriptorContextKey{}, descriptor)
}

// FromContext returns the session descriptor stored in context. The bool
// reports whether one was attached.
func FromContext(ctx context.Context) (Descriptor, bool) {
	if ctx == nil {
		return Descriptor{}, false
	}
	descriptor, ok := ctx.Value(descriptorContextKey{}).(Descriptor)
	return descriptor, ok
}
