// Package flow instantiates task and ticket flows: the ordered phases of a
// work item, who executes each one and what each hour costs.
package flow

import "context"

// Resolver proposes a user for q. Returning ok=false hands the decision to
// the next resolver of a Chain; an error stops the chain.
type Resolver[Q any] interface {
	Resolve(ctx context.Context, q Q) (userID string, ok bool, err error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc[Q any] func(ctx context.Context, q Q) (string, bool, error)

func (f ResolverFunc[Q]) Resolve(ctx context.Context, q Q) (string, bool, error) {
	return f(ctx, q)
}

// Chain tries its resolvers in order and returns the first non-empty match.
type Chain[Q any] []Resolver[Q]

func (c Chain[Q]) Resolve(ctx context.Context, q Q) (string, bool, error) {
	for _, r := range c {
		id, ok, err := r.Resolve(ctx, q)
		if err != nil {
			return "", false, err
		}
		if ok && id != "" {
			return id, true, nil
		}
	}
	return "", false, nil
}

func static(id string) (string, bool, error) {
	return id, id != "", nil
}
