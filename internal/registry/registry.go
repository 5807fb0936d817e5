package registry

import (
	"errors"
	"sort"

	"dexcore/internal/asset"
	"dexcore/internal/pool"
)

var (
	// ErrPoolExists is returned when registering a pair that already has a pool.
	ErrPoolExists = errors.New("pool already exists in registry")
	// ErrPoolNotFound is returned when no pool serves the requested pair.
	ErrPoolNotFound = errors.New("pool not found in registry")
)

// Registry maps canonical asset pairs to the pool instance serving them.
// (A, B) and (B, A) resolve to the same pool.
type Registry struct {
	pools map[asset.Pair]*pool.Pool
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{pools: make(map[asset.Pair]*pool.Pool)}
}

// Register adds a pool under its canonical pair.
func (r *Registry) Register(p *pool.Pool) error {
	pair := p.Pair()
	if _, ok := r.pools[pair]; ok {
		return ErrPoolExists
	}
	r.pools[pair] = p
	return nil
}

// Resolve returns the pool serving the two assets, in either order.
func (r *Registry) Resolve(x, y asset.Asset) (*pool.Pool, error) {
	pair, err := asset.NewPair(x, y)
	if err != nil {
		return nil, err
	}
	p, ok := r.pools[pair]
	if !ok {
		return nil, ErrPoolNotFound
	}
	return p, nil
}

// Pools returns all registered pools ordered by canonical pair for
// deterministic iteration.
func (r *Registry) Pools() []*pool.Pool {
	out := make([]*pool.Pool, 0, len(r.pools))
	for _, p := range r.pools {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Pair().String() < out[j].Pair().String()
	})
	return out
}
