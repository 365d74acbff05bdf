package model

// registry is an insertion-ordered collection keyed by normalized identifier.
// It is the uniqueness scope of a container; each container owns its own
// registries so independent designs never share state.
type registry[T any] struct {
	items []T
	index map[string]int
}

func newRegistry[T any]() registry[T] {
	return registry[T]{index: make(map[string]int)}
}

func (r *registry[T]) has(key string) bool {
	_, ok := r.index[key]
	return ok
}

func (r *registry[T]) get(key string) (T, bool) {
	i, ok := r.index[key]
	if !ok {
		var zero T
		return zero, false
	}
	return r.items[i], true
}

// insert appends item under key. Callers check has first so that failed adds
// leave the registry untouched.
func (r *registry[T]) insert(key string, item T) {
	r.index[key] = len(r.items)
	r.items = append(r.items, item)
}

func (r *registry[T]) len() int {
	return len(r.items)
}

// list returns a copy so callers cannot reorder or grow the registry.
func (r *registry[T]) list() []T {
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}
