package repokit

// Binder binds a repo to a Queryer, either the pool or an open transaction
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a constructor into a Binder
type BindFunc[T any] func(Queryer) T

// Bind implements Binder
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// RequireQueryer panics on a nil q so wiring mistakes fail at boot
func RequireQueryer(q Queryer) Queryer {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return q
}
