package pkg

// Option is a functional option that returns a modified copy of T.
type Option[T any] func(T) T

// Apply applies opts to v in order.
func Apply[T any](v T, opts ...Option[T]) T {
	for _, opt := range opts {
		if opt != nil {
			v = opt(v)
		}
	}

	return v
}
