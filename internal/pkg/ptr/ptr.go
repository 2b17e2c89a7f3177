package ptr

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// Deref returns the pointed-to value, or the zero value for nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Or returns *p when p is set, otherwise fallback.
func Or[T any](p *T, fallback T) T {
	if p != nil {
		return *p
	}
	return fallback
}
