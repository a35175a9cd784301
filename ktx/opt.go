package ktx

// Opt is an explicitly present-or-absent engine argument. Absent fields keep
// the engine default; a zero value is never substituted.
type Opt[T any] struct {
	v  T
	ok bool
}

// Some wraps a supplied value.
func Some[T any](v T) Opt[T] { return Opt[T]{v: v, ok: true} }

// Get returns the value and whether it was supplied.
func (o Opt[T]) Get() (T, bool) { return o.v, o.ok }

// IsSet reports whether the value was supplied.
func (o Opt[T]) IsSet() bool { return o.ok }

// Or returns the value or def when absent.
func (o Opt[T]) Or(def T) T {
	if o.ok {
		return o.v
	}
	return def
}

func optFrom[T, U any](p *T, conv func(T) U) Opt[U] {
	if p == nil {
		return Opt[U]{}
	}
	return Some(conv(*p))
}

func optBool(p *bool) Opt[bool] { return optFrom(p, func(v bool) bool { return v }) }

func optU32(p *int) Opt[uint32] {
	return optFrom(p, func(v int) uint32 { return uint32(max(v, 0)) }) //nolint:gosec // clamped
}

func optF32(p *float64) Opt[float32] {
	return optFrom(p, func(v float64) float32 { return float32(v) })
}

func optSwizzle(p *string) Opt[[4]byte] {
	return optFrom(p, func(v string) [4]byte {
		var s [4]byte
		copy(s[:], v)
		return s
	})
}
