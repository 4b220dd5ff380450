package floating

// RefCount counts holders of a shared resource and runs onZero each time the
// last holder releases it.
type RefCount struct {
	n      int
	onZero func()
}

// NewRefCount returns a counter that calls onZero when it drops back to zero.
func NewRefCount(onZero func()) *RefCount {
	return &RefCount{onZero: onZero}
}

// Acquire adds a holder.
func (r *RefCount) Acquire() {
	r.n++
}

// Release drops a holder. Releasing at zero does nothing.
func (r *RefCount) Release() {
	if r.n == 0 {
		return
	}
	r.n--
	if r.n == 0 && r.onZero != nil {
		r.onZero()
	}
}

// Count returns the number of holders.
func (r *RefCount) Count() int {
	return r.n
}
