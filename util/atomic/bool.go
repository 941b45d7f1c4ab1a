package atomic

import "sync/atomic"

type Bool struct {
	v uint32
}

func toUint32(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}

func (b *Bool) Get() bool {
	return atomic.LoadUint32(&b.v) == 1
}

func (b *Bool) Set(v bool) {
	atomic.StoreUint32(&b.v, toUint32(v))
}

// Swap stores v and returns the previous value.
func (b *Bool) Swap(v bool) bool {
	return atomic.SwapUint32(&b.v, toUint32(v)) == 1
}
