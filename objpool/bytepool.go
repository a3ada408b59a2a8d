package objpool

// ByteSlot is a reusable byte buffer. Reset grows the backing array
// only when the requested length exceeds current capacity, so a
// recycled slot keeps its capacity across acquire/release cycles.
type ByteSlot struct {
	buf []byte
}

// Bytes returns the slot's current contents.
func (b *ByteSlot) Bytes() []byte { return b.buf }

// Reset implements Resetter[int]: it resizes the slot to length n,
// reusing the backing array when it already has enough capacity.
func (b *ByteSlot) Reset(n int) {
	if cap(b.buf) < n {
		b.buf = make([]byte, n)
		return
	}
	b.buf = b.buf[:n]
	for i := range b.buf {
		b.buf[i] = 0
	}
}

// Build implements Builder[int] identically to Reset — a freshly
// constructed slot and a recycled one are initialized the same way.
func (b *ByteSlot) Build(n int) { b.Reset(n) }

type byteSlotAllocator struct {
	defaultSize int
}

func (a byteSlotAllocator) Allocate() (*ByteSlot, error) {
	return &ByteSlot{buf: make([]byte, a.defaultSize)}, nil
}

func (a byteSlotAllocator) Deallocate(*ByteSlot) {}

// NewBytePool builds a Pool of ByteSlot, a thin convenience wrapper
// mirroring the reference package's own BytePool: Acquire's argument
// is the desired buffer length, backed by the same shard/ring engine
// as any other payload type.
func NewBytePool(defaultSize int, opts ...Option) *Pool[ByteSlot, int] {
	return New[ByteSlot, int](byteSlotAllocator{defaultSize: defaultSize}, opts...)
}
