package objpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytePoolResizesOnAcquire(t *testing.T) {
	p := NewBytePool(16, WithPoolSize(4), WithLocalCacheSize(2))
	slot, err := p.Acquire(64)
	require.NoError(t, err)
	require.Len(t, slot.Bytes(), 64)
	p.Release(slot)

	slot2, err := p.Acquire(8)
	require.NoError(t, err)
	require.Len(t, slot2.Bytes(), 8)
}
