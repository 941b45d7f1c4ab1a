package atomic

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBool(t *testing.T) {
	t.Run("get/set", func(t *testing.T) {
		require := require.New(t)
		var b Bool
		require.False(b.Get())
		b.Set(true)
		require.True(b.Get())
		b.Set(false)
		require.False(b.Get())
	})

	t.Run("swap once", func(t *testing.T) {
		var b Bool
		var wg sync.WaitGroup
		var mu sync.Mutex
		winners := 0
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if !b.Swap(true) {
					mu.Lock()
					winners++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		require.Equal(t, 1, winners)
		require.True(t, b.Get())
	})
}
