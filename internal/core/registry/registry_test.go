package registry

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/blessfleet/internal/core/domain"
)

func TestTryClaim_Exclusive(t *testing.T) {
	r := New()

	require.True(t, r.TryClaim("pk-1", domain.Binding{Account: "a"}))
	require.False(t, r.TryClaim("pk-1", domain.Binding{Account: "b"}))

	b, ok := r.Get("pk-1")
	require.True(t, ok)
	assert.Equal(t, "a", b.Account, "a rejected claim must not overwrite the owner")
	assert.Equal(t, 1, r.Len())
}

func TestTryClaim_ConcurrentSameIdentity(t *testing.T) {
	for _, n := range []int{2, 8, 128} {
		t.Run(fmt.Sprintf("N=%d", n), func(t *testing.T) {
			r := New()
			var wins atomic.Int32
			var wg sync.WaitGroup
			start := make(chan struct{})

			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					<-start
					if r.TryClaim("contended", domain.Binding{Account: fmt.Sprint(i)}) {
						wins.Add(1)
					}
				}(i)
			}
			close(start)
			wg.Wait()

			assert.EqualValues(t, 1, wins.Load(), "exactly one claim must win")
			assert.Equal(t, 1, r.Len())
		})
	}
}

func TestRelease_AllowsReclaim(t *testing.T) {
	r := New()

	require.True(t, r.TryClaim("pk-1", domain.Binding{}))
	r.Release("pk-1")
	assert.False(t, r.Has("pk-1"))
	assert.True(t, r.TryClaim("pk-1", domain.Binding{}), "a released identity must be claimable again")

	// Releasing an unknown identity is a no-op.
	r.Release("unknown")
	assert.Equal(t, 1, r.Len())
}

func TestSnapshot(t *testing.T) {
	r := New()
	for i := 0; i < 5; i++ {
		require.True(t, r.TryClaim(domain.NodeID(fmt.Sprintf("pk-%d", i)), domain.Binding{Addr: fmt.Sprint(i)}))
	}

	snap := r.Snapshot()
	require.Len(t, snap, 5)

	ids := make([]string, len(snap))
	for i, e := range snap {
		ids[i] = e.ID.String()
	}
	sort.Strings(ids)
	assert.Equal(t, []string{"pk-0", "pk-1", "pk-2", "pk-3", "pk-4"}, ids)

	// The snapshot is a copy.
	r.Release("pk-0")
	assert.Len(t, snap, 5)
	assert.Equal(t, 4, r.Len())
}

func TestSnapshot_UnderConcurrentMutation(t *testing.T) {
	r := New()
	var wg sync.WaitGroup

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				id := domain.NodeID(fmt.Sprintf("w%d-%d", w, i))
				r.TryClaim(id, domain.Binding{})
				if i%2 == 0 {
					r.Release(id)
				}
			}
		}(w)
	}
	for i := 0; i < 20; i++ {
		seen := make(map[domain.NodeID]bool)
		for _, e := range r.Snapshot() {
			assert.False(t, seen[e.ID], "snapshot must not contain duplicates")
			seen[e.ID] = true
		}
	}
	wg.Wait()

	assert.Equal(t, 4*250, r.Len())
}
