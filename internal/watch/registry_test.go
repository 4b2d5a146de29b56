package watch

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-swap-watch/internal/domain"
)

func TestRegistry_AddDefaultsActive(t *testing.T) {
	r := NewRegistry()
	r.Add("mintA")

	assert.True(t, r.IsActive("mintA"))
	assert.Equal(t, []domain.WatchEntry{{TokenID: "mintA", Active: true}}, r.List())
}

func TestRegistry_AddExistingReenablesInPlace(t *testing.T) {
	r := NewRegistry()
	r.Add("mintA")
	r.Add("mintB")

	_, ok := r.Toggle("mintA")
	require.True(t, ok)
	require.False(t, r.IsActive("mintA"))

	r.Add("mintA")

	assert.Equal(t, []domain.WatchEntry{
		{TokenID: "mintA", Active: true},
		{TokenID: "mintB", Active: true},
	}, r.List())
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	r.Add("mintA")
	r.Add("mintB")
	r.Add("mintC")

	assert.True(t, r.Remove("mintB"))
	assert.False(t, r.Remove("mintB"), "second remove reports absence")
	assert.False(t, r.Remove("unknown"))

	assert.Equal(t, []domain.WatchEntry{
		{TokenID: "mintA", Active: true},
		{TokenID: "mintC", Active: true},
	}, r.List())
}

func TestRegistry_ToggleIsOwnInverse(t *testing.T) {
	r := NewRegistry()
	r.Add("mintA")
	r.Add("mintB")
	before := r.List()

	active, ok := r.Toggle("mintA")
	require.True(t, ok)
	assert.False(t, active)

	active, ok = r.Toggle("mintA")
	require.True(t, ok)
	assert.True(t, active)

	assert.Equal(t, before, r.List())
}

func TestRegistry_ToggleUnknown(t *testing.T) {
	r := NewRegistry()
	r.Add("mintA")

	_, ok := r.Toggle("unknown")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len(), "toggle must not create entries")
}

func TestRegistry_PauseResume(t *testing.T) {
	r := NewRegistry()
	r.Add("mintA")
	r.Add("mintB")
	r.Add("mintC")
	_, _ = r.Toggle("mintB")

	r.PauseAll()
	for _, e := range r.List() {
		assert.False(t, e.Active, "%s should be paused", e.TokenID)
	}
	assert.Empty(t, r.ActiveTokens())

	r.ResumeAll()
	r.ResumeAll()
	for _, e := range r.List() {
		assert.True(t, e.Active, "%s should be active", e.TokenID)
	}
	assert.Equal(t, []string{"mintA", "mintB", "mintC"}, r.ActiveTokens())
}

func TestRegistry_PauseResumeEmpty(t *testing.T) {
	r := NewRegistry()
	r.PauseAll()
	r.ResumeAll()
	assert.Empty(t, r.List())
}

func TestRegistry_ResetThenAdd(t *testing.T) {
	r := NewRegistry()
	r.Add("mintA")
	r.Add("mintB")

	r.Reset()
	assert.Empty(t, r.List())
	assert.False(t, r.IsActive("mintA"))

	r.Add("mintC")
	assert.Equal(t, []domain.WatchEntry{{TokenID: "mintC", Active: true}}, r.List())
}

func TestRegistry_IsActiveAbsentAndPaused(t *testing.T) {
	r := NewRegistry()
	r.Add("mintA")
	_, _ = r.Toggle("mintA")

	assert.False(t, r.IsActive("mintA"))
	assert.False(t, r.IsActive("missing"))

	_, ok := r.Lookup("mintA")
	assert.True(t, ok)
	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_ListIsCopy(t *testing.T) {
	r := NewRegistry()
	r.Add("mintA")

	list := r.List()
	list[0].Active = false

	assert.True(t, r.IsActive("mintA"))
}

func TestRegistry_ConcurrentToggleDistinctTokens(t *testing.T) {
	r := NewRegistry()
	const n = 64
	for i := 0; i < n; i++ {
		r.Add(fmt.Sprintf("mint%02d", i))
	}
	r.Add("bystander")

	// Each odd token is toggled an odd number of times, each even token an even number.
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		toggles := 2
		if i%2 == 1 {
			toggles = 3
		}
		for k := 0; k < toggles; k++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				r.Toggle(id)
			}(fmt.Sprintf("mint%02d", i))
		}
	}
	wg.Wait()

	require.Equal(t, n+1, r.Len())
	for i := 0; i < n; i++ {
		e, ok := r.Lookup(fmt.Sprintf("mint%02d", i))
		require.True(t, ok)
		assert.Equal(t, i%2 == 0, e.Active, "token %s", e.TokenID)
	}
	assert.True(t, r.IsActive("bystander"))
}
