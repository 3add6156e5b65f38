package identity

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_ID(t *testing.T) {
	s := NewSession(SequentialGenerator("inj"))

	first := s.ID(ElementKey("a"))
	assert.Equal(t, "inj-1", first)
	assert.Equal(t, first, s.ID(ElementKey("a")))
	assert.Equal(t, "inj-2", s.ID(InjectorKey("a")), "kinds do not share ids")
	assert.Equal(t, "inj-3", s.ID(ModuleKey("a")))

	stats := s.Stats()
	assert.Equal(t, int64(4), stats.Lookups)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(3), stats.Misses)
	assert.Equal(t, 3, stats.Entries)
	assert.InDelta(t, 25.0, stats.HitRate, 0.001)
}

func TestSession_Reset(t *testing.T) {
	s := NewSession(SequentialGenerator("n"))
	before := s.ID(ElementKey("a"))
	s.RegisterInjector(before, nil)

	s.Reset()

	assert.NotEqual(t, before, s.ID(ElementKey("a")), "ids are not reused across resets")
	_, err := s.Injector(before)
	assert.ErrorIs(t, err, ErrUnknownInjector)
	assert.Equal(t, int64(1), s.Stats().Lookups)
}

func TestSession_DefaultGenerator(t *testing.T) {
	s := NewSession(nil)
	id := s.ID(InjectorKey("root"))
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestStableGenerator(t *testing.T) {
	a := NewSession(StableGenerator())
	b := NewSession(StableGenerator())

	assert.Equal(t, a.ID(InjectorKey("root")), b.ID(InjectorKey("root")))
	assert.NotEqual(t, a.ID(InjectorKey("root")), a.ID(ElementKey("root")))

	id := a.ID(ModuleKey("app"))
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), parsed.Version())
}

func TestSession_Concurrent(t *testing.T) {
	s := NewSession(UUIDGenerator())

	var wg sync.WaitGroup
	ids := make([]string, 16)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = s.ID(ElementKey("shared"))
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, "element/a", ElementKey("a").String())
	assert.Equal(t, "injector/a", InjectorKey("a").String())
	assert.Equal(t, "module/a", ModuleKey("a").String())
}
