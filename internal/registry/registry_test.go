package registry

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/tradecal/internal/calendar"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testSpec(name string) calendar.Spec {
	return calendar.Spec{
		Name:       name,
		TZ:         time.UTC,
		OpenTimes:  []calendar.TimeRule{{Time: calendar.TimeOfDay{Hour: 9, Minute: 0}}},
		CloseTimes: []calendar.TimeRule{{Time: calendar.TimeOfDay{Hour: 17, Minute: 0}}},
	}
}

func testOptions() calendar.Options {
	return calendar.Options{
		Start: date(2021, time.January, 4),
		End:   date(2021, time.January, 8),
	}
}

func newTestRegistry() *Registry {
	return New(zerolog.Nop())
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Get("XXXX", calendar.Options{})
	var unknown UnknownCalendarError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "XXXX", unknown.Name)
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := newTestRegistry()
	r.Register(testSpec("TEST"))

	c, err := r.Get("TEST", testOptions())
	require.NoError(t, err)
	assert.Equal(t, "TEST", c.Name())
	assert.Len(t, c.Sessions(), 5)
}

func TestRegistry_CachesConstructions(t *testing.T) {
	r := newTestRegistry()
	r.Register(testSpec("TEST"))

	first, err := r.Get("TEST", testOptions())
	require.NoError(t, err)
	second, err := r.Get("TEST", testOptions())
	require.NoError(t, err)
	assert.Same(t, first, second)

	// A different window is a different cache entry.
	other, err := r.Get("TEST", calendar.Options{
		Start: date(2021, time.February, 1),
		End:   date(2021, time.February, 5),
	})
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestRegistry_DefaultWindowCachedPerDay(t *testing.T) {
	r := newTestRegistry()
	r.Register(testSpec("TEST"))

	now := time.Date(2021, time.June, 15, 9, 30, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	first, err := r.Get("TEST", calendar.Options{})
	require.NoError(t, err)

	// Later the same day: cache hit.
	now = time.Date(2021, time.June, 15, 18, 0, 0, 0, time.UTC)
	second, err := r.Get("TEST", calendar.Options{})
	require.NoError(t, err)
	assert.Same(t, first, second)

	// The next day anchors a fresh default window.
	now = time.Date(2021, time.June, 16, 0, 30, 0, 0, time.UTC)
	third, err := r.Get("TEST", calendar.Options{})
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestRegistry_RegisterEvictsCachedConstructions(t *testing.T) {
	r := newTestRegistry()
	r.Register(testSpec("TEST"))

	first, err := r.Get("TEST", testOptions())
	require.NoError(t, err)

	r.Register(testSpec("TEST"))
	second, err := r.Get("TEST", testOptions())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestRegistry_Aliases(t *testing.T) {
	r := newTestRegistry()
	r.Register(testSpec("XNYS"))
	require.NoError(t, r.RegisterAlias("NYSE", "XNYS"))
	require.NoError(t, r.RegisterAlias("New York", "NYSE"))

	assert.Equal(t, "XNYS", r.Resolve("New York"))

	c, err := r.Get("New York", testOptions())
	require.NoError(t, err)
	assert.Equal(t, "XNYS", c.Name())

	// The canonical name keeps working alongside its aliases.
	c, err = r.Get("XNYS", testOptions())
	require.NoError(t, err)
	assert.Equal(t, "XNYS", c.Name())
}

func TestRegistry_AliasCycles(t *testing.T) {
	r := newTestRegistry()

	var cyclic CyclicAliasError
	require.ErrorAs(t, r.RegisterAlias("A", "A"), &cyclic)

	require.NoError(t, r.RegisterAlias("A", "B"))
	require.ErrorAs(t, r.RegisterAlias("B", "A"), &cyclic)

	// An alias may point at a target that is not registered yet.
	require.NoError(t, r.RegisterAlias("C", "MISSING"))
	_, err := r.Get("C", calendar.Options{})
	var unknown UnknownCalendarError
	require.ErrorAs(t, err, &unknown)
}

func TestRegistry_Instances(t *testing.T) {
	r := newTestRegistry()

	built, err := calendar.New(testSpec("FIXED"), testOptions())
	require.NoError(t, err)
	r.RegisterInstance(built)

	got, err := r.Get("FIXED", calendar.Options{})
	require.NoError(t, err)
	assert.Same(t, built, got)

	_, err = r.Get("FIXED", testOptions())
	var instErr InstanceOptionsError
	require.ErrorAs(t, err, &instErr)
	assert.Equal(t, "FIXED", instErr.Name)
}

func TestRegistry_Deregister(t *testing.T) {
	r := newTestRegistry()
	r.Register(testSpec("TEST"))

	_, err := r.Get("TEST", testOptions())
	require.NoError(t, err)

	r.Deregister("TEST")
	_, err = r.Get("TEST", testOptions())
	var unknown UnknownCalendarError
	require.ErrorAs(t, err, &unknown)
}

func TestRegistry_Names(t *testing.T) {
	r := newTestRegistry()
	r.Register(testSpec("A"))
	r.Register(testSpec("B"))

	built, err := calendar.New(testSpec("C"), testOptions())
	require.NoError(t, err)
	r.RegisterInstance(built)

	assert.ElementsMatch(t, []string{"A", "B", "C"}, r.Names())
}
