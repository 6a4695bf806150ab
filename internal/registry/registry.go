// Package registry dispenses calendars by name. Definitions register a
// spec (or a pre-built instance) once; callers ask for calendars by
// canonical name or alias and get cached constructions back.
package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/tradecal/internal/calendar"
)

// cacheLimit bounds the construction cache; calendars for unusual
// windows evict the oldest entry rather than growing without bound.
const cacheLimit = 64

// UnknownCalendarError reports a name that resolves to nothing.
type UnknownCalendarError struct {
	Name string
}

func (e UnknownCalendarError) Error() string {
	return fmt.Sprintf("no calendar registered under %q", e.Name)
}

// CyclicAliasError reports an alias chain that loops back on itself.
type CyclicAliasError struct {
	Alias string
}

func (e CyclicAliasError) Error() string {
	return fmt.Sprintf("alias %q forms a cycle", e.Alias)
}

// InstanceOptionsError reports non-default options passed for a name
// registered as a fixed instance, which cannot be rebuilt.
type InstanceOptionsError struct {
	Name string
}

func (e InstanceOptionsError) Error() string {
	return fmt.Sprintf("calendar %q is registered as an instance and cannot take construction options", e.Name)
}

type cacheKey struct {
	name  string
	start int64
	end   int64
	side  calendar.Side
	today int64
}

type cacheEntry struct {
	key cacheKey
	cal *calendar.Calendar
}

// Registry maps names to calendar specs and aliases and caches
// constructed calendars. All methods are safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	specs     map[string]calendar.Spec
	instances map[string]*calendar.Calendar
	aliases   map[string]string
	cache     []cacheEntry
	log       zerolog.Logger

	// now is swappable so cache keys are deterministic under test.
	now func() time.Time
}

// New returns an empty registry.
func New(log zerolog.Logger) *Registry {
	return &Registry{
		specs:     make(map[string]calendar.Spec),
		instances: make(map[string]*calendar.Calendar),
		aliases:   make(map[string]string),
		log:       log.With().Str("component", "registry").Logger(),
		now:       time.Now,
	}
}

// Register makes spec constructible under its name, replacing any
// previous registration and dropping stale cached constructions.
func (r *Registry) Register(spec calendar.Spec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.instances, spec.Name)
	r.specs[spec.Name] = spec
	r.evictName(spec.Name)
	r.log.Debug().Str("calendar", spec.Name).Msg("registered calendar spec")
}

// RegisterInstance serves a pre-built calendar under its name. Get calls
// for the name must use zero Options.
func (r *Registry) RegisterInstance(cal *calendar.Calendar) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.specs, cal.Name())
	r.instances[cal.Name()] = cal
	r.evictName(cal.Name())
	r.log.Debug().Str("calendar", cal.Name()).Msg("registered calendar instance")
}

// RegisterAlias points alias at target. Registration fails only if the
// alias would form a cycle; the target does not have to exist yet.
func (r *Registry) RegisterAlias(alias, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{alias: true}
	for next := target; ; {
		if seen[next] {
			return CyclicAliasError{Alias: alias}
		}
		seen[next] = true
		t, ok := r.aliases[next]
		if !ok {
			break
		}
		next = t
	}
	r.aliases[alias] = target
	return nil
}

// Deregister removes the name (or alias) and its cached constructions.
func (r *Registry) Deregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.specs, name)
	delete(r.instances, name)
	delete(r.aliases, name)
	r.evictName(name)
}

// Resolve follows aliases to the canonical name. It does not check that
// the canonical name is registered.
func (r *Registry) Resolve(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked(name)
}

func (r *Registry) resolveLocked(name string) string {
	for {
		target, ok := r.aliases[name]
		if !ok {
			return name
		}
		name = target
	}
}

// Names returns the canonical names with a registered spec or instance,
// unsorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.specs)+len(r.instances))
	for name := range r.specs {
		out = append(out, name)
	}
	for name := range r.instances {
		out = append(out, name)
	}
	return out
}

// Get resolves name and returns a calendar built with opts, reusing a
// cached construction when one matches. Options anchored on the current
// date stay cached until the date changes.
func (r *Registry) Get(name string, opts calendar.Options) (*calendar.Calendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	canonical := r.resolveLocked(name)
	if cal, ok := r.instances[canonical]; ok {
		if opts != (calendar.Options{}) {
			return nil, InstanceOptionsError{Name: canonical}
		}
		return cal, nil
	}
	spec, ok := r.specs[canonical]
	if !ok {
		return nil, UnknownCalendarError{Name: name}
	}

	if opts.Now.IsZero() {
		opts.Now = r.now()
	}
	key := cacheKey{
		name:  canonical,
		start: opts.Start.UnixNano(),
		end:   opts.End.UnixNano(),
		side:  opts.Side,
		today: opts.Now.UTC().Truncate(24 * time.Hour).UnixNano(),
	}
	for _, e := range r.cache {
		if e.key == key {
			return e.cal, nil
		}
	}

	started := time.Now()
	cal, err := calendar.New(spec, opts)
	if err != nil {
		return nil, fmt.Errorf("building calendar %q: %w", canonical, err)
	}
	r.log.Debug().
		Str("calendar", canonical).
		Int("sessions", len(cal.Sessions())).
		Dur("took", time.Since(started)).
		Msg("built calendar")

	if len(r.cache) >= cacheLimit {
		r.cache = r.cache[1:]
	}
	r.cache = append(r.cache, cacheEntry{key: key, cal: cal})
	return cal, nil
}

// evictName drops cached constructions for name. Callers hold mu.
func (r *Registry) evictName(name string) {
	kept := r.cache[:0]
	for _, e := range r.cache {
		if e.key.name != name {
			kept = append(kept, e)
		}
	}
	r.cache = kept
}
