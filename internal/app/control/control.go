package control

import (
	"sync"

	"logscope/internal/app/entry"
	"logscope/internal/app/errors"
	"logscope/internal/app/filter"
	"logscope/internal/app/registry"
	"logscope/internal/app/store"
)

// Controller translates user toggles into filter changes on one subscription.
// A rejected change leaves the previous filter in effect
type Controller interface {
	Spec() *filter.Spec
	ToggleLevel(name string) error
	ToggleSource(source string) error
	SetText(text string) error
	ToggleRegex() error
	ToggleCaseSensitive() error
	ToggleMode(name string) error
	Apply(opts filter.Options) error
	Pause() error
	Resume() error
	TogglePause() (bool, error)
	Paused() bool
	Clear()
	Search(newestFirst bool, maxResults int) []entry.Entry
}

// Target groups what a controller operates on
type Target struct {
	Registry     registry.Registry
	Subscription *registry.Subscription
	Modes        *filter.Modes
	Sources      func() []string
	Clear        func()
}

// controller implements the Controller interface
type controller struct {
	mu      sync.Mutex
	target  Target
	spec    *filter.Spec
	paused  bool
	sources func() []string
}

// New creates a controller starting from the subscription's current filter
func New(target Target) (Controller, error) {
	if target.Registry == nil || target.Subscription == nil {
		return nil, errors.ErrSubscriptionNotFound
	}

	if target.Modes == nil {
		target.Modes = filter.DefaultModes()
	}

	sources := target.Sources
	if sources == nil {
		sources = func() []string { return nil }
	}

	spec := target.Subscription.Spec()
	if spec == nil {
		spec = filter.MatchAll(target.Modes)
	}

	return &controller{
		target:  target,
		spec:    spec,
		paused:  target.Subscription.Paused(),
		sources: sources,
	}, nil
}

// Spec returns the filter currently in effect
func (c *controller) Spec() *filter.Spec {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.spec
}

// ToggleLevel flips one severity in the level filter
func (c *controller) ToggleLevel(name string) error {
	return c.update(func(s *filter.Spec) (*filter.Spec, error) {
		return s.ToggleLevel(name)
	})
}

// ToggleSource flips one source in the source filter
func (c *controller) ToggleSource(source string) error {
	universe := c.sources()

	return c.update(func(s *filter.Spec) (*filter.Spec, error) {
		return s.ToggleSource(source, universe)
	})
}

// SetText replaces the search text, keeping the regex and case flags
func (c *controller) SetText(text string) error {
	return c.update(func(s *filter.Spec) (*filter.Spec, error) {
		return s.WithText(text, s.Regex(), s.CaseSensitive())
	})
}

// ToggleRegex switches the search text between substring and regex matching
func (c *controller) ToggleRegex() error {
	return c.update(func(s *filter.Spec) (*filter.Spec, error) {
		return s.WithText(s.Text(), !s.Regex(), s.CaseSensitive())
	})
}

func (c *controller) ToggleCaseSensitive() error {
	return c.update(func(s *filter.Spec) (*filter.Spec, error) {
		return s.WithText(s.Text(), s.Regex(), !s.CaseSensitive())
	})
}

// ToggleMode activates a named mode, or clears it when already active
func (c *controller) ToggleMode(name string) error {
	return c.update(func(s *filter.Spec) (*filter.Spec, error) {
		return s.ToggleMode(name)
	})
}

// Apply replaces the whole filter
func (c *controller) Apply(opts filter.Options) error {
	return c.update(func(_ *filter.Spec) (*filter.Spec, error) {
		return filter.New(c.target.Modes, opts)
	})
}

func (c *controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.target.Registry.Pause(c.target.Subscription); err != nil {
		return err
	}

	c.paused = true

	return nil
}

func (c *controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.target.Registry.Resume(c.target.Subscription); err != nil {
		return err
	}

	c.paused = false

	return nil
}

// TogglePause flips the delivery state and returns whether the view is now paused
func (c *controller) TogglePause() (bool, error) {
	if c.Paused() {
		return false, c.Resume()
	}

	return true, c.Pause()
}

func (c *controller) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.paused
}

// Clear empties the shared history
func (c *controller) Clear() {
	if c.target.Clear != nil {
		c.target.Clear()
	}
}

// Search queries the stored history with the filter in effect
func (c *controller) Search(newestFirst bool, maxResults int) []entry.Entry {
	order := store.OldestFirst
	if newestFirst {
		order = store.NewestFirst
	}

	return c.target.Registry.Search(c.Spec(), registry.SearchOptions{Order: order, MaxResults: maxResults})
}

// update builds the next filter and installs it only when valid
func (c *controller) update(next func(s *filter.Spec) (*filter.Spec, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	spec, err := next(c.spec)
	if err != nil {
		return err
	}

	if err := c.target.Registry.UpdateFilter(c.target.Subscription, spec); err != nil {
		return err
	}

	c.spec = spec

	return nil
}
