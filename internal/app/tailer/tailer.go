package tailer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"logscope/internal/app/bus"
	"logscope/internal/app/errors"
	"logscope/internal/config"
	"logscope/internal/config/logger"
)

const hiddenFiles = ".*"

// Line is one complete raw line read from a tailed file
type Line struct {
	Source string
	File   string
	Text   string
}

// Options configures which files are tailed and how
type Options struct {
	Dir          string
	Files        []config.SourceFile
	Pattern      string
	FromStart    bool
	PollInterval time.Duration
	RetryBackoff time.Duration
	MaxBackoff   time.Duration
}

// OptionsFromConfig builds tailer options from application config
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Dir:          cfg.Sources.Dir,
		Files:        cfg.Sources.Files,
		Pattern:      cfg.Sources.Pattern,
		FromStart:    cfg.Tail.Start == config.StartFromStart,
		PollInterval: cfg.Tail.PollInterval,
		RetryBackoff: cfg.Tail.RetryBackoff,
		MaxBackoff:   cfg.Tail.MaxBackoff,
	}
}

// Tailer follows every configured and discovered file in a directory
type Tailer interface {
	Run(ctx context.Context, emit func(Line)) error
	Sources() []string
}

// manager implements the Tailer interface with one follower per file
type manager struct {
	opts      Options
	matcher   Matcher
	bus       bus.Bus
	log       logger.Logger
	mu        sync.RWMutex
	followers map[string]*follower
	order     []string
}

// NewTailer creates a tailer from application config
func NewTailer(cfg *config.Config, b bus.Bus, log logger.Logger) (Tailer, error) {
	return New(OptionsFromConfig(cfg), b, log)
}

// New creates a tailer. Missing intervals fall back to the defaults
func New(opts Options, b bus.Bus, log logger.Logger) (Tailer, error) {
	if opts.PollInterval <= 0 {
		opts.PollInterval = config.DefaultPollInterval
	}

	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = config.DefaultRetryBackoff
	}

	if opts.MaxBackoff < opts.RetryBackoff {
		opts.MaxBackoff = max(config.DefaultMaxBackoff, opts.RetryBackoff)
	}

	if b == nil {
		b = bus.NoOp()
	}

	m, err := NewMatcher(opts.Pattern, []string{hiddenFiles})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidGlobPattern, err)
	}

	return &manager{
		opts:      opts,
		matcher:   m,
		bus:       b,
		log:       log.WithComponent("TAILER"),
		followers: make(map[string]*follower),
	}, nil
}

// Run tails files until ctx is done. Followers never return errors; per-file problems are
// reported as source status events
func (m *manager) Run(ctx context.Context, emit func(Line)) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, f := range m.opts.Files {
		m.add(gctx, g, f.Name, f.Source, m.opts.FromStart, emit)
	}

	m.discover(gctx, g, m.opts.FromStart, emit)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		m.log.Warn().Err(err).Msg("Failed to create file watcher, falling back to polling")
	}

	g.Go(func() error {
		return m.dispatch(gctx, fsw, g, emit)
	})

	return g.Wait()
}

// Sources returns the source names of all tailed files in the order they were added
func (m *manager) Sources() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool, len(m.order))
	out := make([]string, 0, len(m.order))

	for _, name := range m.order {
		source := m.followers[name].source
		if !seen[source] {
			seen[source] = true
			out = append(out, source)
		}
	}

	return out
}

// dispatch routes fsnotify events to followers and discovers new files
func (m *manager) dispatch(ctx context.Context, fsw *fsnotify.Watcher, g *errgroup.Group, emit func(Line)) error {
	var (
		events  <-chan fsnotify.Event
		errs    <-chan error
		watched bool
	)

	if fsw != nil {
		defer fsw.Close()

		events = fsw.Events
		errs = fsw.Errors
		watched = m.watch(fsw)
	}

	ticker := time.NewTicker(m.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}

			m.handleEvent(ctx, g, event, emit)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}

			m.log.Error().Err(err).Msg("Watcher error")
		case <-ticker.C:
			if fsw != nil && !watched {
				watched = m.watch(fsw)
			}

			m.discover(ctx, g, true, emit)
		}
	}
}

// watch adds the source directory to the watcher; the directory may not exist yet
func (m *manager) watch(fsw *fsnotify.Watcher) bool {
	if err := fsw.Add(m.opts.Dir); err != nil {
		m.log.Debug().Err(err).Msgf("%s: %s", errors.ErrFailedToWatchDir, m.opts.Dir)
		return false
	}

	m.log.Debug().Msgf("Watching directory %s", m.opts.Dir)

	return true
}

func (m *manager) handleEvent(ctx context.Context, g *errgroup.Group, event fsnotify.Event, emit func(Line)) {
	name := filepath.Base(event.Name)

	m.mu.RLock()
	f, tracked := m.followers[name]
	m.mu.RUnlock()

	if tracked {
		f.notify()
		return
	}

	if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
		if m.matcher.Match(name) {
			m.add(ctx, g, name, config.SourceNameFromFile(name), true, emit)
		}
	}
}

// discover starts followers for files matching the pattern that are not tracked yet
func (m *manager) discover(ctx context.Context, g *errgroup.Group, fromStart bool, emit func(Line)) {
	if m.opts.Pattern == "" {
		return
	}

	dirEntries, err := os.ReadDir(m.opts.Dir)
	if err != nil {
		return
	}

	names := make([]string, 0, len(dirEntries))

	for _, de := range dirEntries {
		if de.IsDir() || !m.matcher.Match(de.Name()) {
			continue
		}

		names = append(names, de.Name())
	}

	sort.Strings(names)

	for _, name := range names {
		m.add(ctx, g, name, config.SourceNameFromFile(name), fromStart, emit)
	}
}

// add starts a follower for name unless one already exists
func (m *manager) add(ctx context.Context, g *errgroup.Group, name, source string, fromStart bool, emit func(Line)) {
	m.mu.Lock()

	if _, exists := m.followers[name]; exists {
		m.mu.Unlock()
		return
	}

	f := newFollower(name, source, filepath.Join(m.opts.Dir, name), fromStart, m.opts, m.bus, m.log)
	m.followers[name] = f
	m.order = append(m.order, name)

	m.mu.Unlock()

	m.bus.Publish(bus.Message{
		Type: bus.EventSourceAdded,
		Data: bus.SourceAdded{Source: source, File: name},
	})

	m.log.Debug().Msgf("Tailing '%s' as source '%s'", name, source)

	g.Go(func() error {
		return f.run(ctx, emit)
	})
}
