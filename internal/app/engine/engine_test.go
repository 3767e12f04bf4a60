package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"logscope/internal/app/bus"
	"logscope/internal/app/entry"
	"logscope/internal/app/errors"
	"logscope/internal/app/filter"
	"logscope/internal/app/parser"
	"logscope/internal/app/registry"
	"logscope/internal/app/stats"
	"logscope/internal/app/store"
	"logscope/internal/app/tailer"
	"logscope/internal/config"
	"logscope/internal/config/logger"
)

const waitTimeout = 3 * time.Second

type sink struct {
	mu      sync.Mutex
	entries []entry.Entry
}

func (s *sink) receive(e entry.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, e)
}

func (s *sink) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Message
	}

	return out
}

func (s *sink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Sources.Dir = t.TempDir()
	cfg.Sources.Pattern = ""
	cfg.Sources.Files = []config.SourceFile{
		{Name: "core.log", Source: "core"},
		{Name: "speech_synthesis.log", Source: "speech_synthesis"},
	}
	cfg.Tail.Start = config.StartFromStart
	cfg.Tail.PollInterval = 20 * time.Millisecond
	cfg.Tail.RetryBackoff = 20 * time.Millisecond
	cfg.Tail.MaxBackoff = 80 * time.Millisecond
	cfg.Engine.ShutdownTimeout = 2 * time.Second

	return cfg
}

func newTestEngine(t *testing.T, cfg *config.Config) Engine {
	t.Helper()

	log := logger.NewLoggerWithOutput(cfg, io.Discard)
	b := bus.New(nil)
	t.Cleanup(b.Close)

	tl, err := tailer.NewTailer(cfg, b, log)
	require.NoError(t, err)

	modes, err := filter.NewModes(cfg)
	require.NoError(t, err)

	st := store.NewStore(cfg)

	return NewEngine(Params{
		Config:   cfg,
		Tailer:   tl,
		Parser:   parser.NewParser(cfg),
		Store:    st,
		Registry: registry.NewRegistry(cfg, st, log),
		Stats:    stats.NewCollector(cfg),
		Sampler:  stats.NewSampler(),
		Bus:      b,
		Modes:    modes,
		Logger:   log,
	})
}

func startEngine(t *testing.T, cfg *config.Config) Engine {
	t.Helper()

	e := newTestEngine(t, cfg)
	require.NoError(t, e.Start(context.Background()))

	t.Cleanup(func() {
		_ = e.Stop(context.Background())
	})

	return e
}

func record(level, source, message string) string {
	return fmt.Sprintf("[2025-09-15 17:01:16,643 UTC] [%s] [%s] [main] %s\n", level, source, message)
}

func appendLines(t *testing.T, path string, lines ...string) {
	t.Helper()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o600)
	require.NoError(t, err)

	for _, line := range lines {
		_, err = f.WriteString(line)
		require.NoError(t, err)
	}

	require.NoError(t, f.Close())
}

func Test_Engine_StartStop(t *testing.T) {
	cfg := testConfig(t)
	e := newTestEngine(t, cfg)

	assert.ErrorIs(t, e.Stop(context.Background()), errors.ErrEngineNotStarted)

	require.NoError(t, e.Start(context.Background()))
	assert.ErrorIs(t, e.Start(context.Background()), errors.ErrEngineAlreadyStarted)

	require.NoError(t, e.Stop(context.Background()))
	assert.NoError(t, e.Stop(context.Background()), "second stop waits for the first")

	select {
	case <-e.Done():
	default:
		t.Fatal("Done not closed after Stop")
	}
}

func Test_Engine_Pipeline(t *testing.T) {
	cfg := testConfig(t)
	e := startEngine(t, cfg)

	spec, err := e.NewSpec(filter.Options{Levels: []string{"ERROR", "CRITICAL"}})
	require.NoError(t, err)

	var got sink

	_, err = e.Subscribe(spec, got.receive)
	require.NoError(t, err)

	appendLines(t, filepath.Join(cfg.Sources.Dir, "core.log"),
		record("INFO", "core", "boot"),
		record("ERROR", "core", "motor fault"),
		"not a structured line\n",
		record("CRITICAL", "core", "battery low"),
	)

	require.Eventually(t, func() bool { return got.len() == 2 }, waitTimeout, 5*time.Millisecond)
	assert.Equal(t, []string{"motor fault", "battery low"}, got.messages())

	require.Eventually(t, func() bool { return e.Stats().Total == 4 }, waitTimeout, 5*time.Millisecond)

	snap := e.Stats()
	assert.Equal(t, uint64(1), snap.Unparsed)
	assert.Equal(t, uint64(4), snap.PerSource["core"])
	assert.Equal(t, uint64(1), snap.PerLevel[entry.Error])
	assert.Equal(t, 4, snap.Buffered)
	assert.Equal(t, cfg.Buffer.Capacity, snap.Capacity)
	assert.Equal(t, 1, snap.Subscriptions)

	all := e.Search(nil, registry.SearchOptions{})
	require.Len(t, all, 4)
	assert.True(t, all[2].Unparsed)
	assert.Equal(t, "core", all[2].Source, "unparsed lines take the source of their file")
	assert.Equal(t, "core.log", all[2].File)
}

func Test_Engine_SourceStatusInStats(t *testing.T) {
	cfg := testConfig(t)
	appendLines(t, filepath.Join(cfg.Sources.Dir, "core.log"), record("INFO", "core", "hello"))

	e := startEngine(t, cfg)

	require.Eventually(t, func() bool {
		statuses := map[string]bus.Status{}
		for _, s := range e.Stats().Sources {
			statuses[s.Source] = s.Status
		}

		return statuses["core"] == bus.StatusOpened && statuses["speech_synthesis"] == bus.StatusWaiting
	}, waitTimeout, 5*time.Millisecond)

	assert.Equal(t, []string{"core", "speech_synthesis"}, e.Sources())
}

func Test_Engine_DiscoveredSourceIsKnown(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sources.Files = nil
	cfg.Sources.Pattern = "*.log"

	e := startEngine(t, cfg)

	_, err := e.NewSpec(filter.Options{Sources: []string{"navigation"}})
	require.ErrorIs(t, err, errors.ErrUnknownSource)

	appendLines(t, filepath.Join(cfg.Sources.Dir, "navigation.log"), record("INFO", "navigation", "path clear"))

	assert.Eventually(t, func() bool {
		_, err := e.NewSpec(filter.Options{Sources: []string{"navigation"}})
		return err == nil
	}, waitTimeout, 10*time.Millisecond)
}

func Test_Engine_DialogueMode(t *testing.T) {
	cfg := testConfig(t)
	e := startEngine(t, cfg)

	spec, err := e.NewSpec(filter.Options{Mode: "dialogue"})
	require.NoError(t, err)

	var got sink

	_, err = e.Subscribe(spec, got.receive)
	require.NoError(t, err)

	appendLines(t, filepath.Join(cfg.Sources.Dir, "speech_synthesis.log"), record("INFO", "speech_synthesis", "Processing TTS"))
	appendLines(t, filepath.Join(cfg.Sources.Dir, "core.log"),
		record("INFO", "core", "idle"),
		record("INFO", "core", "Whisper model loaded"),
	)

	require.Eventually(t, func() bool { return got.len() == 2 }, waitTimeout, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	assert.ElementsMatch(t, []string{"Processing TTS", "Whisper model loaded"}, got.messages())
}

func Test_Engine_Control(t *testing.T) {
	cfg := testConfig(t)
	e := startEngine(t, cfg)

	var got sink

	sub, err := e.Subscribe(nil, got.receive)
	require.NoError(t, err)

	c, err := e.Control(sub)
	require.NoError(t, err)

	require.NoError(t, c.SetText("fault"))
	assert.ErrorIs(t, c.ToggleSource("elevator"), errors.ErrUnknownSource)
	assert.Equal(t, "fault", sub.Spec().Text())

	appendLines(t, filepath.Join(cfg.Sources.Dir, "core.log"),
		record("INFO", "core", "ok"),
		record("ERROR", "core", "motor fault"),
	)

	require.Eventually(t, func() bool { return got.len() == 1 }, waitTimeout, 5*time.Millisecond)

	require.NoError(t, c.Pause())
	appendLines(t, filepath.Join(cfg.Sources.Dir, "core.log"), record("WARNING", "core", "second fault"))
	require.Eventually(t, func() bool { return e.Stats().Total == 3 }, waitTimeout, 5*time.Millisecond)
	assert.Equal(t, 1, got.len())

	require.NoError(t, c.Resume())
	require.Eventually(t, func() bool { return got.len() == 2 }, waitTimeout, 5*time.Millisecond)

	c.Clear()
	assert.Equal(t, 0, e.Stats().Buffered)
	assert.Equal(t, uint64(0), e.Stats().Total)
	assert.Empty(t, c.Search(false, 0))
}

func Test_Engine_Clear(t *testing.T) {
	t.Run("before start", func(t *testing.T) {
		cfg := testConfig(t)
		e := newTestEngine(t, cfg)

		e.Clear()
		assert.Equal(t, 0, e.Stats().Buffered)
	})

	t.Run("while idle the consumer clears", func(t *testing.T) {
		cfg := testConfig(t)
		appendLines(t, filepath.Join(cfg.Sources.Dir, "core.log"),
			record("INFO", "core", "one"),
			record("INFO", "core", "two"),
		)

		e := startEngine(t, cfg)
		require.NoError(t, e.WaitIdle(context.Background(), 100*time.Millisecond))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events := e.Events(ctx)

		done := make(chan struct{})

		go func() {
			e.Clear()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(waitTimeout):
			t.Fatal("Clear did not return while the engine was idle")
		}

		assert.Equal(t, 0, e.Stats().Buffered)
		assert.Empty(t, e.Search(nil, registry.SearchOptions{}))

		require.Eventually(t, func() bool {
			select {
			case msg := <-events:
				cleared, ok := msg.Data.(bus.BufferCleared)
				return ok && cleared.Removed == 2
			default:
				return false
			}
		}, waitTimeout, 5*time.Millisecond)

		appendLines(t, filepath.Join(cfg.Sources.Dir, "core.log"), record("INFO", "core", "three"))
		require.Eventually(t, func() bool { return e.Stats().Buffered == 1 }, waitTimeout, 5*time.Millisecond)
	})

	t.Run("after stop", func(t *testing.T) {
		cfg := testConfig(t)
		appendLines(t, filepath.Join(cfg.Sources.Dir, "core.log"), record("INFO", "core", "one"))

		e := newTestEngine(t, cfg)
		require.NoError(t, e.Start(context.Background()))
		require.NoError(t, e.WaitIdle(context.Background(), 100*time.Millisecond))
		require.NoError(t, e.Stop(context.Background()))

		e.Clear()
		assert.Equal(t, 0, e.Stats().Buffered)
	})
}

func Test_Engine_Replay(t *testing.T) {
	cfg := testConfig(t)
	appendLines(t, filepath.Join(cfg.Sources.Dir, "core.log"),
		record("INFO", "core", "one"),
		record("INFO", "core", "two"),
		record("INFO", "core", "three"),
	)

	e := startEngine(t, cfg)
	require.NoError(t, e.WaitIdle(context.Background(), 100*time.Millisecond))

	var got sink

	sub, err := e.Subscribe(nil, got.receive)
	require.NoError(t, err)

	assert.Equal(t, 2, e.Replay(sub, 2))

	appendLines(t, filepath.Join(cfg.Sources.Dir, "core.log"), record("INFO", "core", "four"))

	require.Eventually(t, func() bool { return got.len() == 3 }, waitTimeout, 5*time.Millisecond)
	assert.Equal(t, []string{"two", "three", "four"}, got.messages())
}

func Test_Engine_StopDrainsIntoStore(t *testing.T) {
	cfg := testConfig(t)

	lines := make([]string, 0, 200)
	for i := range 200 {
		lines = append(lines, record("INFO", "core", fmt.Sprintf("m%d", i)))
	}

	appendLines(t, filepath.Join(cfg.Sources.Dir, "core.log"), lines...)

	e := newTestEngine(t, cfg)

	var got sink

	_, err := e.Subscribe(nil, got.receive)
	require.NoError(t, err)

	require.NoError(t, e.Start(context.Background()))
	require.NoError(t, e.WaitIdle(context.Background(), 100*time.Millisecond))
	require.NoError(t, e.Stop(context.Background()))

	assert.Equal(t, 200, got.len(), "active subscriptions are flushed on stop")
	assert.Len(t, e.Search(nil, registry.SearchOptions{}), 200)
}

func Test_Engine_StopTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)

	cfg := testConfig(t)
	cfg.Engine.ShutdownTimeout = 50 * time.Millisecond

	mockReg := registry.NewMockRegistry(ctrl)
	log := logger.NewLoggerWithOutput(cfg, io.Discard)

	tl, err := tailer.NewTailer(cfg, nil, log)
	require.NoError(t, err)

	e := NewEngine(Params{
		Config:   cfg,
		Tailer:   tl,
		Parser:   parser.NewParser(cfg),
		Store:    store.NewStore(cfg),
		Registry: mockReg,
		Stats:    stats.NewCollector(cfg),
		Logger:   log,
	})

	mockReg.EXPECT().Close(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		<-ctx.Done()
		return errors.ErrShutdownTimeout
	})

	require.NoError(t, e.Start(context.Background()))

	started := time.Now()
	err = e.Stop(context.Background())

	assert.ErrorIs(t, err, errors.ErrShutdownTimeout)
	assert.Less(t, time.Since(started), time.Second)
}

func Test_Engine_WaitIdle_Cancelled(t *testing.T) {
	cfg := testConfig(t)
	e := startEngine(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, e.WaitIdle(ctx, time.Hour), context.Canceled)
}
