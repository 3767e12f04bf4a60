package tailer

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logscope/internal/app/bus"
	"logscope/internal/app/errors"
	"logscope/internal/config"
	"logscope/internal/config/logger"
)

const (
	testPoll    = 20 * time.Millisecond
	waitTimeout = 3 * time.Second
)

type lines struct {
	mu    sync.Mutex
	items []Line
}

func (l *lines) emit(line Line) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = append(l.items, line)
}

func (l *lines) texts() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, len(l.items))
	for i, item := range l.items {
		out[i] = item.Text
	}

	return out
}

func (l *lines) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.items)
}

type statuses struct {
	mu   sync.Mutex
	seen []bus.SourceStatus
}

func (s *statuses) has(source string, status bus.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range s.seen {
		if st.Source == source && st.Status == status {
			return true
		}
	}

	return false
}

func (s *statuses) count(source string, status bus.Status) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0

	for _, st := range s.seen {
		if st.Source == source && st.Status == status {
			n++
		}
	}

	return n
}

func testLogger() logger.Logger {
	cfg := config.DefaultConfig()
	cfg.Logging.Level = "debug"

	return logger.NewLoggerWithOutput(cfg, io.Discard)
}

type harness struct {
	dir      string
	lines    *lines
	statuses *statuses
	tailer   Tailer
	cancel   context.CancelFunc
	done     chan error
}

func startTailer(t *testing.T, opts Options) *harness {
	t.Helper()

	if opts.Dir == "" {
		opts.Dir = t.TempDir()
	}

	opts.PollInterval = testPoll
	opts.RetryBackoff = testPoll
	opts.MaxBackoff = 4 * testPoll

	b := bus.New(nil)
	t.Cleanup(b.Close)

	ctx, cancel := context.WithCancel(context.Background())

	h := &harness{
		dir:      opts.Dir,
		lines:    &lines{},
		statuses: &statuses{},
		cancel:   cancel,
		done:     make(chan error, 1),
	}

	events := b.Subscribe(ctx)

	go func() {
		for msg := range events {
			if st, ok := msg.Data.(bus.SourceStatus); ok {
				h.statuses.mu.Lock()
				h.statuses.seen = append(h.statuses.seen, st)
				h.statuses.mu.Unlock()
			}
		}
	}()

	tl, err := New(opts, b, testLogger())
	require.NoError(t, err)

	h.tailer = tl

	go func() {
		h.done <- tl.Run(ctx, h.lines.emit)
	}()

	t.Cleanup(h.stop)

	return h
}

func (h *harness) stop() {
	h.cancel()

	select {
	case <-h.done:
	case <-time.After(waitTimeout):
	}
}

func (h *harness) path(name string) string {
	return filepath.Join(h.dir, name)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func appendFile(t *testing.T, path, content string) {
	t.Helper()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o600)
	require.NoError(t, err)

	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func files(names ...string) []config.SourceFile {
	out := make([]config.SourceFile, len(names))
	for i, name := range names {
		out[i] = config.SourceFile{Name: name, Source: config.SourceNameFromFile(name)}
	}

	return out
}

func Test_New_InvalidPattern(t *testing.T) {
	tl, err := New(Options{Dir: t.TempDir(), Pattern: "[bad"}, nil, testLogger())
	assert.Nil(t, tl)
	assert.ErrorIs(t, err, errors.ErrInvalidGlobPattern)
}

func Test_OptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tail.Start = config.StartFromStart
	cfg.Sources.Files = files("core.log")

	opts := OptionsFromConfig(cfg)
	assert.True(t, opts.FromStart)
	assert.Equal(t, cfg.Sources.Dir, opts.Dir)
	assert.Equal(t, cfg.Tail.PollInterval, opts.PollInterval)
	assert.Len(t, opts.Files, 1)
}

func Test_Run_TailFromEnd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "core.log"), "old 1\nold 2\n")

	h := startTailer(t, Options{Dir: dir, Files: files("core.log")})

	require.Eventually(t, func() bool { return h.statuses.has("core", bus.StatusOpened) }, waitTimeout, 5*time.Millisecond)

	appendFile(t, h.path("core.log"), "new 1\nnew 2\n")

	require.Eventually(t, func() bool { return h.lines.len() == 2 }, waitTimeout, 5*time.Millisecond)
	assert.Equal(t, []string{"new 1", "new 2"}, h.lines.texts())
}

func Test_Run_ReplayFromStart(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "core.log"), "a\nb\nc\n")

	h := startTailer(t, Options{Dir: dir, Files: files("core.log"), FromStart: true})

	require.Eventually(t, func() bool { return h.lines.len() == 3 }, waitTimeout, 5*time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, h.lines.texts())

	h.lines.mu.Lock()
	assert.Equal(t, "core", h.lines.items[0].Source)
	assert.Equal(t, "core.log", h.lines.items[0].File)
	h.lines.mu.Unlock()
}

func Test_Run_PartialLineHeldUntilNewline(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "core.log"), "")

	h := startTailer(t, Options{Dir: dir, Files: files("core.log"), FromStart: true})

	appendFile(t, h.path("core.log"), "hello ")
	time.Sleep(5 * testPoll)
	assert.Equal(t, 0, h.lines.len())

	appendFile(t, h.path("core.log"), "world\n")

	require.Eventually(t, func() bool { return h.lines.len() == 1 }, waitTimeout, 5*time.Millisecond)
	assert.Equal(t, []string{"hello world"}, h.lines.texts())
}

func Test_Run_TruncateToZeroResumesFromStart(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "core.log"), "one\ntwo\nthree\n")

	h := startTailer(t, Options{Dir: dir, Files: files("core.log"), FromStart: true})

	require.Eventually(t, func() bool { return h.lines.len() == 3 }, waitTimeout, 5*time.Millisecond)

	require.NoError(t, os.Truncate(h.path("core.log"), 0))
	require.Eventually(t, func() bool { return h.statuses.has("core", bus.StatusTruncated) }, waitTimeout, 5*time.Millisecond)

	appendFile(t, h.path("core.log"), "four\nfive\n")

	require.Eventually(t, func() bool { return h.lines.len() == 5 }, waitTimeout, 5*time.Millisecond)
	time.Sleep(5 * testPoll)

	assert.Equal(t, []string{"one", "two", "three", "four", "five"}, h.lines.texts())
}

func Test_Run_Rotation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "core.log"), "")

	h := startTailer(t, Options{Dir: dir, Files: files("core.log"), FromStart: true})

	require.Eventually(t, func() bool { return h.statuses.has("core", bus.StatusOpened) }, waitTimeout, 5*time.Millisecond)

	appendFile(t, h.path("core.log"), "before\n")
	require.Eventually(t, func() bool { return h.lines.len() == 1 }, waitTimeout, 5*time.Millisecond)

	require.NoError(t, os.Rename(h.path("core.log"), h.path("core.log.1")))
	writeFile(t, h.path("core.log"), "after 1\nafter 2\n")

	require.Eventually(t, func() bool { return h.lines.len() == 3 }, waitTimeout, 5*time.Millisecond)
	time.Sleep(5 * testPoll)

	assert.Equal(t, []string{"before", "after 1", "after 2"}, h.lines.texts())
	assert.True(t, h.statuses.has("core", bus.StatusRotated) || h.statuses.has("core", bus.StatusWaiting))
}

func Test_Run_MissingFileIsAwaited(t *testing.T) {
	h := startTailer(t, Options{Files: files("navigation.log")})

	require.Eventually(t, func() bool { return h.statuses.has("navigation", bus.StatusWaiting) }, waitTimeout, 5*time.Millisecond)

	writeFile(t, h.path("navigation.log"), "first\nsecond\n")

	require.Eventually(t, func() bool { return h.lines.len() == 2 }, waitTimeout, 5*time.Millisecond)
	assert.Equal(t, []string{"first", "second"}, h.lines.texts(), "files appearing later are read from the start")
	assert.Equal(t, 1, h.statuses.count("navigation", bus.StatusWaiting))
}

func Test_Run_DiscoversNewFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "core.log"), "existing\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored\n")

	h := startTailer(t, Options{Dir: dir, Pattern: "*.log"})

	require.Eventually(t, func() bool { return len(h.tailer.Sources()) == 1 }, waitTimeout, 5*time.Millisecond)
	assert.Equal(t, []string{"core"}, h.tailer.Sources())

	writeFile(t, h.path("vision.log"), "seen 1\nseen 2\n")

	require.Eventually(t, func() bool { return h.lines.len() == 2 }, waitTimeout, 5*time.Millisecond)
	assert.Equal(t, []string{"seen 1", "seen 2"}, h.lines.texts())
	assert.Equal(t, []string{"core", "vision"}, h.tailer.Sources())
}

func Test_Run_MissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "later")

	h := startTailer(t, Options{Dir: dir, Files: files("core.log")})

	require.Eventually(t, func() bool { return h.statuses.has("core", bus.StatusWaiting) }, waitTimeout, 5*time.Millisecond)

	require.NoError(t, os.MkdirAll(dir, 0o755))
	writeFile(t, filepath.Join(dir, "core.log"), "hello\n")

	require.Eventually(t, func() bool { return h.lines.len() == 1 }, waitTimeout, 5*time.Millisecond)
}

func Test_Run_PermissionDeniedDegrades(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "core.log")
	writeFile(t, path, "secret\n")
	require.NoError(t, os.Chmod(path, 0o000))

	h := startTailer(t, Options{Dir: dir, Files: files("core.log"), FromStart: true})

	require.Eventually(t, func() bool { return h.statuses.has("core", bus.StatusDegraded) }, waitTimeout, 5*time.Millisecond)

	require.NoError(t, os.Chmod(path, 0o600))

	require.Eventually(t, func() bool { return h.lines.len() == 1 }, waitTimeout, 5*time.Millisecond)
	assert.Equal(t, []string{"secret"}, h.lines.texts())
}

func Test_Run_StopsOnCancel(t *testing.T) {
	h := startTailer(t, Options{Files: files("core.log")})

	h.cancel()

	select {
	case err := <-h.done:
		assert.NoError(t, err)
	case <-time.After(waitTimeout):
		t.Fatal("Run did not return after cancel")
	}
}

func Test_Follower_Degrade_Backoff(t *testing.T) {
	opts := Options{PollInterval: testPoll, RetryBackoff: 10 * time.Millisecond, MaxBackoff: 35 * time.Millisecond}
	f := newFollower("core.log", "core", "/nonexistent/core.log", false, opts, bus.NoOp(), testLogger())

	assert.Equal(t, 10*time.Millisecond, f.degrade(assert.AnError))
	assert.Equal(t, 20*time.Millisecond, f.degrade(assert.AnError))
	assert.Equal(t, 35*time.Millisecond, f.degrade(assert.AnError))
	assert.Equal(t, 35*time.Millisecond, f.degrade(assert.AnError))
	assert.Equal(t, bus.StatusDegraded, f.status)

	f.recover()
	assert.Equal(t, bus.StatusRecovered, f.status)
	assert.Equal(t, time.Duration(0), f.backoff)
}

func Test_Follower_Split(t *testing.T) {
	f := newFollower("core.log", "core", "", false, Options{}, bus.NoOp(), testLogger())

	var got lines

	f.split([]byte("a\nb"), got.emit)
	f.split([]byte("c\n\nd"), got.emit)

	assert.Equal(t, []string{"a", "bc", ""}, got.texts())
	assert.Equal(t, "d", string(f.partial))
}

func Test_Follower_RewrittenInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "core.log")
	writeFile(t, path, "one\ntwo\n")

	f := newFollower("core.log", "core", path, true, Options{PollInterval: testPoll}, bus.NoOp(), testLogger())
	t.Cleanup(f.close)

	var got lines

	f.step(got.emit)
	require.Equal(t, []string{"one", "two"}, got.texts())

	writeFile(t, path, "alpha\nbravo\ncharlie\n")
	f.step(got.emit)

	assert.Equal(t, []string{"one", "two", "alpha", "bravo", "charlie"}, got.texts())
	assert.Equal(t, bus.StatusTruncated, f.status)
}

func Test_Follower_AppendKeepsOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "core.log")
	writeFile(t, path, "one\ntwo\n")

	f := newFollower("core.log", "core", path, true, Options{PollInterval: testPoll}, bus.NoOp(), testLogger())
	t.Cleanup(f.close)

	var got lines

	f.step(got.emit)
	appendFile(t, path, "three\n")
	f.step(got.emit)
	f.step(got.emit)

	assert.Equal(t, []string{"one", "two", "three"}, got.texts())
	assert.False(t, f.rewritten())
}
