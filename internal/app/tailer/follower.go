package tailer

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"time"

	"logscope/internal/app/bus"
	"logscope/internal/app/errors"
	"logscope/internal/config"
	"logscope/internal/config/logger"
)

// follower tails a single file, tolerating truncation, rotation and absence
type follower struct {
	name         string
	source       string
	path         string
	fromStart    bool
	started      bool
	wake         chan struct{}
	file         *os.File
	info         os.FileInfo
	offset       int64
	partial      []byte
	buf          []byte
	mark         []byte
	scratch      []byte
	status       bus.Status
	backoff      time.Duration
	pollInterval time.Duration
	retryBackoff time.Duration
	maxBackoff   time.Duration
	bus          bus.Bus
	log          logger.Logger
}

func newFollower(name, source, path string, fromStart bool, opts Options, b bus.Bus, log logger.Logger) *follower {
	return &follower{
		name:         name,
		source:       source,
		path:         path,
		fromStart:    fromStart,
		wake:         make(chan struct{}, 1),
		buf:          make([]byte, config.ReadChunkSize),
		mark:         make([]byte, 0, config.FingerprintSize),
		scratch:      make([]byte, config.FingerprintSize),
		pollInterval: opts.PollInterval,
		retryBackoff: opts.RetryBackoff,
		maxBackoff:   opts.MaxBackoff,
		bus:          b,
		log:          log,
	}
}

// notify wakes the follower without blocking the dispatcher
func (f *follower) notify() {
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

// run reads the file until ctx is done. Wake-ups come from notify or the poll timer
func (f *follower) run(ctx context.Context, emit func(Line)) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	defer f.close()

	for {
		select {
		case <-ctx.Done():
			f.setStatus(bus.StatusStopped, nil)
			return nil
		case <-f.wake:
		case <-timer.C:
		}

		delay := f.step(emit)

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}

		timer.Reset(delay)
	}
}

// step performs one open/check/read cycle and returns the delay before the next poll
func (f *follower) step(emit func(Line)) time.Duration {
	if f.file == nil {
		if err := f.open(); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				f.started = true
				f.setStatus(bus.StatusWaiting, nil)

				return f.pollInterval
			}

			return f.degrade(err)
		}
	}

	current, err := os.Stat(f.path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		f.drain(emit)
		f.close()
		f.setStatus(bus.StatusWaiting, nil)

		return f.pollInterval
	case err != nil:
		return f.degrade(err)
	case !os.SameFile(current, f.info):
		f.drain(emit)
		f.close()
		f.setStatus(bus.StatusRotated, nil)

		if err := f.open(); err != nil {
			return f.pollInterval
		}
	case current.Size() < f.offset || f.rewritten():
		f.log.Debug().Msgf("File '%s' truncated from %d to %d bytes", f.name, f.offset, current.Size())
		f.offset = 0
		f.partial = f.partial[:0]
		f.mark = f.mark[:0]
		f.setStatus(bus.StatusTruncated, nil)
	}

	if err := f.read(emit); err != nil {
		return f.degrade(err)
	}

	f.recover()

	return f.pollInterval
}

// open opens the file. Only the very first open of a file present at startup honors tail-from-end
func (f *follower) open() error {
	file, err := os.Open(f.path)
	if err != nil {
		return err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return err
	}

	f.file = file
	f.info = info
	f.offset = 0
	f.partial = f.partial[:0]

	if !f.started && !f.fromStart {
		f.offset = info.Size()
	}

	f.started = true
	f.remember()
	f.setStatus(bus.StatusOpened, nil)

	return nil
}

// read emits every complete line between the current offset and EOF
func (f *follower) read(emit func(Line)) error {
	start := f.offset

	for {
		n, err := f.file.ReadAt(f.buf, f.offset)
		if n > 0 {
			f.offset += int64(n)
			f.split(f.buf[:n], emit)
		}

		if err == io.EOF || (err == nil && n == 0) {
			if f.offset != start {
				f.remember()
			}

			return nil
		}

		if err != nil {
			return err
		}
	}
}

// remember keeps the bytes just before the offset so a file rewritten in place is recognised
func (f *follower) remember() {
	n := min(int64(cap(f.mark)), f.offset)
	f.mark = f.mark[:n]

	if n == 0 {
		return
	}

	if _, err := f.file.ReadAt(f.mark, f.offset-n); err != nil {
		f.mark = f.mark[:0]
	}
}

// rewritten reports whether the bytes before the offset changed since they were last read.
// It catches a truncation followed by a write that grows the file past the old offset
func (f *follower) rewritten() bool {
	if len(f.mark) == 0 {
		return false
	}

	current := f.scratch[:len(f.mark)]
	if _, err := f.file.ReadAt(current, f.offset-int64(len(f.mark))); err != nil {
		return false
	}

	return !bytes.Equal(current, f.mark)
}

// drain reads whatever the old handle still holds before it is closed, including a final partial line
func (f *follower) drain(emit func(Line)) {
	if f.file == nil {
		return
	}

	if err := f.read(emit); err != nil {
		f.log.Debug().Err(err).Msgf("Failed to drain '%s'", f.name)
	}

	if len(f.partial) > 0 {
		f.emit(f.partial, emit)
		f.partial = f.partial[:0]
	}
}

// split emits complete lines from chunk and keeps the trailing partial line
func (f *follower) split(chunk []byte, emit func(Line)) {
	for {
		idx := bytes.IndexByte(chunk, '\n')
		if idx < 0 {
			break
		}

		if len(f.partial) > 0 {
			f.partial = append(f.partial, chunk[:idx]...)
			f.emit(f.partial, emit)
			f.partial = f.partial[:0]
		} else {
			f.emit(chunk[:idx], emit)
		}

		chunk = chunk[idx+1:]
	}

	f.partial = append(f.partial, chunk...)

	if len(f.partial) >= config.MaxLineLength {
		f.emit(f.partial, emit)
		f.partial = f.partial[:0]
	}
}

func (f *follower) emit(line []byte, emit func(Line)) {
	emit(Line{Source: f.source, File: f.name, Text: string(line)})
}

// degrade marks the source degraded and returns the next bounded backoff delay
func (f *follower) degrade(err error) time.Duration {
	if f.backoff == 0 {
		f.backoff = f.retryBackoff
	} else {
		f.backoff *= 2
	}

	if f.backoff > f.maxBackoff {
		f.backoff = f.maxBackoff
	}

	if f.status != bus.StatusDegraded {
		f.log.Warn().Err(err).Msgf("Source '%s' degraded, retrying in %s", f.source, f.backoff)
	}

	f.setStatus(bus.StatusDegraded, err)

	return f.backoff
}

func (f *follower) recover() {
	if f.status == bus.StatusDegraded {
		f.log.Info().Msgf("Source '%s' recovered", f.source)
		f.setStatus(bus.StatusRecovered, nil)
	}

	f.backoff = 0
}

func (f *follower) close() {
	if f.file == nil {
		return
	}

	_ = f.file.Close()
	f.file = nil
	f.info = nil
}

// setStatus publishes a status change. Truncation and rotation are reported every time
func (f *follower) setStatus(status bus.Status, err error) {
	repeatable := status == bus.StatusTruncated || status == bus.StatusRotated
	if f.status == status && !repeatable {
		return
	}

	f.status = status

	f.bus.Publish(bus.Message{
		Type:     bus.EventSourceStatus,
		Data:     bus.SourceStatus{Source: f.source, File: f.name, Status: status, Error: err},
		Critical: status == bus.StatusDegraded,
	})
}
