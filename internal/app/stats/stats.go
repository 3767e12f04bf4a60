package stats

import (
	"sort"
	"sync"
	"time"

	"logscope/internal/app/bus"
	"logscope/internal/app/entry"
	"logscope/internal/config"
)

// SourceState is the latest status reported for a tailed source
type SourceState struct {
	Source  string
	File    string
	Status  bus.Status
	Error   string
	Updated time.Time
}

// Snapshot is a point-in-time readout of ingestion counters
type Snapshot struct {
	Uptime        time.Duration
	Total         uint64
	EPS           float64
	Unparsed      uint64
	QueueDropped  uint64
	BacklogDrops  uint64
	Evicted       uint64
	Buffered      int
	Capacity      int
	PerSource     map[string]uint64
	PerLevel      map[entry.Level]uint64
	Sources       []SourceState
	Process       ProcessStats
	Subscriptions int
}

// Collector accumulates ingestion counters. Record is called from the consumer worker only
type Collector interface {
	Record(e entry.Entry)
	SetSourceStatus(status bus.SourceStatus)
	Snapshot() Snapshot
	Reset()
}

type collector struct {
	mu        sync.RWMutex
	now       func() time.Time
	started   time.Time
	window    time.Duration
	buckets   []uint64
	stamps    []int64
	total     uint64
	unparsed  uint64
	perSource map[string]uint64
	perLevel  map[entry.Level]uint64
	sources   map[string]SourceState
}

// NewCollector creates a collector with the configured EPS window
func NewCollector(cfg *config.Config) Collector {
	return New(cfg.Stats.Window, time.Now)
}

// New creates a collector averaging entries per second over window, using now as the clock
func New(window time.Duration, now func() time.Time) Collector {
	if window < time.Second {
		window = config.DefaultStatsWindow
	}

	size := int(window / time.Second)

	return &collector{
		now:       now,
		started:   now(),
		window:    window,
		buckets:   make([]uint64, size),
		stamps:    make([]int64, size),
		perSource: make(map[string]uint64),
		perLevel:  make(map[entry.Level]uint64),
		sources:   make(map[string]SourceState),
	}
}

// Record counts one stored entry
func (c *collector) Record(e entry.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++
	c.perSource[e.Source]++
	c.perLevel[e.Level]++

	if e.Unparsed {
		c.unparsed++
	}

	sec := c.now().Unix()
	idx := int(sec % int64(len(c.buckets)))

	if c.stamps[idx] != sec {
		c.stamps[idx] = sec
		c.buckets[idx] = 0
	}

	c.buckets[idx]++
}

// SetSourceStatus records the latest status event for a source
func (c *collector) SetSourceStatus(status bus.SourceStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := SourceState{
		Source:  status.Source,
		File:    status.File,
		Status:  status.Status,
		Updated: c.now(),
	}

	if status.Error != nil {
		state.Error = status.Error.Error()
	}

	c.sources[status.Source] = state
}

// Snapshot returns a copy of the counters
func (c *collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	sec := now.Unix()
	size := int64(len(c.buckets))

	var recent uint64

	for i, stamp := range c.stamps {
		if stamp > sec-size && stamp <= sec {
			recent += c.buckets[i]
		}
	}

	snap := Snapshot{
		Uptime:    now.Sub(c.started),
		Total:     c.total,
		EPS:       float64(recent) / c.window.Seconds(),
		Unparsed:  c.unparsed,
		PerSource: make(map[string]uint64, len(c.perSource)),
		PerLevel:  make(map[entry.Level]uint64, len(c.perLevel)),
		Sources:   make([]SourceState, 0, len(c.sources)),
	}

	for k, v := range c.perSource {
		snap.PerSource[k] = v
	}

	for k, v := range c.perLevel {
		snap.PerLevel[k] = v
	}

	for _, state := range c.sources {
		snap.Sources = append(snap.Sources, state)
	}

	sort.Slice(snap.Sources, func(i, j int) bool {
		return snap.Sources[i].Source < snap.Sources[j].Source
	})

	return snap
}

// Reset zeroes entry counters. Source statuses are kept
func (c *collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total = 0
	c.unparsed = 0
	c.perSource = make(map[string]uint64)
	c.perLevel = make(map[entry.Level]uint64)

	for i := range c.buckets {
		c.buckets[i] = 0
		c.stamps[i] = 0
	}
}
