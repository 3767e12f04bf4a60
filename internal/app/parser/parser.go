package parser

import (
	"sort"
	"strings"
	"time"

	"logscope/internal/app/entry"
	"logscope/internal/config"
)

// TimestampLayout is the layout of the timestamp part of the first bracket field
const TimestampLayout = "2006-01-02 15:04:05,000"

// Parser converts raw log lines into entries. Parsing is total: every line yields an entry
type Parser interface {
	Parse(raw string) entry.Entry
	ParseFrom(file, raw string) entry.Entry
}

// parser implements the Parser interface for the
// "[YYYY-MM-DD HH:MM:SS,mmm ZONE] [LEVEL] [SOURCE] [COMPONENT] MESSAGE" format
type parser struct {
	zones map[string]*time.Location
	now   func() time.Time
}

// NewParser creates a parser using the zone table from configuration
func NewParser(cfg *config.Config) Parser {
	return New(cfg.Parser.Zones, time.Now)
}

// New creates a parser with an explicit zone table (abbreviation to offset seconds) and clock
func New(zones map[string]int, now func() time.Time) Parser {
	abbrs := make([]string, 0, len(zones))
	for abbr := range zones {
		abbrs = append(abbrs, abbr)
	}

	// keys differing only in case resolve the same way on every run
	sort.Strings(abbrs)

	locations := make(map[string]*time.Location, len(zones))
	for _, abbr := range abbrs {
		name := strings.ToUpper(strings.TrimSpace(abbr))
		locations[name] = time.FixedZone(name, zones[abbr])
	}

	if now == nil {
		now = time.Now
	}

	return &parser{zones: locations, now: now}
}

// Parse parses a line with no known origin file
func (p *parser) Parse(raw string) entry.Entry {
	return p.ParseFrom("", raw)
}

// ParseFrom parses a line read from the given origin. Fields are extracted left to right;
// the first mismatch stops extraction and marks the entry unparsed
func (p *parser) ParseFrom(file, raw string) entry.Entry {
	line := strings.TrimRight(raw, "\r\n")

	e := entry.Entry{
		RawLine: line,
		File:    file,
	}

	field, pos, ok := nextField(line, 0)
	if !ok {
		return p.unparsed(e)
	}

	if ts, ok := p.parseTimestamp(field); ok {
		e.Timestamp = ts
	} else {
		e.Timestamp = p.now()
		e.SyntheticTime = true
	}

	field, pos, ok = nextField(line, pos)
	if !ok {
		return p.unparsed(e)
	}

	level, ok := entry.ParseLevel(field)
	if !ok {
		return p.unparsed(e)
	}

	e.Level = level

	field, pos, ok = nextField(line, pos)
	if !ok || field == "" {
		return p.unparsed(e)
	}

	e.Source = field

	field, pos, ok = nextField(line, pos)
	if !ok || field == "" {
		return p.unparsed(e)
	}

	e.Component = field

	rest := line[pos:]
	if strings.HasPrefix(rest, " ") {
		rest = rest[1:]
	}

	e.Message = rest

	return e
}

// unparsed finalises an entry whose extraction stopped early
func (p *parser) unparsed(e entry.Entry) entry.Entry {
	e.Unparsed = true
	e.Message = e.RawLine

	if e.Timestamp.IsZero() {
		e.Timestamp = p.now()
		e.SyntheticTime = true
	}

	if e.Source == "" {
		e.Source = e.File
	}

	return e
}

// parseTimestamp parses "YYYY-MM-DD HH:MM:SS,mmm ZONE" using the zone table
func (p *parser) parseTimestamp(field string) (time.Time, bool) {
	idx := strings.LastIndexByte(field, ' ')
	if idx < 0 {
		return time.Time{}, false
	}

	loc, ok := p.zones[strings.ToUpper(field[idx+1:])]
	if !ok {
		return time.Time{}, false
	}

	ts, err := time.ParseInLocation(TimestampLayout, field[:idx], loc)
	if err != nil {
		return time.Time{}, false
	}

	return ts, true
}

// nextField reads a "[value]" group starting at pos, skipping separating blanks
// before every group except the first
func nextField(line string, pos int) (string, int, bool) {
	if pos > 0 {
		for pos < len(line) && (line[pos] == ' ' || line[pos] == '\t') {
			pos++
		}
	}

	if pos >= len(line) || line[pos] != '[' {
		return "", pos, false
	}

	end := strings.IndexByte(line[pos+1:], ']')
	if end < 0 {
		return "", pos, false
	}

	value := line[pos+1 : pos+1+end]

	return value, pos + end + 2, true
}
