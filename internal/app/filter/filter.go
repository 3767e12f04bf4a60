package filter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"logscope/internal/app/entry"
	"logscope/internal/app/errors"
)

// Options is the mutable description a Spec is built from
type Options struct {
	Levels        []string `json:"levels,omitempty"`
	Sources       []string `json:"sources,omitempty"`
	Text          string   `json:"text,omitempty"`
	Regex         bool     `json:"regex,omitempty"`
	CaseSensitive bool     `json:"case_sensitive,omitempty"`
	Mode          string   `json:"mode,omitempty"`
}

// Spec is an immutable, validated filter. An empty criterion matches everything in its dimension
type Spec struct {
	modes         *Modes
	levels        map[entry.Level]bool
	sources       map[string]bool
	text          string
	lowerText     string
	regex         bool
	caseSensitive bool
	pattern       *regexp.Regexp
	mode          Mode
}

// New validates options and builds a Spec. Invalid regexes and unknown level,
// source or mode names are rejected here so matching never fails
func New(modes *Modes, opts Options) (*Spec, error) {
	if modes == nil {
		modes = DefaultModes()
	}

	s := &Spec{
		modes:         modes,
		text:          opts.Text,
		regex:         opts.Regex,
		caseSensitive: opts.CaseSensitive,
	}

	if len(opts.Levels) > 0 {
		s.levels = make(map[entry.Level]bool, len(opts.Levels))

		for _, name := range opts.Levels {
			level, ok := entry.ParseLevel(name)
			if !ok {
				return nil, fmt.Errorf("%w: '%s'", errors.ErrUnknownLevel, name)
			}

			s.levels[level] = true
		}

		if len(s.levels) == len(entry.Levels) {
			s.levels = nil
		}
	}

	if len(opts.Sources) > 0 {
		s.sources = make(map[string]bool, len(opts.Sources))

		for _, source := range opts.Sources {
			source = strings.TrimSpace(source)
			if !modes.KnownSource(source) {
				return nil, fmt.Errorf("%w: '%s'", errors.ErrUnknownSource, source)
			}

			s.sources[source] = true
		}
	}

	if opts.Text != "" {
		if opts.Regex {
			expr := opts.Text
			if !opts.CaseSensitive {
				expr = "(?i)" + expr
			}

			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", errors.ErrInvalidRegexPattern, err)
			}

			s.pattern = re
		} else {
			s.lowerText = strings.ToLower(opts.Text)
		}
	}

	mode, err := ParseMode(opts.Mode)
	if err != nil {
		return nil, err
	}

	s.mode = mode

	return s, nil
}

// MatchAll returns a Spec with no criteria
func MatchAll(modes *Modes) *Spec {
	s, _ := New(modes, Options{})
	return s
}

// Matches reports whether an entry passes the spec
func Matches(e entry.Entry, s *Spec) bool {
	return s.Matches(e)
}

// Matches evaluates level AND source AND text, or level AND source AND (text OR mode)
// when a mode is active. Unset text does not take part in the OR
func (s *Spec) Matches(e entry.Entry) bool {
	if s == nil {
		return true
	}

	if len(s.levels) > 0 && !s.levels[e.Level] {
		return false
	}

	if len(s.sources) > 0 && !s.sources[e.Source] {
		return false
	}

	if s.mode == ModeNone {
		return s.text == "" || s.matchText(e)
	}

	if s.text != "" && s.matchText(e) {
		return true
	}

	return s.modes.Match(s.mode, e)
}

// matchText matches the search text against the message and the raw line
func (s *Spec) matchText(e entry.Entry) bool {
	if s.pattern != nil {
		return s.pattern.MatchString(e.Message) || s.pattern.MatchString(e.RawLine)
	}

	if s.caseSensitive {
		return strings.Contains(e.Message, s.text) || strings.Contains(e.RawLine, s.text)
	}

	return strings.Contains(strings.ToLower(e.Message), s.lowerText) ||
		strings.Contains(strings.ToLower(e.RawLine), s.lowerText)
}

// Options returns a copy of the options the spec was built from, in canonical order
func (s *Spec) Options() Options {
	return Options{
		Levels:        s.Levels(),
		Sources:       s.Sources(),
		Text:          s.text,
		Regex:         s.regex,
		CaseSensitive: s.caseSensitive,
		Mode:          string(s.mode),
	}
}

// Levels returns the allowed level names ordered by severity; empty means all
func (s *Spec) Levels() []string {
	out := make([]string, 0, len(s.levels))

	for _, level := range entry.Levels {
		if s.levels[level] {
			out = append(out, level.String())
		}
	}

	return out
}

// AllowsLevel reports whether the level dimension lets the level through
func (s *Spec) AllowsLevel(level entry.Level) bool {
	return len(s.levels) == 0 || s.levels[level]
}

// Sources returns the allowed sources sorted by name; empty means all
func (s *Spec) Sources() []string {
	out := make([]string, 0, len(s.sources))
	for source := range s.sources {
		out = append(out, source)
	}

	sort.Strings(out)

	return out
}

// AllowsSource reports whether the source dimension lets the source through
func (s *Spec) AllowsSource(source string) bool {
	return len(s.sources) == 0 || s.sources[source]
}

// Text returns the search text
func (s *Spec) Text() string {
	return s.text
}

// Regex reports whether the search text is a regular expression
func (s *Spec) Regex() bool {
	return s.regex
}

// CaseSensitive reports whether text search is case sensitive
func (s *Spec) CaseSensitive() bool {
	return s.caseSensitive
}

// Mode returns the active mode
func (s *Spec) Mode() Mode {
	return s.mode
}

// WithLevels returns a copy allowing only the given levels
func (s *Spec) WithLevels(levels ...string) (*Spec, error) {
	opts := s.Options()
	opts.Levels = levels

	return New(s.modes, opts)
}

// ToggleLevel flips one level. Toggling from the match-all state hides that level;
// hiding the last visible level returns to match-all
func (s *Spec) ToggleLevel(name string) (*Spec, error) {
	level, ok := entry.ParseLevel(name)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", errors.ErrUnknownLevel, name)
	}

	universe := make([]string, len(entry.Levels))
	for i, l := range entry.Levels {
		universe[i] = l.String()
	}

	return s.WithLevels(toggle(s.Levels(), universe, level.String())...)
}

// WithSources returns a copy allowing only the given sources
func (s *Spec) WithSources(sources ...string) (*Spec, error) {
	opts := s.Options()
	opts.Sources = sources

	return New(s.modes, opts)
}

// ToggleSource flips one source against the universe of sources currently tailed. Universe
// members are added to the known sources
func (s *Spec) ToggleSource(source string, universe []string) (*Spec, error) {
	for _, tailed := range universe {
		s.modes.Track(tailed)
	}

	if !s.modes.KnownSource(source) {
		return nil, fmt.Errorf("%w: '%s'", errors.ErrUnknownSource, source)
	}

	return s.WithSources(toggle(s.Sources(), universe, source)...)
}

// WithText returns a copy with a new search pattern; empty text clears the search
func (s *Spec) WithText(text string, regex, caseSensitive bool) (*Spec, error) {
	opts := s.Options()
	opts.Text = text
	opts.Regex = regex
	opts.CaseSensitive = caseSensitive

	return New(s.modes, opts)
}

// WithMode returns a copy with the given mode active
func (s *Spec) WithMode(mode string) (*Spec, error) {
	opts := s.Options()
	opts.Mode = mode

	return New(s.modes, opts)
}

// ToggleMode activates a mode, or clears it when it is already active
func (s *Spec) ToggleMode(name string) (*Spec, error) {
	mode, err := ParseMode(name)
	if err != nil {
		return nil, err
	}

	if s.mode == mode {
		return s.WithMode(string(ModeNone))
	}

	return s.WithMode(string(mode))
}

// String renders the spec for status lines
func (s *Spec) String() string {
	parts := make([]string, 0, 4)

	if levels := s.Levels(); len(levels) > 0 {
		parts = append(parts, "levels="+strings.Join(levels, ","))
	}

	if sources := s.Sources(); len(sources) > 0 {
		parts = append(parts, "sources="+strings.Join(sources, ","))
	}

	if s.text != "" {
		text := fmt.Sprintf("%q", s.text)
		if s.regex {
			text = "/" + s.text + "/"
		}

		if !s.caseSensitive {
			text += "i"
		}

		parts = append(parts, "text="+text)
	}

	if s.mode != ModeNone {
		parts = append(parts, "mode="+string(s.mode))
	}

	if len(parts) == 0 {
		return "all"
	}

	return strings.Join(parts, " ")
}

// toggle flips value in current, where an empty current list stands for the whole universe
func toggle(current, universe []string, value string) []string {
	set := make(map[string]bool, len(universe))

	if len(current) == 0 {
		for _, v := range universe {
			set[v] = true
		}
	} else {
		for _, v := range current {
			set[v] = true
		}
	}

	if set[value] {
		delete(set, value)
	} else {
		set[value] = true
	}

	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}

	sort.Strings(out)

	if len(universe) > 0 && len(out) >= len(universe) && containsAll(out, universe) {
		return nil
	}

	return out
}

func containsAll(values, required []string) bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}

	for _, r := range required {
		if !set[r] {
			return false
		}
	}

	return true
}
