package filter

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/gobwas/glob"

	"logscope/internal/app/entry"
	"logscope/internal/app/errors"
	"logscope/internal/config"
)

// Mode is a named filter preset combining several criteria
type Mode string

const (
	ModeNone     Mode = ""
	ModeCrash    Mode = config.ModeCrash
	ModeDialogue Mode = config.ModeDialogue
)

// ParseMode validates a mode name; the empty string and "none" mean no mode
func ParseMode(name string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(name))) {
	case ModeNone, "none":
		return ModeNone, nil
	case ModeCrash:
		return ModeCrash, nil
	case ModeDialogue:
		return ModeDialogue, nil
	default:
		return ModeNone, fmt.Errorf("%w: '%s' (must be '%s' or '%s')", errors.ErrUnknownMode, name, ModeCrash, ModeDialogue)
	}
}

// Modes holds the keyword patterns and source mappings the built-in modes evaluate.
// It is shared by every Spec built from it; only the known source set grows after construction
type Modes struct {
	crash           *regexp.Regexp
	speech          *regexp.Regexp
	dialogueSources map[string]bool

	mu           sync.RWMutex
	knownSources map[string]bool
}

// NewModes builds the mode configuration from application config. Known sources are the
// configured files, the dialogue sources and, with a discovery pattern, the files matching it now
func NewModes(cfg *config.Config) (*Modes, error) {
	known := cfg.SourceNames()

	if cfg.Sources.Pattern != "" {
		discovered, err := discoverSources(cfg.Sources.Dir, cfg.Sources.Pattern)
		if err != nil {
			return nil, err
		}

		known = append(known, discovered...)
	}

	return BuildModes(cfg.Modes.CrashKeywords, cfg.Modes.SpeechKeywords, cfg.Modes.DialogueSources, known)
}

// discoverSources lists the source names of visible files in dir matching pattern.
// A missing directory yields no sources
func discoverSources(dir, pattern string) ([]string, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidGlobPattern, err)
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil
	}

	sources := make([]string, 0, len(dirEntries))

	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || strings.HasPrefix(name, ".") || !g.Match(name) {
			continue
		}

		sources = append(sources, config.SourceNameFromFile(name))
	}

	return sources, nil
}

// BuildModes builds a mode configuration from explicit keyword and source lists.
// A nil knownSources list accepts any source name
func BuildModes(crashKeywords, speechKeywords, dialogueSources, knownSources []string) (*Modes, error) {
	crash, err := keywordPattern(crashKeywords)
	if err != nil {
		return nil, err
	}

	speech, err := keywordPattern(speechKeywords)
	if err != nil {
		return nil, err
	}

	m := &Modes{
		crash:           crash,
		speech:          speech,
		dialogueSources: toSet(dialogueSources),
	}

	if knownSources != nil {
		m.knownSources = toSet(knownSources)

		for source := range m.dialogueSources {
			m.knownSources[source] = true
		}
	}

	return m, nil
}

// DefaultModes returns modes built from the default keyword lists with no source validation
func DefaultModes() *Modes {
	m, _ := BuildModes(config.DefaultCrashKeywords, config.DefaultSpeechKeywords, config.DefaultDialogueSources, nil)
	return m
}

// KnownSource reports whether a source name is acceptable in a filter
func (m *Modes) KnownSource(source string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.knownSources == nil {
		return true
	}

	return m.knownSources[source]
}

// Track adds a source found after startup to the known set
func (m *Modes) Track(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.knownSources != nil && source != "" {
		m.knownSources[source] = true
	}
}

// Match evaluates the mode predicate against an entry
func (m *Modes) Match(mode Mode, e entry.Entry) bool {
	switch mode {
	case ModeCrash:
		if e.Level == entry.Error || e.Level == entry.Critical {
			return true
		}

		return m.crash != nil && m.crash.MatchString(e.Message)
	case ModeDialogue:
		if m.dialogueSources[e.Source] {
			return true
		}

		return m.speech != nil && m.speech.MatchString(e.Message)
	default:
		return false
	}
}

// keywordPattern compiles a case-insensitive whole-word alternation; no keywords yields nil
func keywordPattern(keywords []string) (*regexp.Regexp, error) {
	quoted := make([]string, 0, len(keywords))

	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}

		quoted = append(quoted, regexp.QuoteMeta(k))
	}

	if len(quoted) == 0 {
		return nil, nil
	}

	re, err := regexp.Compile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidRegexPattern, err)
	}

	return re, nil
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))

	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			set[v] = true
		}
	}

	return set
}
