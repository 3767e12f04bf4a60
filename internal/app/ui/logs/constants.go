package logs

// Log view layout
const (
	timeLayout      = "15:04:05.000"
	levelWidth      = len("CRITICAL")
	unparsedLabel   = "-"
	minMessageWidth = 20
	continuation    = "  ↳ "
)
