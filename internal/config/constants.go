package config

import "time"

// app constants
const (
	AppName          = "logscope"
	AppDescription   = "Real-time log viewer for multi-source robot logs"
	ConfigFile       = "logscope.yaml"
	EnvFile          = ".env"
	EnvPrefix        = "LOGSCOPE"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	Version = "0.3.0"
)

// source constants
const (
	DefaultSourceDir     = "logs"
	DefaultSourcePattern = "*.log"
	LogFileExtension     = ".log"
)

// buffer constants
const (
	DefaultBufferCapacity = 10000
	DefaultQueueSize      = 4096
)

// tail constants
const (
	StartFromEnd   = "end"
	StartFromStart = "start"

	DefaultPollInterval = 250 * time.Millisecond
	DefaultRetryBackoff = 500 * time.Millisecond
	DefaultMaxBackoff   = 5 * time.Second
	ReadChunkSize       = 32 * 1024
	FingerprintSize     = 64
	MaxLineLength       = 1024 * 1024
)

// mode constants
const (
	ModeCrash    = "crash"
	ModeDialogue = "dialogue"
)

// stats constants
const (
	DefaultStatsWindow = 5 * time.Second
	StatsInterval      = time.Second
)

// bus constants
const (
	BusBufferSize = 64
)

// engine constants
const (
	ShutdownTimeout = 5 * time.Second
	QuiescePeriod   = 300 * time.Millisecond
)

// stream constants
const (
	SocketDir         = "/tmp"
	SocketPrefix      = "logscope-"
	SocketSuffix      = ".sock"
	SocketDialTimeout = 500 * time.Millisecond
	DefaultStreamName = "default"
)

// DefaultCrashKeywords are the words that put a message into crash mode
var DefaultCrashKeywords = []string{
	"crash", "crashed", "exception", "traceback", "fatal", "panic", "segfault", "core dumped",
}

// DefaultSpeechKeywords are the words that put a message into dialogue mode
var DefaultSpeechKeywords = []string{
	"speech", "tts", "stt", "audio", "voice",
	"whisper", "vosk", "piper", "espeak", "coqui", "elevenlabs",
}

// DefaultDialogueSources are the speech input and output sources
var DefaultDialogueSources = []string{
	"speech_recognition", "speech_synthesis",
}

// DefaultZones maps zone abbreviations found in log timestamps to UTC offsets in seconds
var DefaultZones = map[string]int{
	"UTC": 0,
	"GMT": 0,
	"EST": -5 * 3600,
	"EDT": -4 * 3600,
	"CST": -6 * 3600,
	"CDT": -5 * 3600,
	"MST": -7 * 3600,
	"MDT": -6 * 3600,
	"PST": -8 * 3600,
	"PDT": -7 * 3600,
}
