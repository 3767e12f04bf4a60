package errors

import (
	"errors"
)

var (
	ErrFailedToReadConfig  = errors.New("failed to read config file")
	ErrFailedToParseConfig = errors.New("failed to parse config file")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrFailedToLoadEnv     = errors.New("failed to load env file")

	ErrInvalidBufferCapacity = errors.New("buffer capacity must be greater than 0")
	ErrInvalidBacklogSize    = errors.New("backlog size must be greater than 0")
	ErrInvalidQueueSize      = errors.New("queue size must be greater than 0")
	ErrInvalidStartMode      = errors.New("invalid tail start mode")
	ErrInvalidPollInterval   = errors.New("poll interval must be greater than 0")
	ErrInvalidRetryBackoff   = errors.New("retry backoff must be greater than 0 and not exceed max backoff")
	ErrInvalidStatsWindow    = errors.New("stats window must be at least one second")
	ErrSourceDirRequired     = errors.New("sources dir is required")
	ErrNoSourcesConfigured   = errors.New("at least one source file or a discovery pattern is required")
	ErrInvalidZoneOffset     = errors.New("invalid zone offset")

	ErrInvalidRegexPattern = errors.New("invalid regex pattern")
	ErrInvalidGlobPattern  = errors.New("invalid glob pattern")
	ErrUnknownLevel        = errors.New("unknown level")
	ErrUnknownSource       = errors.New("unknown source")
	ErrUnknownMode         = errors.New("unknown mode")

	ErrSubscriptionClosed   = errors.New("subscription closed")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrNilSink              = errors.New("sink is required")
	ErrRegistryClosed       = errors.New("registry closed")

	ErrEngineAlreadyStarted = errors.New("engine already started")
	ErrEngineNotStarted     = errors.New("engine not started")
	ErrShutdownTimeout      = errors.New("shutdown grace period exceeded")
	ErrFailedToWatchDir     = errors.New("failed to watch directory")

	ErrFailedToCleanupSocket    = errors.New("failed to cleanup stale socket")
	ErrFailedToListenSocket     = errors.New("failed to listen on socket")
	ErrSocketAlreadyInUse       = errors.New("socket already in use by another instance")
	ErrFailedToConnectSocket    = errors.New("failed to connect to socket")
	ErrFailedToMarshalMessage   = errors.New("failed to marshal message")
	ErrFailedToWriteSocket      = errors.New("failed to write to socket")
	ErrFailedToParseMessage     = errors.New("failed to parse message")
	ErrFailedToReadSocket       = errors.New("failed to read from socket")
	ErrSubscriptionRejected     = errors.New("subscription rejected by server")
	ErrInstanceNotFound         = errors.New("no running instance found with name")
	ErrNoInstanceRunning        = errors.New("no running logscope instance found")
	ErrMultipleInstancesRunning = errors.New("multiple logscope instances running")
	ErrSocketSearchFailed       = errors.New("failed to search for sockets")

	ErrUnknownCommand = errors.New("unknown command")
)

var (
	As   = errors.As
	Is   = errors.Is
	New  = errors.New
	Join = errors.Join
)
