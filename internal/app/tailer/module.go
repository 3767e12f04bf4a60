package tailer

import "go.uber.org/fx"

// Module provides the file tailer
var Module = fx.Options(
	fx.Provide(
		NewTailer,
	),
)
