package store

import "go.uber.org/fx"

// Module provides the shared entry history
var Module = fx.Options(
	fx.Provide(NewStore),
)
