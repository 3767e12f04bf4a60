package registry

import "go.uber.org/fx"

// Module provides the view registry
var Module = fx.Options(
	fx.Provide(
		NewRegistry,
	),
)
