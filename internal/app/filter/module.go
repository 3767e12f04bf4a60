package filter

import "go.uber.org/fx"

// Module provides the mode configuration shared by every filter
var Module = fx.Options(
	fx.Provide(NewModes),
)
