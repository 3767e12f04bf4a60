package parser

import "go.uber.org/fx"

// Module provides the record parser
var Module = fx.Options(
	fx.Provide(NewParser),
)
