package engine

import "go.uber.org/fx"

// Module provides the ingestion engine
var Module = fx.Options(
	fx.Provide(NewEngine),
)
