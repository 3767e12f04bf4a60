package stats

import "go.uber.org/fx"

// Module provides the statistics collector and process sampler
var Module = fx.Options(
	fx.Provide(
		NewCollector,
		NewSampler,
	),
)
