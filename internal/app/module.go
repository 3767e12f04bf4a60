package app

import (
	"go.uber.org/fx"

	"logscope/internal/app/bus"
	"logscope/internal/app/cli"
	"logscope/internal/app/engine"
	"logscope/internal/app/filter"
	"logscope/internal/app/parser"
	"logscope/internal/app/registry"
	"logscope/internal/app/stats"
	"logscope/internal/app/store"
	"logscope/internal/app/stream"
	"logscope/internal/app/tailer"
	"logscope/internal/app/ui/wire"
)

var Module = fx.Options(
	bus.Module,
	tailer.Module,
	parser.Module,
	store.Module,
	filter.Module,
	registry.Module,
	stats.Module,
	engine.Module,
	stream.Module,
	wire.Module,
	cli.Module,
	fx.Provide(NewApp),
	fx.Invoke(Register),
)
