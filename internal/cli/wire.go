package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/saker-ai/debugwire/internal/config"
	"github.com/saker-ai/debugwire/internal/netcmd"
	"github.com/saker-ai/debugwire/internal/paths"
	"github.com/saker-ai/debugwire/internal/skiplist"
	"github.com/saker-ai/debugwire/internal/stack"
)

func markerFor(cfg config.Config) stack.Marker {
	return stack.Marker{Func: cfg.Stack.Marker.Func, File: cfg.Stack.Marker.File}
}

func newSkipList(cfg config.Config) (*skiplist.List, error) {
	list := skiplist.Default().With(cfg.SkipList.Files...)
	if cfg.SkipList.File == "" {
		return list, nil
	}
	loaded, err := skiplist.Load(cfg.SkipList.File)
	if err != nil {
		return nil, err
	}
	return list.Merge(loaded), nil
}

func newRenderer(cfg config.Config, log *zap.Logger) (*stack.Renderer, error) {
	classifier, err := newSkipList(cfg)
	if err != nil {
		return nil, err
	}
	decoder, err := paths.NewDecoder(cfg.Stack.FilesystemEncoding)
	if err != nil {
		return nil, err
	}

	opts := stack.RendererOptions{
		Paths:      paths.NewMapper(cfg.Paths.Mappings),
		Classifier: classifier,
		MaxFrames:  cfg.Stack.MaxFrames,
		Logger:     log.Named("stack"),
	}
	if decoder != nil {
		opts.Decoder = decoder
	}
	return stack.NewRenderer(opts), nil
}

func newFactory(cfg config.Config, log *zap.Logger, threads netcmd.ThreadSource) (*netcmd.Factory, error) {
	renderer, err := newRenderer(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("build renderer: %w", err)
	}
	return netcmd.New(netcmd.Options{
		Threads:            threads,
		Renderer:           renderer,
		Marker:             markerFor(cfg),
		Logger:             log.Named("netcmd"),
		TraceLevel:         cfg.Debug.TraceLevel,
		MaxIOMessageSize:   cfg.Protocol.MaxIOMessageSize,
		IOTruncationMarker: cfg.Protocol.IOTruncationMarker,
		VersionString:      cfg.Protocol.VersionString,
		MaxTraceDepth:      cfg.Protocol.MaxTraceDepth,
	}), nil
}
