package logger

import (
	"github.com/joeydtaylor/frontctl/pkg/manifest"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the access-log middleware and the system logger.
var Module = fx.Provide(ProvideLoggerMiddleware, ProvideLogger)

// ProvideLoggerMiddleware builds the access-log middleware writing to http-access.log.
func ProvideLoggerMiddleware(cfg manifest.Config) *Middleware {
	return New(NewLog(Options{Dir: cfg.Log.Dir, Level: cfg.Log.Level}, "http-access.log"))
}

// ProvideLogger builds the system logger writing to system.log.
func ProvideLogger(cfg manifest.Config) *zap.Logger {
	return NewLog(Options{Dir: cfg.Log.Dir, Level: cfg.Log.Level}, "system.log")
}
