// Package logger provides slog construction helpers and typed attribute
// constructors for consistent structured logging across relay applications.
//
// Construction:
//
//	log := logger.New(logger.WithDevelopment("relay-taskapp"))
//	log.Info("started", logger.Component("server"))
//
// Development loggers write human-readable text at debug level; the default
// is JSON at info level for production use.
//
// Attribute helpers use the empty-Attr pattern for nil safety, so calls
// like log.Error("emit failed", logger.Error(err)) need no nil checks.
package logger
