package outbox

import "go.uber.org/zap"

// ZapLogger adapts a zap.SugaredLogger to Logger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps the provided zap logger. A nil logger yields an adapter
// over zap.NewNop.
func NewZapLogger(logger *zap.Logger) ZapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}

	return ZapLogger{sugar: logger.Sugar()}
}

// Debug implements Logger.
func (l ZapLogger) Debug(msg string, args ...any) {
	l.sugar.Debugw(msg, args...)
}

// Info implements Logger.
func (l ZapLogger) Info(msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

// Warn implements Logger.
func (l ZapLogger) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

// Error implements Logger.
func (l ZapLogger) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, args...)
}
