package bucketx

import "go.uber.org/zap"

// Logger is the leveled logging capability bucketx uses. It accepts simple
// key/value variadic pairs to keep call sites concise and to decouple from
// any particular structured-logging Field type.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NewNopLogger returns a no-op logger implementing Logger. It is the default
// when no logger is supplied at construction.
func NewNopLogger() Logger { return &nopLogger{} }

type nopLogger struct{}

func (n *nopLogger) Debug(_ string, _ ...any) {}
func (n *nopLogger) Info(_ string, _ ...any)  {}
func (n *nopLogger) Warn(_ string, _ ...any)  {}
func (n *nopLogger) Error(_ string, _ ...any) {}

// NewZapLogger wraps a *zap.Logger into the bucketx Logger interface.
func NewZapLogger(l *zap.Logger) Logger {
	if l == nil {
		return &nopLogger{}
	}
	return &zapLogger{l.Sugar()}
}

type zapLogger struct{ s *zap.SugaredLogger }

func (z *zapLogger) Debug(msg string, args ...any) { z.s.Debugw(msg, args...) }
func (z *zapLogger) Info(msg string, args ...any)  { z.s.Infow(msg, args...) }
func (z *zapLogger) Warn(msg string, args ...any)  { z.s.Warnw(msg, args...) }
func (z *zapLogger) Error(msg string, args ...any) { z.s.Errorw(msg, args...) }
