package log

import "github.com/sirupsen/logrus"

type logrusLogger struct {
	backend logrus.FieldLogger
}

var _ Logger = (*logrusLogger)(nil)

func (l *logrusLogger) Trace(msg string, fields ...interface{}) {
	l.log(LevelTrace, msg, fields)
}

func (l *logrusLogger) Debug(msg string, fields ...interface{}) {
	l.log(LevelDebug, msg, fields)
}

func (l *logrusLogger) Info(msg string, fields ...interface{}) {
	l.log(LevelInfo, msg, fields)
}

func (l *logrusLogger) Warn(msg string, fields ...interface{}) {
	l.log(LevelWarn, msg, fields)
}

func (l *logrusLogger) Error(msg string, fields ...interface{}) {
	l.log(LevelError, msg, fields)
}

// Fatal logs and exits the process.
func (l *logrusLogger) Fatal(msg string, fields ...interface{}) {
	if l.isEnabled(LevelFatal) {
		l.parseFields(fields).Fatal(msg)
	}
}

func (l *logrusLogger) Sub(fields ...interface{}) Logger {
	return &logrusLogger{
		backend: l.parseFields(fields),
	}
}

func (l *logrusLogger) log(level Level, msg string, fields []interface{}) {
	if !l.isEnabled(level) {
		return
	}
	entry := l.parseFields(fields)
	switch level {
	case LevelTrace:
		// FieldLogger has no Trace; entries do.
		if e, ok := entry.(*logrus.Entry); ok {
			e.Trace(msg)
			return
		}
		entry.Debug(msg)
	case LevelDebug:
		entry.Debug(msg)
	case LevelInfo:
		entry.Info(msg)
	case LevelWarn:
		entry.Warn(msg)
	default:
		entry.Error(msg)
	}
}

func (l *logrusLogger) isEnabled(level Level) bool {
	return level >= currLevel
}

func (l *logrusLogger) parseFields(fields []interface{}) logrus.FieldLogger {
	argLen := len(fields)
	if argLen == 0 {
		return l.backend
	}
	if argLen%2 != 0 {
		panic("must specify arguments as tuples")
	}

	lFields := make(logrus.Fields, argLen/2)
	for i := 0; i < argLen; i += 2 {
		kStr, ok := fields[i].(string)
		if !ok {
			panic("argument keys must be strings")
		}
		lFields[kStr] = fields[i+1]
	}
	return l.backend.WithFields(lFields)
}
