package recordsync

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
)

type ctxKey uint8
type ValueLogPrefix map[string]interface{}
type DefaultLogger struct {
	level  uint32
	out    *log.Logger
	Fields ValueLogPrefix
}

const (
	PanicLoggerLevel uint32 = iota
	FatalLoggerLevel
	ErrorLoggerLevel
	WarnLoggerLevel
	InfoLoggerLevel
	DebugLoggerLevel
	TraceLoggerLevel
)

var loggerLevelNames = map[string]uint32{
	"panic": PanicLoggerLevel,
	"fatal": FatalLoggerLevel,
	"error": ErrorLoggerLevel,
	"warn":  WarnLoggerLevel,
	"info":  InfoLoggerLevel,
	"debug": DebugLoggerLevel,
	"trace": TraceLoggerLevel,
}

const (
	ContextLogprefix ctxKey = iota
)

const (
	ValueContextErrorField = "context"
)

// ParseLogLevel возвращает уровень логирования по имени (info, debug, ...)
func ParseLogLevel(name string) (uint32, error) {
	level, ok := loggerLevelNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown log level %q", name)
	}

	return level, nil
}

func NewLogger() *DefaultLogger {
	return &DefaultLogger{
		level:  InfoLoggerLevel,
		out:    log.Default(),
		Fields: ValueLogPrefix{"app": "recordsync"},
	}
}

// SetOutput перенаправляет вывод логгера, по умолчанию используется стандартный log
func (l *DefaultLogger) SetOutput(w io.Writer) {
	l.out = log.New(w, "", log.LstdFlags)
}

func (l *DefaultLogger) getLoggerFromContext(ctx context.Context) *DefaultLogger {
	return l.getLoggerFromContextAndValue(ctx, ValueLogPrefix{})
}

func (l *DefaultLogger) SetLoggerValueToContext(ctx context.Context, val ValueLogPrefix) context.Context {
	ctxVal := ctx.Value(ContextLogprefix)
	if ctxVal != nil {
		lprefix, ok := ctxVal.(ValueLogPrefix)
		if !ok {
			val["logger.context.error"] = ValueContextErrorField
			val["logger.context.valueType"] = fmt.Sprintf("%T", ctxVal)
		} else {
			for k, v := range lprefix {
				if _, ok := val[k]; !ok {
					val[k] = v
				}
			}
		}
	}

	return context.WithValue(ctx, ContextLogprefix, val)
}

func (l *DefaultLogger) getLoggerFromContextAndValue(ctx context.Context, addVal ValueLogPrefix) *DefaultLogger {
	nl := &DefaultLogger{
		level:  l.level,
		out:    l.out,
		Fields: ValueLogPrefix{},
	}

	for k, v := range l.Fields {
		nl.Fields[k] = v
	}

	for k, v := range addVal {
		nl.Fields[k] = v
	}

	ctxVal := ctx.Value(ContextLogprefix)
	if ctxVal == nil {
		return nl
	}

	lprefix, ok := ctxVal.(ValueLogPrefix)
	if !ok {
		nl.Fields["logger.context.error"] = ValueContextErrorField
		nl.Fields["logger.context.valueType"] = fmt.Sprintf("%T", ctxVal)

		return nl
	}

	for k, v := range lprefix {
		nl.Fields[k] = v
	}

	return nl
}

func (l *DefaultLogger) SetLogLevel(level uint32) {
	l.level = level
}

func (l *DefaultLogger) loggerPrint(level uint32, lprefix string, args ...interface{}) {
	if l.level < level {
		return
	}

	l.out.Print(lprefix, l.Fields, " ", fmt.Sprint(args...))
}

func (l *DefaultLogger) Debug(ctx context.Context, args ...interface{}) {
	l.getLoggerFromContext(ctx).loggerPrint(DebugLoggerLevel, "DEBUG: ", args...)
}

func (l *DefaultLogger) Trace(ctx context.Context, args ...interface{}) {
	l.getLoggerFromContext(ctx).loggerPrint(TraceLoggerLevel, "TRACE: ", args...)
}

func (l *DefaultLogger) Info(ctx context.Context, args ...interface{}) {
	l.getLoggerFromContext(ctx).loggerPrint(InfoLoggerLevel, "INFO: ", args...)
}

func (l *DefaultLogger) Error(ctx context.Context, args ...interface{}) {
	l.getLoggerFromContext(ctx).loggerPrint(ErrorLoggerLevel, "ERROR: ", args...)
}

func (l *DefaultLogger) Warn(ctx context.Context, args ...interface{}) {
	l.getLoggerFromContext(ctx).loggerPrint(WarnLoggerLevel, "WARN: ", args...)
}

func (l *DefaultLogger) Fatal(ctx context.Context, args ...interface{}) {
	nl := l.getLoggerFromContext(ctx)
	nl.out.Fatal("FATAL: ", nl.Fields, " ", fmt.Sprint(args...))
}
