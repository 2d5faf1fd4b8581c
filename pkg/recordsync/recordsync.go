// Пакет recordsync - окружение для пакетного применения резолвера
// precedence в конвейере миграции: логгер, конфигурация, метрики
// и конкурентная обработка пар записей.
//
// Перед использованием необходимо вызвать InitRecordSync.
package recordsync

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"
)

type ConfigInterface interface {
	GetBool(ctx context.Context, confPath string, dfl ...bool) bool
	GetBoolIfExists(ctx context.Context, confPath string) (value bool, ok bool)
	GetInt(ctx context.Context, confPath string, dfl ...int) int
	GetIntIfExists(ctx context.Context, confPath string) (int, bool)
	GetFloat(ctx context.Context, confPath string, dfl ...float64) float64
	GetFloatIfExists(ctx context.Context, confPath string) (float64, bool)
	GetDuration(ctx context.Context, confPath string, dfl ...time.Duration) time.Duration
	GetDurationIfExists(ctx context.Context, confPath string) (time.Duration, bool)
	GetString(ctx context.Context, confPath string, dfl ...string) string
	GetStringIfExists(ctx context.Context, confPath string) (string, bool)
	GetStrings(ctx context.Context, confPath string, dfl []string) []string
	GetStruct(ctx context.Context, confPath string, valuePtr interface{}) (bool, error)
	GetLastUpdateTime() time.Time
}

type LoggerInterface interface {
	SetLoggerValueToContext(ctx context.Context, addVal ValueLogPrefix) context.Context

	SetLogLevel(level uint32)
	Fatal(ctx context.Context, args ...interface{})
	Error(ctx context.Context, args ...interface{})
	Warn(ctx context.Context, args ...interface{})
	Info(ctx context.Context, args ...interface{})
	Debug(ctx context.Context, args ...interface{})
	Trace(ctx context.Context, args ...interface{})
}

type MetricTimerInterface interface {
	Timing(ctx context.Context, name string)
	Finish(ctx context.Context, name string)
}

type MetricStatCountInterface interface {
	Inc(ctx context.Context, name string, val float64)
}

type MetricInterface interface {
	StatCount(storage, entity string) MetricStatCountInterface
	ErrorCount(storage, entity string) MetricStatCountInterface
	Timer(storage, entity string) MetricTimerInterface
}

type RecordSync struct {
	instanceCreator string
	config          ConfigInterface
	logger          LoggerInterface
	metric          MetricInterface
}

var instance *RecordSync
var createMutex sync.Mutex

func ReinitRecordSync(opts ...Option) {
	instance = nil

	InitRecordSync(opts...)
}

func InitRecordSync(opts ...Option) {
	createMutex.Lock()
	defer createMutex.Unlock()

	if instance != nil {
		panic(fmt.Sprintf("can't initialise twice, first from `%s`", instance.instanceCreator))
	}

	caller := "unknown_caller"

	_, file, no, ok := runtime.Caller(1)
	if ok {
		caller = fmt.Sprintf("%s:%d ", file, no)
	}

	instance = &RecordSync{
		instanceCreator: caller,
		logger:          NewLogger(),
		config:          NewDefaultConfig(),
		metric:          NewDefaultNoopMetric(),
	}

	for _, opt := range opts {
		opt.apply(instance)
	}
}

func GetInstance() *RecordSync {
	if instance == nil {
		panic("get instance before initialization")
	}

	return instance
}

func Logger() LoggerInterface {
	return GetInstance().logger
}

func Metric() MetricInterface {
	return GetInstance().metric
}

func Config() ConfigInterface {
	return GetInstance().config
}
