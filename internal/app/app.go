// Пакет app - основной пакет утилиты rsprecedence.
//
// Приложение вычитывает пары записей (источник и приёмник миграции),
// для каждой пары решает нужно ли переносить запись и выводит решения
// в формате JSON lines. Конфигурация берётся из yaml файла, флаги
// командной строки переопределяют смещение и число воркеров.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/mailru/recordsync/internal/pkg/ds"
	"github.com/mailru/recordsync/pkg/precedence"
	"github.com/mailru/recordsync/pkg/recordsync"
	"github.com/mailru/recordsync/pkg/serializer"
)

// Структура приложения
// params - параметры запуска
// cfg - загруженная конфигурация, пустая если путь не задан
// resolver и batch - построенные по конфигурации резолвер и параметры пакетной обработки
// metric - счётчики решений, выводятся в лог после обработки
// stdin - источник пар, если путь к файлу не задан
type App struct {
	ctx      context.Context
	appInfo  *ds.AppInfo
	params   ds.Params
	cfg      *recordsync.DefaultConfig
	logger   *recordsync.DefaultLogger
	metric   *recordsync.CounterMetric
	resolver *precedence.Resolver
	batch    recordsync.BatchOptions
	stdin    io.Reader
}

// Инициализация приложения
// Загружает конфигурацию, настраивает логгер и метрики recordsync
// и строит резолвер. Ошибка конфигурации возвращается сразу,
// что бы не начинать обработку с неверными параметрами
func Init(ctx context.Context, appInfo *ds.AppInfo, params ds.Params) (*App, error) {
	app := App{
		ctx:     ctx,
		appInfo: appInfo,
		params:  params,
		logger:  recordsync.NewLogger(),
		metric:  recordsync.NewCounterMetric(),
		stdin:   os.Stdin,
	}

	cfg, err := loadConfig(params.ConfigPath)
	if err != nil {
		return nil, err
	}

	app.cfg = cfg

	recordsync.ReinitRecordSync(
		recordsync.WithLogger(app.logger),
		recordsync.WithConfig(cfg),
		recordsync.WithMetrics(app.metric),
	)

	if lvl, ok := cfg.GetStringIfExists(ctx, recordsync.ConfLogLevel); ok {
		level, err := recordsync.ParseLogLevel(lvl)
		if err != nil {
			return nil, errors.Wrap(err, "invalid config")
		}

		app.logger.SetLogLevel(level)
	}

	batch, err := recordsync.BatchOptionsFromConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	if params.Offset != "" {
		batch.Offset = params.Offset
	}

	if params.Workers > 0 {
		batch.Workers = params.Workers
	}

	app.batch = batch
	app.resolver = recordsync.NewResolverFromConfig(ctx, cfg)

	if _, err := app.resolver.Offset(batch.Offset); err != nil {
		return nil, errors.Wrap(err, "invalid offset")
	}

	if app.params.Format == "" {
		app.params.Format = ds.InputFormatJSON
	}

	app.logger.Debug(ctx, fmt.Sprintf("%s started at %s", appInfo, appInfo.StartTime()))

	return &app, nil
}

func loadConfig(path string) (*recordsync.DefaultConfig, error) {
	if path == "" {
		return recordsync.NewDefaultConfig(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "can't open config")
	}
	defer f.Close()

	cfg, err := recordsync.LoadConfigYAML(f)
	if err != nil {
		return nil, errors.Wrapf(err, "can't load config %s", path)
	}

	return cfg, nil
}

func (a *App) BatchOptions() recordsync.BatchOptions {
	return a.batch
}

func (a *App) Metric() *recordsync.CounterMetric {
	return a.metric
}

// Получение читателя пар в зависимости от формата
func (a *App) pairReader(r io.Reader) (serializer.PairReader, error) {
	switch a.params.Format {
	case ds.InputFormatJSON:
		return serializer.NewJSONPairReader(r), nil
	case ds.InputFormatMsgpack:
		return serializer.NewMsgpackPairReader(r), nil
	default:
		return nil, errors.Errorf("unsupported input format `%s`", a.params.Format)
	}
}

func (a *App) readPairs() ([]precedence.Pair, error) {
	var in io.Reader = a.stdin

	if a.params.InputPath != "" && a.params.InputPath != "-" {
		f, err := os.Open(a.params.InputPath)
		if err != nil {
			return nil, errors.Wrap(err, "can't open input")
		}
		defer f.Close()

		in = f
	}

	reader, err := a.pairReader(in)
	if err != nil {
		return nil, err
	}

	pairs, err := serializer.ReadAllPairs(reader)
	if err != nil {
		return nil, errors.Wrapf(err, "can't read %s pairs", a.params.Format)
	}

	return pairs, nil
}

// Run обрабатывает все пары и пишет решения в out, по одному JSON на строку.
// Ошибки отдельных пар не являются ошибкой Run, их число есть в BatchResult.Malformed
func (a *App) Run(out io.Writer) (recordsync.BatchResult, error) {
	pairs, err := a.readPairs()
	if err != nil {
		return recordsync.BatchResult{}, err
	}

	res, err := recordsync.ResolveBatch(a.ctx, a.resolver, pairs, a.batch)
	if err != nil {
		return recordsync.BatchResult{}, errors.Wrap(err, "can't resolve pairs")
	}

	for _, o := range res.Outcomes {
		line, err := serializer.JSONMarshal(o)
		if err != nil {
			return res, errors.Wrapf(err, "can't marshal outcome %d", o.Index)
		}

		if _, err := fmt.Fprintln(out, line); err != nil {
			return res, errors.Wrap(err, "can't write outcome")
		}
	}

	ctx := a.logger.SetLoggerValueToContext(a.ctx, recordsync.ValueLogPrefix{"run": res.RunID})
	for _, key := range a.metric.Keys() {
		a.logger.Debug(ctx, fmt.Sprintf("%s=%v", key, a.metric.Counter(key)))
	}

	return res, nil
}
