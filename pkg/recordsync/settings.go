package recordsync

import (
	"context"
	"fmt"
	"strings"

	"github.com/mailru/recordsync/pkg/precedence"
	"github.com/mailru/recordsync/pkg/timestamp"
)

// Пути к параметрам конфигурации
const (
	ConfPrecedence    = "precedence"
	ConfOffset        = ConfPrecedence + ConfPathSeparator + confOffsetKey
	ConfField         = "precedence/field"
	ConfIDField       = "precedence/id_field"
	ConfSourceLayout  = "precedence/source_layout"
	ConfRequireOffset = "precedence/require_offset"
	ConfBatch         = "batch"
	ConfLogLevel      = "log/level"

	confOffsetKey = "offset"
)

// NewResolverFromConfig строит резолвер по параметрам precedence/*
func NewResolverFromConfig(ctx context.Context, cfg ConfigInterface) *precedence.Resolver {
	opts := []precedence.Option{
		precedence.WithField(cfg.GetString(ctx, ConfField, precedence.DefaultField)),
		precedence.WithIDField(cfg.GetString(ctx, ConfIDField, precedence.DefaultIDField)),
	}

	if layout, ok := cfg.GetStringIfExists(ctx, ConfSourceLayout); ok && layout != "" {
		opts = append(opts, precedence.WithSourceGrammar(timestamp.Layout(layout)))
	}

	if !cfg.GetBool(ctx, ConfRequireOffset, true) {
		opts = append(opts, precedence.WithZonelessUTC())
	}

	return precedence.NewResolver(opts...)
}

// BatchOptionsFromConfig читает секцию batch и смещение precedence/offset
func BatchOptionsFromConfig(ctx context.Context, cfg ConfigInterface) (BatchOptions, error) {
	opts := DefaultBatchOptions()

	if _, err := cfg.GetStruct(ctx, ConfBatch, &opts); err != nil {
		return BatchOptions{}, err
	}

	offset, ok, err := offsetFromConfig(ctx, cfg)
	if err != nil {
		return BatchOptions{}, err
	}

	if ok {
		opts.Offset = offset
	}

	if opts.Workers < 1 {
		return BatchOptions{}, fmt.Errorf("batch/workers must be positive, got %d", opts.Workers)
	}

	if opts.RateLimit < 0 {
		return BatchOptions{}, fmt.Errorf("batch/rate_limit must not be negative, got %v", opts.RateLimit)
	}

	return opts, nil
}

// offsetFromConfig читает precedence/offset. Yaml без кавычек отдаёт -7 числом,
// такое значение приводится к строке, значения других типов - ошибка
func offsetFromConfig(ctx context.Context, cfg ConfigInterface) (string, bool, error) {
	section := map[string]interface{}{}

	if _, err := cfg.GetStruct(ctx, ConfPrecedence, &section); err != nil {
		return "", false, err
	}

	raw, ok := section[confOffsetKey]
	if !ok {
		for key := range section {
			if strings.HasPrefix(key, confOffsetKey+ConfPathSeparator) {
				return "", false, fmt.Errorf("%s is a section, want string or number", ConfOffset)
			}
		}

		return "", false, nil
	}

	switch v := raw.(type) {
	case string:
		return v, true, nil
	case int, int64, uint64, float64:
		return fmt.Sprint(v), true, nil
	default:
		return "", false, fmt.Errorf("%s has type %T, want string or number", ConfOffset, raw)
	}
}
