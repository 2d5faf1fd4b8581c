package recordsync

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mailru/recordsync/pkg/serializer"
)

// Разделитель уровней вложенности в пути к параметру конфигурации
const ConfPathSeparator = "/"

type DefaultConfig struct {
	cfg     map[string]interface{}
	created time.Time
}

func NewDefaultConfig() *DefaultConfig {
	return &DefaultConfig{
		cfg: make(map[string]interface{}),
	}
}

func NewDefaultConfigFromMap(cfg map[string]interface{}) *DefaultConfig {
	return &DefaultConfig{
		cfg:     cfg,
		created: time.Now(),
	}
}

// LoadConfigYAML читает конфигурацию в формате YAML.
// Вложенные ключи разворачиваются в пути вида "batch/workers"
func LoadConfigYAML(r io.Reader) (*DefaultConfig, error) {
	raw := map[string]interface{}{}

	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("error decode yaml config: %w", err)
	}

	flat := map[string]interface{}{}
	flattenConfig("", raw, flat)

	return NewDefaultConfigFromMap(flat), nil
}

func flattenConfig(prefix string, src map[string]interface{}, dst map[string]interface{}) {
	for k, v := range src {
		path := k
		if prefix != "" {
			path = prefix + ConfPathSeparator + k
		}

		if nested, ok := v.(map[string]interface{}); ok {
			flattenConfig(path, nested, dst)
			continue
		}

		dst[path] = v
	}
}

func (dc *DefaultConfig) GetLastUpdateTime() time.Time {
	return dc.created
}

func (dc *DefaultConfig) GetBool(ctx context.Context, confPath string, dfl ...bool) bool {
	if ret, ok := dc.GetBoolIfExists(ctx, confPath); ok {
		return ret
	}

	if len(dfl) != 0 {
		return dfl[0]
	}

	return false
}

func (dc *DefaultConfig) GetBoolIfExists(ctx context.Context, confPath string) (value bool, ok bool) {
	if param, ex := dc.cfg[confPath]; ex {
		if ret, ok := param.(bool); ok {
			return ret, true
		}

		Logger().Warn(ctx, fmt.Sprintf("param %s has type %T, want bool", confPath, param))
	}

	return false, false
}

func (dc *DefaultConfig) GetInt(ctx context.Context, confPath string, dfl ...int) int {
	if ret, ok := dc.GetIntIfExists(ctx, confPath); ok {
		return ret
	}

	if len(dfl) != 0 {
		return dfl[0]
	}

	return 0
}

func (dc *DefaultConfig) GetIntIfExists(ctx context.Context, confPath string) (int, bool) {
	if param, ex := dc.cfg[confPath]; ex {
		if ret, ok := param.(int); ok {
			return ret, true
		}

		Logger().Warn(ctx, fmt.Sprintf("param %s has type %T, want int", confPath, param))
	}

	return 0, false
}

func (dc *DefaultConfig) GetFloat(ctx context.Context, confPath string, dfl ...float64) float64 {
	if ret, ok := dc.GetFloatIfExists(ctx, confPath); ok {
		return ret
	}

	if len(dfl) != 0 {
		return dfl[0]
	}

	return 0
}

// GetFloatIfExists принимает и целые значения: YAML декодирует "100" как int
func (dc *DefaultConfig) GetFloatIfExists(ctx context.Context, confPath string) (float64, bool) {
	if param, ex := dc.cfg[confPath]; ex {
		switch ret := param.(type) {
		case float64:
			return ret, true
		case int:
			return float64(ret), true
		}

		Logger().Warn(ctx, fmt.Sprintf("param %s has type %T, want float", confPath, param))
	}

	return 0, false
}

func (dc *DefaultConfig) GetDuration(ctx context.Context, confPath string, dfl ...time.Duration) time.Duration {
	if ret, ok := dc.GetDurationIfExists(ctx, confPath); ok {
		return ret
	}

	if len(dfl) != 0 {
		return dfl[0]
	}

	return 0
}

// GetDurationIfExists принимает time.Duration или строку вида "1m30s"
func (dc *DefaultConfig) GetDurationIfExists(ctx context.Context, confPath string) (time.Duration, bool) {
	if param, ex := dc.cfg[confPath]; ex {
		switch ret := param.(type) {
		case time.Duration:
			return ret, true
		case string:
			d, err := time.ParseDuration(ret)
			if err == nil {
				return d, true
			}
		}

		Logger().Warn(ctx, fmt.Sprintf("param %s has type %T, want duration", confPath, param))
	}

	return 0, false
}

func (dc *DefaultConfig) GetString(ctx context.Context, confPath string, dfl ...string) string {
	if ret, ok := dc.GetStringIfExists(ctx, confPath); ok {
		return ret
	}

	if len(dfl) != 0 {
		return dfl[0]
	}

	return ""
}

func (dc *DefaultConfig) GetStringIfExists(ctx context.Context, confPath string) (string, bool) {
	if param, ex := dc.cfg[confPath]; ex {
		if ret, ok := param.(string); ok {
			return ret, true
		}

		Logger().Warn(ctx, fmt.Sprintf("param %s has type %T, want string", confPath, param))
	}

	return "", false
}

func (dc *DefaultConfig) GetStrings(ctx context.Context, confPath string, dfl []string) []string {
	param, ex := dc.cfg[confPath]
	if !ex {
		return dfl
	}

	switch list := param.(type) {
	case []string:
		return list
	case []interface{}:
		ret := make([]string, 0, len(list))

		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				Logger().Warn(ctx, fmt.Sprintf("param %s has item of type %T, want string", confPath, item))
				return dfl
			}

			ret = append(ret, s)
		}

		return ret
	}

	Logger().Warn(ctx, fmt.Sprintf("param %s has type %T, want list of strings", confPath, param))

	return dfl
}

// GetStruct собирает все параметры с префиксом confPath и декодирует их
// в структуру через mapstructure. Возвращает false, если таких параметров нет
func (dc *DefaultConfig) GetStruct(ctx context.Context, confPath string, valuePtr interface{}) (bool, error) {
	prefix := confPath + ConfPathSeparator
	sub := map[string]interface{}{}

	for k, v := range dc.cfg {
		if strings.HasPrefix(k, prefix) {
			sub[strings.TrimPrefix(k, prefix)] = v
		}
	}

	if len(sub) == 0 {
		return false, nil
	}

	if err := serializer.MapstructureWeakDecode(sub, valuePtr); err != nil {
		return true, fmt.Errorf("error decode config section %s: %w", confPath, err)
	}

	return true, nil
}
