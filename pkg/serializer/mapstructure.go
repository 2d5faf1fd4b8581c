package serializer

import (
	"fmt"

	"github.com/mailru/mapstructure"

	"github.com/mailru/recordsync/pkg/serializer/errs"
)

// MapstructureDecode декодирует уже разобранное значение в структуру.
// Неиспользованные ключи считаются ошибкой
func MapstructureDecode(input interface{}, v any) error {
	return mapstructureDecode(input, v, &mapstructure.DecoderConfig{
		// Включает режим, при котором если какое-то поле не использовалось при декодировании, то возращается ошибка
		ErrorUnused: true,
		// Включает режим перезатирания, то есть при декодировании поля в целевой структуре сбрасываются до default value
		// По умолчанию mapstructure пытается смержить 2 объекта
		ZeroFields: true,
	})
}

// MapstructureWeakDecode то же, что MapstructureDecode, но с нестрогой типизацией
// и преобразованием строк вида "1s" в time.Duration. Используется для конфигурации
func MapstructureWeakDecode(input interface{}, v any) error {
	return mapstructureDecode(input, v, &mapstructure.DecoderConfig{
		ErrorUnused:      true,
		ZeroFields:       true,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
}

func mapstructureDecode(input interface{}, v any, config *mapstructure.DecoderConfig) error {
	config.Result = v

	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrMapstructureNewDecoder, err)
	}

	err = decoder.Decode(input)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrMapstructureDecode, err)
	}

	return nil
}
