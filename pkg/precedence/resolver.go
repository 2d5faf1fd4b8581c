// Package precedence решает, какая из двух записей об одной сущности
// изменена позже: запись системы-источника или запись системы назначения.
//
// Время источника хранится без зоны и нормализуется с помощью внешнего
// смещения, время системы назначения самоописывающее (ISO-8601).
// Результат используется конвейером миграции для выбора действия над
// записью в системе назначения: создать, обновить или пропустить.
package precedence

import (
	"fmt"
	"time"

	"github.com/mailru/recordsync/pkg/precedence/errs"
	"github.com/mailru/recordsync/pkg/timestamp"
)

const (
	sourceName      = "source"
	destinationName = "destination"
)

// Resolver неизменяем после создания и безопасен для конкурентного использования
type Resolver struct {
	field         string
	idField       string
	source        timestamp.Grammar
	destination   timestamp.Grammar
	defaultOffset *timestamp.Offset
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		field:       DefaultField,
		idField:     DefaultIDField,
		source:      timestamp.USDateTime,
		destination: timestamp.ISO8601,
	}

	for _, opt := range opts {
		opt.apply(r)
	}

	return r
}

var defaultResolver = NewResolver()

// Default возвращает резолвер с настройками по умолчанию
func Default() *Resolver {
	return defaultResolver
}

// IsAfter вызывает Default().IsAfter
func IsAfter(source, destination Record, offsetSpec string) (bool, error) {
	return defaultResolver.IsAfter(source, destination, offsetSpec)
}

func (r *Resolver) Field() string {
	return r.field
}

// IsAfter сообщает, что запись источника изменена строго позже записи
// системы назначения.
//
// Если у записи назначения нет времени изменения (ключа нет или значение nil),
// возвращается true. Отсутствие ключа в записи источника - ошибка.
// offsetSpec - смещение зоны источника в формате [sign]HH[:MM[:SS[.mmm]]].
func (r *Resolver) IsAfter(source, destination Record, offsetSpec string) (bool, error) {
	if source == nil {
		return false, &errs.ErrField{Record: sourceName, Field: r.field, Err: errs.ErrNullArgument}
	}

	if destination == nil {
		return false, &errs.ErrField{Record: destinationName, Field: r.field, Err: errs.ErrNullArgument}
	}

	srcValue, ok := source.Lookup(r.field)
	if !ok {
		return false, &errs.ErrField{Record: sourceName, Field: r.field, Err: errs.ErrMissingField}
	}

	if !destination.Known(r.field) {
		return true, nil
	}

	srcTime, err := r.sourceInstant(srcValue, offsetSpec)
	if err != nil {
		return false, err
	}

	dstTime, err := r.destinationInstant(destination[r.field])
	if err != nil {
		return false, err
	}

	return srcTime.After(dstTime), nil
}

func (r *Resolver) sourceInstant(value interface{}, offsetSpec string) (time.Time, error) {
	text, ok := value.(string)
	if !ok {
		return time.Time{}, &errs.ErrField{Record: sourceName, Field: r.field, Value: value, Err: errs.ErrTypeMismatch}
	}

	offset, err := r.offset(offsetSpec)
	if err != nil {
		return time.Time{}, err
	}

	return r.source.Parse(text, offset)
}

func (r *Resolver) destinationInstant(value interface{}) (time.Time, error) {
	text, ok := value.(string)
	if !ok {
		return time.Time{}, &errs.ErrField{Record: destinationName, Field: r.field, Value: value, Err: errs.ErrTypeMismatch}
	}

	// Смещение задаётся только для источника
	return r.destination.Parse(text, 0)
}

// Offset возвращает смещение, которое будет применено ко времени источника
func (r *Resolver) Offset(offsetSpec string) (timestamp.Offset, error) {
	return r.offset(offsetSpec)
}

func (r *Resolver) offset(offsetSpec string) (timestamp.Offset, error) {
	if offsetSpec != "" {
		return timestamp.ParseOffset(offsetSpec)
	}

	if !r.source.Zoneless() {
		return 0, nil
	}

	if r.defaultOffset != nil {
		return *r.defaultOffset, nil
	}

	return 0, fmt.Errorf("%w: grammar %s of %s has no zone", errs.ErrOffsetRequired, r.source.Name(), sourceName)
}
