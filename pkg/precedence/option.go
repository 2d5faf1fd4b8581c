package precedence

import (
	"github.com/mailru/recordsync/pkg/timestamp"
)

type Option interface {
	apply(*Resolver)
}

type optionFunc func(*Resolver)

func (o optionFunc) apply(r *Resolver) {
	o(r)
}

// WithField задаёт имя поля со временем последнего изменения
func WithField(field string) Option {
	return optionFunc(func(r *Resolver) {
		r.field = field
	})
}

// WithIDField задаёт имя поля с идентификатором записи в системе назначения
func WithIDField(field string) Option {
	return optionFunc(func(r *Resolver) {
		r.idField = field
	})
}

func WithSourceGrammar(g timestamp.Grammar) Option {
	return optionFunc(func(r *Resolver) {
		r.source = g
	})
}

func WithDestinationGrammar(g timestamp.Grammar) Option {
	return optionFunc(func(r *Resolver) {
		r.destination = g
	})
}

// WithDefaultOffset задаёт смещение, которое используется, если при вызове
// смещение не передано. Без этой опции пустое смещение является ошибкой
// конфигурации для источника без зоны.
func WithDefaultOffset(o timestamp.Offset) Option {
	return optionFunc(func(r *Resolver) {
		r.defaultOffset = &o
	})
}

// WithZonelessUTC трактует время источника без смещения как UTC
func WithZonelessUTC() Option {
	return WithDefaultOffset(0)
}
