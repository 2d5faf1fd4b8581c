// Пакет timestamp приводит текстовые отметки времени разных систем
// к абсолютному моменту времени.
//
// Grammar описывает одно текстовое представление. Для грамматик без зоны
// нужно внешнее смещение Offset, самоописывающие грамматики его игнорируют.
// Все грамматики пакета неизменяемы и безопасны для конкурентного использования.
package timestamp

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/mailru/recordsync/pkg/precedence/errs"
)

type Grammar interface {
	Name() string
	// Zoneless - для Parse нужно смещение
	Zoneless() bool
	// Parse возвращает момент времени в UTC
	Parse(value string, offset Offset) (time.Time, error)
}

var (
	// USDateTime - формат "M/d/yyyy H:m:s" без зоны, 24-часовой, без долей секунды
	USDateTime Grammar = usDateTime{}

	// ISO8601 - дата и время ISO-8601 с обязательной зоной
	// ("Z", "+hh:mm", "+hhmm" или "+hh") и необязательной долей секунды
	ISO8601 Grammar = iso8601{}
)

var rxUSDateTime = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4}) (\d{1,2}):(\d{1,2}):(\d{1,2})$`)

var errCalendar = errors.New("invalid calendar value")

type usDateTime struct{}

func (usDateTime) Name() string   { return "M/d/yyyy H:m:s" }
func (usDateTime) Zoneless() bool { return true }

func (g usDateTime) Parse(value string, offset Offset) (time.Time, error) {
	m := rxUSDateTime.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}, errs.ParseFailure(g.Name(), value, errors.New("text does not match pattern"))
	}

	// группы - ограниченные по длине цифры, Atoi не вернёт ошибку
	n := [6]int{}
	for i := range n {
		n[i], _ = strconv.Atoi(m[i+1])
	}

	month, day, year, hour, minute, second := n[0], n[1], n[2], n[3], n[4], n[5]

	if hour > 23 || minute > 59 || second > 59 || month < 1 || month > 12 {
		return time.Time{}, errs.ParseFailure(g.Name(), value, errCalendar)
	}

	wall := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	if wall.Day() != day || int(wall.Month()) != month {
		return time.Time{}, errs.ParseFailure(g.Name(), value, errCalendar)
	}

	return Shift(wall, offset), nil
}

type iso8601 struct{}

// Доли секунды после поля секунд time.Parse принимает и без упоминания в layout
var iso8601Layouts = [...]string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
}

func (iso8601) Name() string   { return "ISO-8601" }
func (iso8601) Zoneless() bool { return false }

func (g iso8601) Parse(value string, _ Offset) (time.Time, error) {
	var firstErr error

	for _, layout := range iso8601Layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}

		if firstErr == nil {
			firstErr = err
		}
	}

	return time.Time{}, errs.ParseFailure(g.Name(), value, firstErr)
}

// Layout - грамматика без зоны, заданная layout-ом Go, например "2006-01-02 15:04:05".
// Зона в layout игнорируется, значение всегда считается локальным временем
type Layout string

func (l Layout) Name() string   { return fmt.Sprintf("layout %q", string(l)) }
func (l Layout) Zoneless() bool { return true }

func (l Layout) Parse(value string, offset Offset) (time.Time, error) {
	t, err := time.Parse(string(l), value)
	if err != nil {
		return time.Time{}, errs.ParseFailure(l.Name(), value, err)
	}

	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)

	return Shift(wall, offset), nil
}

// Shift переводит локальное время в зоне со смещением offset в UTC.
// Location у wall не учитывается
func Shift(wall time.Time, offset Offset) time.Time {
	return time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second(), wall.Nanosecond(), time.UTC).
		Add(-offset.Duration())
}
