package timestamp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mailru/recordsync/pkg/precedence/errs"
)

const offsetGrammar = "offset"

// Модуль смещения строго меньше суток
const maxOffset = 24 * time.Hour

// Ограничение длины одного компонента, что бы перевод в миллисекунды не переполнился
const magnitudeDigits = 9

var (
	errOffsetEmpty      = errors.New("empty offset")
	errOffsetComponents = errors.New("too many components")
	errOffsetFraction   = errors.New("fraction is allowed only after seconds")
	errOffsetRange      = errors.New("offset magnitude must be less than 24h")
)

// Offset - фиксированное смещение в миллисекундах между локальным временем
// без зоны и UTC. Переход на летнее время не учитывается.
type Offset int64

// OffsetOf переводит d в Offset с отбрасыванием долей миллисекунды
func OffsetOf(d time.Duration) Offset {
	return Offset(d / time.Millisecond)
}

func (o Offset) Millis() int64 {
	return int64(o)
}

func (o Offset) Duration() time.Duration {
	return time.Duration(o) * time.Millisecond
}

// String возвращает смещение в виде [sign]HH:MM:SS.mmm, ParseOffset его принимает
func (o Offset) String() string {
	sign := "+"

	ms := int64(o)
	if ms < 0 {
		sign = "-"
		ms = -ms
	}

	return fmt.Sprintf("%s%02d:%02d:%02d.%03d",
		sign,
		ms/3600000,
		ms/60000%60,
		ms/1000%60,
		ms%1000,
	)
}

// ParseOffset разбирает смещение вида [sign]HH[:MM[:SS[.mmm]]].
//
// Знак относится ко всему смещению, компоненты - беззнаковые десятичные
// числа, поэтому "-7:-30" - ошибка. Цифры после точки задают долю секунды:
// ".5" это 500ms.
func ParseOffset(spec string) (Offset, error) {
	if spec == "" {
		return 0, errs.ParseFailure(offsetGrammar, spec, errOffsetEmpty)
	}

	neg := false
	rest := spec

	switch spec[0] {
	case '-':
		neg = true
		rest = spec[1:]
	case '+':
		rest = spec[1:]
	}

	parts := strings.Split(rest, ":")
	if len(parts) > 3 {
		return 0, errs.ParseFailure(offsetGrammar, spec, errOffsetComponents)
	}

	var ms int64

	last := parts[len(parts)-1]
	if i := strings.IndexByte(last, '.'); i >= 0 {
		if len(parts) != 3 {
			return 0, errs.ParseFailure(offsetGrammar, spec, errOffsetFraction)
		}

		frac, err := parseFraction(last[i+1:])
		if err != nil {
			return 0, errs.ParseFailure(offsetGrammar, spec, err)
		}

		ms += frac
		parts[len(parts)-1] = last[:i]
	}

	units := [...]int64{3600000, 60000, 1000}

	for i, p := range parts {
		n, err := parseMagnitude(p)
		if err != nil {
			return 0, errs.ParseFailure(offsetGrammar, spec, err)
		}

		ms += n * units[i]
	}

	if ms >= int64(maxOffset/time.Millisecond) {
		return 0, errs.ParseFailure(offsetGrammar, spec, errOffsetRange)
	}

	if neg {
		ms = -ms
	}

	return Offset(ms), nil
}

func parseMagnitude(s string) (int64, error) {
	if s == "" {
		return 0, errors.New("empty component")
	}

	if len(s) > magnitudeDigits {
		return 0, fmt.Errorf("component %q is too long", s)
	}

	if !isDigits(s) {
		return 0, fmt.Errorf("component %q is not an unsigned number", s)
	}

	return strconv.ParseInt(s, 10, 64)
}

// parseFraction переводит до трёх цифр доли секунды в миллисекунды
func parseFraction(s string) (int64, error) {
	if s == "" || len(s) > 3 || !isDigits(s) {
		return 0, fmt.Errorf("fraction %q must be 1 to 3 digits", s)
	}

	n, err := strconv.ParseInt(s+strings.Repeat("0", 3-len(s)), 10, 64)
	if err != nil {
		return 0, err
	}

	return n, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
