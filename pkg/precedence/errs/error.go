// Package errs содержит виды ошибок, которые возвращает резолвер
// и слой пакетной обработки.
//
// Все ошибки, возвращаемые наружу, оборачивают один из сентинелов,
// поэтому вызывающий код проверяет вид ошибки через errors.Is или KindOf.
package errs

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	ErrNullArgument   = errors.New("null argument")
	ErrMissingField   = errors.New("missing field")
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrParseFailure   = errors.New("parse failure")
	ErrOffsetRequired = errors.New("offset required")
)

// Вид ошибки, используется для подсчёта и классификации результатов
type Kind uint8

const (
	KindNone Kind = iota
	KindNullArgument
	KindMissingField
	KindTypeMismatch
	KindParseFailure
	KindOffsetRequired
	KindUnknown
)

var kindNames = [...]string{
	KindNone:           "none",
	KindNullArgument:   "null_argument",
	KindMissingField:   "missing_field",
	KindTypeMismatch:   "type_mismatch",
	KindParseFailure:   "parse_failure",
	KindOffsetRequired: "offset_required",
	KindUnknown:        "unknown",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// KindOf возвращает вид ошибки. Для nil возвращается KindNone,
// для ошибок не из этого пакета - KindUnknown
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNullArgument):
		return KindNullArgument
	case errors.Is(err, ErrMissingField):
		return KindMissingField
	case errors.Is(err, ErrTypeMismatch):
		return KindTypeMismatch
	case errors.Is(err, ErrParseFailure):
		return KindParseFailure
	case errors.Is(err, ErrOffsetRequired):
		return KindOffsetRequired
	default:
		return KindUnknown
	}
}

// Базовая функция для отображения ошибки.
// Ошибка это структура с любым набором полей,
// поле Err содержит вложенную ошибку и печатается с новой строки
func ErrorBase(errStruct interface{}) string {
	reflV := reflect.ValueOf(errStruct).Elem()
	reflT := reflV.Type()
	fmtO := []string{}
	param := []interface{}{}

	for i := 0; i < reflV.NumField(); i++ {
		fieldT := reflT.Field(i)
		fieldV := reflV.Field(i)

		form, ok := fieldT.Tag.Lookup("format")
		if !ok {
			form = "%s"
		}

		if fieldT.Name == "Err" {
			fmtO = append(fmtO, "\n\t"+form)
		} else {
			fmtO = append(fmtO, fieldT.Name+": `"+form+"`")
		}

		param = append(param, fieldV.Interface())
	}

	return fmt.Sprintf(reflT.Name()+" "+strings.Join(fmtO, "; "), param...)
}

// Описание ошибки валидации поля записи
type ErrField struct {
	Record string
	Field  string
	Value  interface{} `format:"%T"`
	Err    error
}

func (e *ErrField) Error() string {
	return ErrorBase(e)
}

func (e *ErrField) Unwrap() error {
	return e.Err
}

// Описание ошибки разбора текстового значения (время или смещение)
type ErrParse struct {
	Grammar string
	Value   string
	Err     error
}

func (e *ErrParse) Error() string {
	return ErrorBase(e)
}

func (e *ErrParse) Unwrap() error {
	return e.Err
}

// ParseFailure оборачивает причину ошибки разбора в ErrParse
// так, что errors.Is(err, ErrParseFailure) истинно
func ParseFailure(grammar, value string, reason error) error {
	return &ErrParse{
		Grammar: grammar,
		Value:   value,
		Err:     fmt.Errorf("%w: %v", ErrParseFailure, reason),
	}
}
