package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorBase(t *testing.T) {
	type args struct {
		errStruct interface{}
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			name: "field error",
			args: args{
				errStruct: &ErrField{
					Record: "source",
					Field:  "LastModifiedDate",
					Value:  42,
					Err:    ErrTypeMismatch,
				},
			},
			want: "ErrField Record: `source`; Field: `LastModifiedDate`; Value: `int`; \n\ttype mismatch",
		},
		{
			name: "parse error",
			args: args{
				errStruct: &ErrParse{
					Grammar: "offset",
					Value:   "x",
					Err:     ErrParseFailure,
				},
			},
			want: "ErrParse Grammar: `offset`; Value: `x`; \n\tparse failure",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorBase(tt.args.errStruct); got != tt.want {
				t.Errorf("ErrorBase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: KindNone},
		{name: "null argument", err: &ErrField{Err: ErrNullArgument}, want: KindNullArgument},
		{name: "missing field", err: &ErrField{Err: ErrMissingField}, want: KindMissingField},
		{name: "type mismatch", err: &ErrField{Err: ErrTypeMismatch}, want: KindTypeMismatch},
		{name: "parse failure", err: ParseFailure("offset", "x", errors.New("bad")), want: KindParseFailure},
		{name: "offset required", err: fmt.Errorf("%w: no zone", ErrOffsetRequired), want: KindOffsetRequired},
		{name: "wrapped twice", err: fmt.Errorf("pair 1: %w", &ErrField{Err: ErrMissingField}), want: KindMissingField},
		{name: "foreign", err: errors.New("boom"), want: KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := Kind(200).String(); got != "kind(200)" {
		t.Errorf("Kind(200).String() = %q", got)
	}
}
