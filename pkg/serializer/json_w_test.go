package serializer

import (
	"errors"
	"testing"

	"github.com/mailru/recordsync/pkg/serializer/errs"
)

func TestJSONMarshal(t *testing.T) {
	tests := []struct {
		name    string
		val     any
		want    string
		wantErr error
	}{
		{
			name: "simple map",
			val:  map[string]interface{}{"key": "value"},
			want: `{"key":"value"}`,
		},
		{
			name: "custom type",
			val:  Owner{Name: "Jane"},
			want: `{"name":"Jane"}`,
		},
		{
			name:    "unsupported value",
			val:     map[string]interface{}{"key": make(chan int)},
			wantErr: errs.ErrMarshalJSON,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JSONMarshal(tt.val)
			if tt.wantErr != err && !errors.Is(err, tt.wantErr) {
				t.Errorf("JSONMarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got != tt.want {
				t.Errorf("JSONMarshal() = %v, want %v", got, tt.want)
			}
		})
	}
}
