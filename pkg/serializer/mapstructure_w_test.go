package serializer

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/mailru/recordsync/pkg/serializer/errs"
)

type Account struct {
	ID       string                 `mapstructure:"id"`
	Employee uint64                 `mapstructure:"number_of_employees"`
	Owner    *Owner                 `mapstructure:"owner"`
	Other    map[string]interface{} `mapstructure:",remain"`
}

type Owner struct {
	Name  string `mapstructure:"name" json:"name"`
	Email string `mapstructure:"email" json:"email,omitempty"`
}

func TestMapstructureDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		exec    func(interface{}) (any, error)
		want    any
		wantErr error
	}{
		{
			name:  "simple",
			input: map[string]interface{}{"number_of_employees": 250},
			exec: func(in interface{}) (any, error) {
				var got Account
				err := MapstructureDecode(in, &got)
				return got, err
			},
			want: Account{Employee: 250},
		},
		{
			name:  "with nested struct",
			input: map[string]interface{}{"id": "1-ABC", "owner": map[string]interface{}{"name": "Jane", "email": "jane@example.com"}},
			exec: func(in interface{}) (any, error) {
				var got Account
				err := MapstructureDecode(in, &got)
				return got, err
			},
			want: Account{ID: "1-ABC", Owner: &Owner{Name: "Jane", Email: "jane@example.com"}},
		},
		{
			name:  "nested map with interface keys",
			input: map[string]interface{}{"id": "1-ABC", "owner": map[interface{}]interface{}{"name": "Jane"}},
			exec: func(in interface{}) (any, error) {
				var got Account
				err := MapstructureDecode(in, &got)
				return got, err
			},
			want: Account{ID: "1-ABC", Owner: &Owner{Name: "Jane"}},
		},
		{
			name:  "mapstructure remain",
			input: map[string]interface{}{"id": "1-ABC", "LastModifiedDate": "12/09/2013 15:15:33"},
			exec: func(in interface{}) (any, error) {
				var got Account
				err := MapstructureDecode(in, &got)
				return got, err
			},
			want: Account{ID: "1-ABC", Other: map[string]interface{}{"LastModifiedDate": "12/09/2013 15:15:33"}},
		},
		{
			name:  "mapstructure err unused",
			input: map[string]interface{}{"id": "1-ABC", "unused_field": "unused"},
			exec: func(in interface{}) (any, error) {
				// Декодируем в структуру без поля c тегом `mapstructure:",remain"`
				var got struct {
					ID string `mapstructure:"id"`
				}
				err := MapstructureDecode(in, &got)
				return got, err
			},
			wantErr: errs.ErrMapstructureDecode,
		},
		{
			name:  "strict types",
			input: map[string]interface{}{"number_of_employees": "250"},
			exec: func(in interface{}) (any, error) {
				var got Account
				err := MapstructureDecode(in, &got)
				return got, err
			},
			wantErr: errs.ErrMapstructureDecode,
		},
		{
			name:  "mapstructure err create decoder",
			input: map[string]interface{}{"id": "1-ABC"},
			exec: func(in interface{}) (any, error) {
				var got Account
				// В mapstructurе вторым параметром надо отдавать pointer
				err := MapstructureDecode(in, got)
				return got, err
			},
			wantErr: errs.ErrMapstructureNewDecoder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.exec(tt.input)
			if tt.wantErr != err && !errors.Is(err, tt.wantErr) {
				t.Errorf("MapstructureDecode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MapstructureDecode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapstructureWeakDecode(t *testing.T) {
	var got struct {
		Workers int           `mapstructure:"workers"`
		Timeout time.Duration `mapstructure:"timeout"`
	}

	err := MapstructureWeakDecode(map[string]interface{}{"workers": "8", "timeout": "1500ms"}, &got)
	if err != nil {
		t.Fatalf("MapstructureWeakDecode() error = %v", err)
	}

	if got.Workers != 8 || got.Timeout != 1500*time.Millisecond {
		t.Errorf("MapstructureWeakDecode() = %+v", got)
	}

	if err := MapstructureWeakDecode(map[string]interface{}{"workers": "many"}, &got); !errors.Is(err, errs.ErrMapstructureDecode) {
		t.Errorf("MapstructureWeakDecode() error = %v, want %v", err, errs.ErrMapstructureDecode)
	}
}
