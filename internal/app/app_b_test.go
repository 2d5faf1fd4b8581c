package app_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"gotest.tools/assert"
	"gotest.tools/assert/cmp"

	"github.com/mailru/recordsync/internal/app"
	"github.com/mailru/recordsync/internal/pkg/ds"
	"github.com/mailru/recordsync/internal/pkg/testutil"
	"github.com/mailru/recordsync/pkg/precedence"
	"github.com/mailru/recordsync/pkg/precedence/errs"
	"github.com/mailru/recordsync/pkg/serializer"
)

const testConfig = `
precedence:
  offset: "-7"
batch:
  workers: 2
log:
  level: error
`

const testPairs = `
{"id": "a1", "source": {"LastModifiedDate": "12/10/2013 15:15:33"}, "destination": {"LastModifiedDate": "2013-12-09T22:15:33.001Z", "Id": "001A"}}
{"id": "a2", "source": {"LastModifiedDate": "12/09/2013 15:15:33"}, "destination": {"LastModifiedDate": "2013-12-09T22:15:33.001Z", "Id": "001B"}}
{"id": "a3", "source": {"LastModifiedDate": "12/09/2013 15:15:33"}, "destination": {}}
{"id": "a4", "source": {}, "destination": {"LastModifiedDate": "2013-12-09T22:15:33.001Z"}}
`

func TestInit(t *testing.T) {
	tempDirs := testutil.InitTmps()
	defer tempDirs.Defer()

	cfgPath, err := tempDirs.WriteFile("config.yaml", []byte(testConfig))
	assert.NilError(t, err)

	badLevel, err := tempDirs.WriteFile("level.yaml", []byte("log:\n  level: loud\n"))
	assert.NilError(t, err)

	badWorkers, err := tempDirs.WriteFile("workers.yaml", []byte("precedence:\n  offset: \"-7\"\nbatch:\n  workers: 0\n"))
	assert.NilError(t, err)

	zoneless, err := tempDirs.WriteFile("zoneless.yaml", []byte("precedence:\n  require_offset: false\n"))
	assert.NilError(t, err)

	unquoted, err := tempDirs.WriteFile("unquoted.yaml", []byte("precedence:\n  offset: -7\n  require_offset: false\n"))
	assert.NilError(t, err)

	listOffset, err := tempDirs.WriteFile("list.yaml", []byte("precedence:\n  offset: [7]\n"))
	assert.NilError(t, err)

	tests := []struct {
		name        string
		params      ds.Params
		wantWorkers int
		wantOffset  string
		wantErr     string
		wantKind    errs.Kind
	}{
		{
			name:        "config file",
			params:      ds.Params{ConfigPath: cfgPath},
			wantWorkers: 2,
			wantOffset:  "-7",
		},
		{
			name:        "flags override config",
			params:      ds.Params{ConfigPath: cfgPath, Offset: "+03:30", Workers: 8},
			wantWorkers: 8,
			wantOffset:  "+03:30",
		},
		{
			name:        "no config, offset flag",
			params:      ds.Params{Offset: "-7"},
			wantWorkers: 4,
			wantOffset:  "-7",
		},
		{
			name:        "offset not required",
			params:      ds.Params{ConfigPath: zoneless},
			wantWorkers: 4,
		},
		{
			name:        "unquoted offset",
			params:      ds.Params{ConfigPath: unquoted},
			wantWorkers: 4,
			wantOffset:  "-7",
		},
		{
			name:    "offset of wrong type",
			params:  ds.Params{ConfigPath: listOffset},
			wantErr: "precedence/offset has type",
		},
		{
			name:     "no offset",
			params:   ds.Params{},
			wantErr:  "invalid offset",
			wantKind: errs.KindOffsetRequired,
		},
		{
			name:     "malformed offset",
			params:   ds.Params{Offset: "-7:-30"},
			wantErr:  "invalid offset",
			wantKind: errs.KindParseFailure,
		},
		{
			name:    "missing config",
			params:  ds.Params{ConfigPath: cfgPath + ".nonexists"},
			wantErr: "can't open config",
		},
		{
			name:    "bad log level",
			params:  ds.Params{ConfigPath: badLevel},
			wantErr: "unknown log level",
		},
		{
			name:    "bad workers",
			params:  ds.Params{ConfigPath: badWorkers},
			wantErr: "batch/workers must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := app.Init(context.Background(), &testutil.TestAppInfo, tt.params)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				assert.Check(t, got == nil)

				if tt.wantKind != errs.KindNone {
					assert.Equal(t, errs.KindOf(errors.Cause(err)), tt.wantKind)
				}

				return
			}

			assert.NilError(t, err)
			assert.Equal(t, got.BatchOptions().Workers, tt.wantWorkers)
			assert.Equal(t, got.BatchOptions().Offset, tt.wantOffset)
		})
	}
}

func TestRunJSON(t *testing.T) {
	tempDirs := testutil.InitTmps()
	defer tempDirs.Defer()

	cfgPath, err := tempDirs.WriteFile("config.yaml", []byte(testConfig))
	assert.NilError(t, err)

	inPath, err := tempDirs.WriteFile("pairs.jsonl", []byte(testPairs))
	assert.NilError(t, err)

	a, err := app.Init(context.Background(), &testutil.TestAppInfo, ds.Params{ConfigPath: cfgPath, InputPath: inPath})
	assert.NilError(t, err)

	out := &bytes.Buffer{}

	res, err := a.Run(out)
	assert.NilError(t, err)
	assert.Equal(t, res.Malformed(), 1)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Check(t, cmp.Len(lines, 4))
	assert.Equal(t, lines[0], `{"index":0,"id":"a1","action":"update","after":true}`)
	assert.Equal(t, lines[1], `{"index":1,"id":"a2","action":"skip","after":false}`)
	assert.Equal(t, lines[2], `{"index":2,"id":"a3","action":"create","after":true}`)
	assert.Check(t, cmp.Contains(lines[3], `"error_kind":"missing_field"`))

	assert.Equal(t, a.Metric().Counter("stat.precedence.update.pair"), float64(1))
	assert.Equal(t, a.Metric().Counter("error.precedence.missing_field.pair"), float64(1))
}

func TestRunMsgpack(t *testing.T) {
	tempDirs := testutil.InitTmps()
	defer tempDirs.Defer()

	buf := []byte{}

	for _, p := range []precedence.Pair{
		{ID: "m1", Source: precedence.Record{"LastModifiedDate": "12/10/2013 15:15:33"}, Destination: precedence.Record{"LastModifiedDate": "2013-12-09T22:15:33.001Z"}},
		{ID: "m2", Source: precedence.Record{"LastModifiedDate": "12/09/2013 15:15:33"}, Destination: precedence.Record{"LastModifiedDate": "2013-12-09T22:15:33.001Z"}},
	} {
		data, err := serializer.MsgpackMarshal(p)
		assert.NilError(t, err)

		buf = append(buf, data...)
	}

	inPath, err := tempDirs.WriteFile("pairs.msgpack", buf)
	assert.NilError(t, err)

	a, err := app.Init(context.Background(), &testutil.TestAppInfo, ds.Params{InputPath: inPath, Format: ds.InputFormatMsgpack, Offset: "-7"})
	assert.NilError(t, err)

	out := &bytes.Buffer{}

	res, err := a.Run(out)
	assert.NilError(t, err)
	assert.Equal(t, res.Malformed(), 0)
	assert.Equal(t, res.Actions[precedence.ActionCreate], 1)
	assert.Equal(t, res.Actions[precedence.ActionSkip], 1)
}

func TestRunErrors(t *testing.T) {
	tempDirs := testutil.InitTmps()
	defer tempDirs.Defer()

	broken, err := tempDirs.WriteFile("broken.json", []byte(`[{"id": "x", "source": {}`))
	assert.NilError(t, err)

	unknownKey, err := tempDirs.WriteFile("unknown.json", []byte(`{"id": "x", "source": {}, "destination": {}, "extra": 1}`))
	assert.NilError(t, err)

	tests := []struct {
		name    string
		params  ds.Params
		wantErr string
	}{
		{name: "missing input", params: ds.Params{InputPath: broken + ".nonexists", Offset: "-7"}, wantErr: "can't open input"},
		{name: "broken json", params: ds.Params{InputPath: broken, Offset: "-7"}, wantErr: "can't read json pairs"},
		{name: "unknown key", params: ds.Params{InputPath: unknownKey, Offset: "-7"}, wantErr: "can't read json pairs"},
		{name: "unsupported format", params: ds.Params{InputPath: broken, Offset: "-7", Format: "xml"}, wantErr: "unsupported input format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := app.Init(context.Background(), &testutil.TestAppInfo, tt.params)
			assert.NilError(t, err)

			_, err = a.Run(&bytes.Buffer{})
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
