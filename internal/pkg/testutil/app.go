package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/mailru/recordsync/internal/pkg/ds"
)

var TestAppInfo = *ds.NewAppInfo().
	WithBuildOS(runtime.GOOS).
	WithBuildTime(time.Now().String()).
	WithVersion("1.0").
	WithBuildCommit("nocommit")

type Tmps struct {
	dirs []string
}

func InitTmps() *Tmps {
	return &Tmps{
		dirs: []string{},
	}
}

func (tmp *Tmps) AddTempDir(basepath ...string) (string, error) {
	rootTmpDir := os.TempDir()
	if len(basepath) > 0 {
		rootTmpDir = basepath[0]
	}

	newTempDir, err := os.MkdirTemp(rootTmpDir, "rsprecedence_testdir*")
	if err != nil {
		return "", fmt.Errorf("can't create temp dir for test: %s", err)
	}

	tmp.dirs = append(tmp.dirs, newTempDir)

	return newTempDir, nil
}

// WriteFile создаёт во временной директории файл с заданным содержимым и возвращает путь к нему
func (tmp *Tmps) WriteFile(name string, data []byte) (string, error) {
	dir, err := tmp.AddTempDir()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("can't write test file %s: %w", name, err)
	}

	return path, nil
}

func (tmp *Tmps) Defer() {
	for _, dir := range tmp.dirs {
		os.RemoveAll(dir)
	}
}
