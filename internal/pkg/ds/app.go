package ds

import (
	"fmt"
	"strings"
	"time"
)

// Описание приложения. Информация выводится по флагу -version
// и попадает в лог при старте, что бы было понятно какой сборкой приняты решения
type AppInfo struct {
	appName     string
	version     string
	buildTime   string
	buildOS     string
	buildCommit string
	startTime   string
}

// Конструктор для AppInfo
func NewAppInfo() *AppInfo {
	return &AppInfo{
		appName:   "rsprecedence",
		startTime: time.Now().Format(time.RFC3339),
	}
}

// Опции для конструктора, используются для модификации полей структуры
func (i *AppInfo) WithVersion(version string) *AppInfo {
	i.version = version
	return i
}

func (i *AppInfo) WithBuildTime(buildTime string) *AppInfo {
	i.buildTime = buildTime
	return i
}

func (i *AppInfo) WithBuildOS(buildOS string) *AppInfo {
	i.buildOS = buildOS
	return i
}

func (i *AppInfo) WithBuildCommit(commit string) *AppInfo {
	i.buildCommit = commit
	return i
}

// Строковое представление версии утилиты
func (i *AppInfo) String() string {
	return fmt.Sprintf("%s@%s (Commit: %s)", i.appName, i.version, i.buildCommit)
}

func (i *AppInfo) StartTime() string {
	return i.startTime
}

// Формат входного потока пар
type InputFormat string

const (
	InputFormatJSON    InputFormat = "json"
	InputFormatMsgpack InputFormat = "msgpack"
)

func ParseInputFormat(name string) (InputFormat, error) {
	switch f := InputFormat(strings.ToLower(strings.TrimSpace(name))); f {
	case "", InputFormatJSON:
		return InputFormatJSON, nil
	case InputFormatMsgpack:
		return InputFormatMsgpack, nil
	default:
		return "", fmt.Errorf("unknown input format `%s`", name)
	}
}

// Параметры запуска приложения
// ConfigPath - путь к yaml конфигурации, может быть пустым
// InputPath - файл с парами записей, пустой или "-" означает stdin
// Offset и Workers переопределяют значения из конфигурации, если заданы
type Params struct {
	ConfigPath string
	InputPath  string
	Format     InputFormat
	Offset     string
	Workers    int
}
