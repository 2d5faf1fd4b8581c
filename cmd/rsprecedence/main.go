package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mailru/recordsync/internal/app"
	"github.com/mailru/recordsync/internal/pkg/ds"
)

// ldflags
var (
	Version     string
	BuildTime   string
	BuildOS     string
	BuildCommit string
)

// Код возврата, если хотя бы одна пара записей оказалась некорректной
const exitMalformed = 3

func getAppInfo() *ds.AppInfo {
	return ds.NewAppInfo().
		WithVersion(Version).
		WithBuildTime(BuildTime).
		WithBuildOS(BuildOS).
		WithBuildCommit(BuildCommit)
}

func main() {
	ctx := context.Background()
	configPath := flag.String("config", "", "Path to yaml config")
	inputPath := flag.String("in", "-", "Path to record pairs, `-` for stdin")
	format := flag.String("format", "json", "Input format: json or msgpack")
	offset := flag.String("offset", "", "Zone offset of source timestamps, e.g. -7 or +05:30")
	workers := flag.Int("workers", 0, "Number of concurrent workers, 0 - from config")
	version := flag.Bool("version", false, "print version")
	flag.Parse()

	if *version {
		fmt.Printf("Version %s; BuildCommit: %s\n", Version, BuildCommit)
		os.Exit(0)
	}

	inputFormat, err := ds.ParseInputFormat(*format)
	if err != nil {
		log.Fatalf("error initialization: %s", err)
	}

	params := ds.Params{
		ConfigPath: *configPath,
		InputPath:  *inputPath,
		Format:     inputFormat,
		Offset:     *offset,
		Workers:    *workers,
	}

	rs, err := app.Init(ctx, getAppInfo(), params)
	if err != nil {
		log.Fatalf("error initialization: %s", err)
	}

	res, err := rs.Run(os.Stdout)
	if err != nil {
		log.Fatalf("error resolve pairs: %s", err)
	}

	if res.Malformed() > 0 {
		log.Printf("%d of %d pairs are malformed", res.Malformed(), len(res.Outcomes))
		os.Exit(exitMalformed)
	}
}
