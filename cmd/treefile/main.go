package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/desertwitch/treefile"
	"github.com/desertwitch/treefile/cborcodec"
	"github.com/desertwitch/treefile/yamlcodec"
	"github.com/lmittmann/tint"
)

//nolint:gochecknoglobals
var (
	ExitCode = 0
	Version  string

	rootPath  = flag.String("root", "", "tree root (file or directory)")
	codecName = flag.String("codec", "", "codec for file-shaped branches (yaml, cbor)")
	preload   = flag.Int("preload", 0, "directory levels to load eagerly (-1 for all)")
	readonly  = flag.Bool("readonly", false, "fail all mutating operations")
	writeBack = flag.Bool("write", false, "write the tree back to disk after all operations")
	envFile   = flag.String("env", "", "env file with configuration defaults")
)

func setupLogging() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: time.Kitchen,
		}),
	))
}

func establishCodec(name string) (treefile.Codec, error) {
	switch name {
	case "", "yaml":
		return yamlcodec.Codec{}, nil
	case "cbor":
		return cborcodec.New()
	default:
		return nil, errUnknownCodec(name)
	}
}

func main() {
	defer func() {
		os.Exit(ExitCode)
	}()

	flag.Parse()
	setupLogging()

	configProvider := &GodotenvProvider{}
	config := establishConfig(configProvider, *envFile)

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "root":
			config.Root = *rootPath
		case "codec":
			config.Codec = *codecName
		case "preload":
			config.Preload = *preload
		case "readonly":
			config.Readonly = *readonly
		}
	})

	if config.Root == "" {
		slog.Error("No tree root given (use -root or TREEFILE_ROOT).")
		ExitCode = 1

		return
	}

	codec, err := establishCodec(config.Codec)
	if err != nil {
		slog.Error("Failed to establish codec.", "err", err)
		ExitCode = 1

		return
	}

	tree, err := treefile.Load(config.Root, codec, treefile.Options{
		Readonly: config.Readonly,
		Preload:  config.Preload,
	})
	if err != nil {
		slog.Error("Failed to load tree.", "err", err, "root", config.Root)
		ExitCode = 1

		return
	}

	app := NewApp(tree, config)

	if err := app.Run(flag.Args()); err != nil {
		slog.Error("Operation failed.", "err", err)
		ExitCode = 1

		return
	}

	if *writeBack {
		if err := app.WriteBack(); err != nil {
			slog.Error("Failed to write tree.", "err", err, "root", config.Root)
			ExitCode = 1

			return
		}
	}
}
