package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/dropzone/config"
	"github.com/chrisuehlinger/dropzone/network"
	"github.com/chrisuehlinger/dropzone/page"
	"github.com/chrisuehlinger/dropzone/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML or YAML config file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [page.html|URL|demo]...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	log, err := config.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	client, err := network.NewClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	loader := network.NewLoader(
		network.WithClient(client),
		network.WithCache(network.NewCache(0)),
		network.WithLogger(log.Named("network")),
	)

	load := func(source string) (*page.Page, error) {
		opts := []page.Option{page.WithLogger(log), page.WithConfig(cfg), page.WithLoader(loader)}
		switch {
		case source == "demo":
			return page.OpenDemo(opts...)
		case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return page.OpenURL(ctx, source, opts...)
		default:
			return page.OpenFile(source, opts...)
		}
	}

	app := ui.NewApp(load, ui.WithLogger(log))

	sources := flag.Args()
	if len(sources) == 0 {
		sources = []string{"demo"}
	}
	for _, source := range sources {
		if err := app.OpenPage(source); err != nil {
			log.Error("open page", zap.String("source", source), zap.Error(err))
		}
	}

	app.Run()
}
