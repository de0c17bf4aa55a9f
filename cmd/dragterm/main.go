// Command dragterm runs a drag-and-drop page in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/dropzone/config"
	"github.com/chrisuehlinger/dropzone/page"
	"github.com/chrisuehlinger/dropzone/term"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML or YAML config file")
	pagePath := flag.String("page", "", "HTML file or URL to open (default: built-in demo)")
	script := flag.String("script", "", "Extra script to run after the page's own")
	logFile := flag.String("log", "", "Write logs to this file")
	sound := flag.Bool("sound", false, "Play cues on pickup, drop and cancel")
	flag.Parse()

	if err := run(*configPath, *pagePath, *script, *logFile, *sound); err != nil {
		fmt.Fprintf(os.Stderr, "dragterm: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, pagePath, script, logFile string, sound bool) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}

	// stderr belongs to the screen, so logs are off unless sent to a file.
	log := zap.NewNop()
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if cfg.Log.File != "" {
		l, err := config.NewLogger(cfg.Log)
		if err != nil {
			return err
		}
		defer l.Sync()
		log = l
	}

	opts := []page.Option{page.WithLogger(log), page.WithConfig(cfg)}
	if script != "" {
		data, err := os.ReadFile(script)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		opts = append(opts, page.WithScript(script, string(data)))
	}
	var (
		p   *page.Page
		err error
	)
	switch {
	case pagePath == "":
		p, err = page.OpenDemo(opts...)
	case strings.HasPrefix(pagePath, "http://"), strings.HasPrefix(pagePath, "https://"):
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		p, err = page.OpenURL(ctx, pagePath, opts...)
		cancel()
	default:
		p, err = page.OpenFile(pagePath, opts...)
	}
	if err != nil {
		return err
	}
	defer p.Close()

	hostOpts := []term.Option{term.WithLogger(log)}
	if sound {
		sp, err := term.NewSpeaker()
		if err != nil {
			log.Warn("sound disabled", zap.Error(err))
		} else {
			hostOpts = append(hostOpts, term.WithBeeper(sp))
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	host := term.NewHost(screen, p, hostOpts...)
	defer host.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := host.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
