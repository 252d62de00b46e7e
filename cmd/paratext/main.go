// Command paratext lays out a paragraph, prints its lines and writes the
// rendered text and the glyph atlas pages as PNG files.
//
// Usage:
//
//	paratext [flags] [file]
//
// The text is read from file, or from --text when no file is given. With
// --watch the file is laid out again every time it changes.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/spf13/pflag"

	"github.com/gogpu/paratext"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if cfg.debug {
		paratext.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	r, err := newRenderer(cfg)
	if err != nil {
		return err
	}

	if !cfg.watch {
		return render(r, cfg)
	}
	if cfg.input == "" {
		return fmt.Errorf("--watch needs an input file")
	}
	w, err := newWatcher(cfg.input, func() {
		if err := render(r, cfg); err != nil {
			pterm.Error.Println(err)
		}
	})
	if err != nil {
		return err
	}
	defer w.close()
	pterm.Info.Printf("watching %s, quit with ctrl+C\n", cfg.input)
	return w.run(ctx)
}
