// Command-line tool for finding files by name.
// Recursively searches a directory tree and prints every location of a file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"github.com/wayneashleyberry/findfile/pkg/report"
	"github.com/wayneashleyberry/findfile/pkg/search"
)

var errUsage = errors.New("usage: findfile [options] ROOT NAME")

func setDefaultLogger(w io.Writer, level slog.Leveler) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	logger := slog.New(handler)

	slog.SetDefault(logger)
}

func main() {
	ctx := context.Background()

	t := term.FromEnv()

	if err := run(ctx, t, os.Args); err != nil {
		_, _ = color.New(color.FgRed).Fprint(t.ErrOut(), "Error: ")
		_, _ = fmt.Fprintln(t.ErrOut(), err)
		os.Exit(1)
	}
}

// terminal is the part of term.Term that the app needs.
type terminal interface {
	Out() io.Writer
	ErrOut() io.Writer
	IsTerminalOutput() bool
	IsColorEnabled() bool
	Size() (int, int, error)
}

func run(ctx context.Context, t terminal, args []string) error {
	return newApp(t).RunContext(ctx, args)
}

func newApp(t terminal) *cli.App {
	setDefaultLogger(t.ErrOut(), slog.LevelInfo)

	return &cli.App{
		Name:      "findfile",
		Usage:     "Perform a recursive search for a specific file",
		ArgsUsage: "[options] ROOT NAME",
		Writer:    t.Out(),
		ErrWriter: t.ErrOut(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "case-insensitive",
				Aliases: []string{"ci", "i"},
				Usage:   "Enable case-insensitive file search",
				EnvVars: []string{"FINDFILE_CASE_INSENSITIVE"},
			},
			&cli.StringFlag{
				Name:    "format",
				Value:   string(report.FormatText),
				Usage:   "Output format: text, table or json",
				EnvVars: []string{"FINDFILE_FORMAT"},
			},
			&cli.BoolFlag{
				Name:    "sort",
				Usage:   "Sort matched paths before printing",
				EnvVars: []string{"FINDFILE_SORT"},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Value:   false,
				Usage:   "Print debug logs",
				EnvVars: []string{"FINDFILE_DEBUG"},
				Action: func(_ *cli.Context, v bool) error {
					if v {
						setDefaultLogger(t.ErrOut(), slog.LevelDebug)
					}

					return nil
				},
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() > 2 {
				for _, arg := range c.Args().Slice()[2:] {
					if strings.HasPrefix(arg, "-") {
						return fmt.Errorf("%w: flag %s must come before ROOT and NAME", errUsage, arg)
					}
				}
			}

			if c.NArg() != 2 {
				return errUsage
			}

			format, err := report.ParseFormat(c.String("format"))
			if err != nil {
				return err
			}

			req := search.Request{
				Root:          c.Args().Get(0),
				Target:        c.Args().Get(1),
				CaseSensitive: !c.Bool("case-insensitive"),
			}

			res, err := search.Search(c.Context, req)
			if err != nil {
				return fmt.Errorf("failed to search: %w", err)
			}

			width, _, err := t.Size()
			if err != nil {
				width = 80
			}

			p := &report.Printer{
				Out:    c.App.Writer,
				ErrOut: c.App.ErrWriter,
				Format: format,
				Sort:   c.Bool("sort"),
				TTY:    t.IsTerminalOutput(),
				Color:  t.IsColorEnabled(),
				Width:  width,
			}

			return p.Print(req, res)
		},
	}
}
