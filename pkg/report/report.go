// Package report renders search results for the command line.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/cli/go-gh/v2/pkg/jsonpretty"
	"github.com/cli/go-gh/v2/pkg/tableprinter"
	"github.com/fatih/color"
	"github.com/wayneashleyberry/findfile/pkg/search"
)

// Format selects how a result is rendered.
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatTable, FormatJSON}

// ParseFormat validates s as a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if slices.Contains(Formats, f) {
		return f, nil
	}

	return "", fmt.Errorf("unknown format %q, expected one of %v", s, Formats)
}

// Printer writes results to Out. TTY and Width describe the output
// terminal; when TTY is false the table and JSON formats are written without
// truncation or color.
type Printer struct {
	Out    io.Writer
	ErrOut io.Writer
	Format Format
	Sort   bool
	TTY    bool
	Color  bool
	Width  int
}

type jsonResult struct {
	Root          string   `json:"root"`
	Target        string   `json:"target"`
	CaseSensitive bool     `json:"case_sensitive"`
	Count         int      `json:"count"`
	Paths         []string `json:"paths"`
}

// Print renders res, which was produced by req.
func (p *Printer) Print(req search.Request, res search.Result) error {
	paths := res.Paths
	if p.Sort {
		paths = slices.Clone(paths)
		slices.Sort(paths)
	}

	switch p.Format {
	case FormatTable:
		return p.printTable(paths)
	case FormatJSON:
		return p.printJSON(req, res.Count, paths)
	default:
		return p.printText(req, res.Count, paths)
	}
}

func (p *Printer) printText(req search.Request, count int, paths []string) error {
	if count == 0 {
		_, err := fmt.Fprintf(p.Out, "\nNo instances of '%s' found in '%s'\n", req.Target, req.Root)

		return err
	}

	header := color.New(color.Bold)
	if !p.Color {
		header.DisableColor()
	}

	if _, err := header.Fprintf(p.Out, "\nLocated %d instance(s) of '%s' in these locations:\n", count, req.Target); err != nil {
		return err
	}

	for _, path := range paths {
		if _, err := fmt.Fprintf(p.Out, "- %s\n", path); err != nil {
			return err
		}
	}

	return nil
}

func (p *Printer) printTable(paths []string) error {
	tp := tableprinter.New(p.Out, p.TTY, p.Width)

	if p.TTY {
		tp.AddHeader([]string{"#", "PATH"})
	}

	for i, path := range paths {
		tp.AddField(strconv.Itoa(i + 1))
		tp.AddField(path, tableprinter.WithTruncate(nil))
		tp.EndRow()
	}

	if err := tp.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	if p.ErrOut != nil {
		_, _ = fmt.Fprintf(p.ErrOut, "%d match(es)\n", len(paths))
	}

	return nil
}

func (p *Printer) printJSON(req search.Request, count int, paths []string) error {
	if paths == nil {
		paths = []string{}
	}

	b, err := json.Marshal(jsonResult{
		Root:          req.Root,
		Target:        req.Target,
		CaseSensitive: req.CaseSensitive,
		Count:         count,
		Paths:         paths,
	})
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if err := jsonpretty.Format(p.Out, bytes.NewReader(b), "  ", p.Color); err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}

	return nil
}
