package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wayneashleyberry/findfile/pkg/search"
)

func newPrinter(format Format, sort bool) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer

	return &Printer{Out: &out, ErrOut: &errOut, Format: format, Sort: sort}, &out, &errOut
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		require.NoError(t, err)
		require.Equal(t, f, got)
	}

	_, err := ParseFormat("yaml")
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown format "yaml"`)
}

func TestPrinter_Text(t *testing.T) {
	t.Parallel()

	p, out, _ := newPrinter(FormatText, false)
	req := search.Request{Root: "/root", Target: "file1.txt"}
	res := search.Result{Paths: []string{"/root/b/file1.txt", "/root/a/file1.txt"}, Count: 2}

	require.NoError(t, p.Print(req, res))

	expected := "\nLocated 2 instance(s) of 'file1.txt' in these locations:\n" +
		"- /root/b/file1.txt\n" +
		"- /root/a/file1.txt\n"
	require.Equal(t, expected, out.String())
}

func TestPrinter_TextSorted(t *testing.T) {
	t.Parallel()

	p, out, _ := newPrinter(FormatText, true)
	req := search.Request{Root: "/root", Target: "file1.txt"}
	paths := []string{"/root/b/file1.txt", "/root/a/file1.txt"}
	res := search.Result{Paths: paths, Count: 2}

	require.NoError(t, p.Print(req, res))
	require.Contains(t, out.String(), "- /root/a/file1.txt\n- /root/b/file1.txt\n")

	// sorting happens on a copy
	require.Equal(t, "/root/b/file1.txt", paths[0])
}

func TestPrinter_TextNoMatches(t *testing.T) {
	t.Parallel()

	p, out, _ := newPrinter(FormatText, false)
	req := search.Request{Root: "/root", Target: "missing.txt"}

	require.NoError(t, p.Print(req, search.Result{Paths: []string{}}))
	require.Equal(t, "\nNo instances of 'missing.txt' found in '/root'\n", out.String())
}

func TestPrinter_Table(t *testing.T) {
	t.Parallel()

	p, out, errOut := newPrinter(FormatTable, true)
	req := search.Request{Root: "/root", Target: "file1.txt"}
	res := search.Result{Paths: []string{"/root/b/file1.txt", "/root/a/file1.txt"}, Count: 2}

	require.NoError(t, p.Print(req, res))
	require.Contains(t, out.String(), "1\t/root/a/file1.txt")
	require.Contains(t, out.String(), "2\t/root/b/file1.txt")
	require.Equal(t, "2 match(es)\n", errOut.String())
}

func TestPrinter_JSON(t *testing.T) {
	t.Parallel()

	p, out, _ := newPrinter(FormatJSON, false)
	req := search.Request{Root: "/root", Target: "file1.txt", CaseSensitive: true}
	res := search.Result{Paths: []string{"/root/file1.txt"}, Count: 1}

	require.NoError(t, p.Print(req, res))

	var got jsonResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, jsonResult{
		Root:          "/root",
		Target:        "file1.txt",
		CaseSensitive: true,
		Count:         1,
		Paths:         []string{"/root/file1.txt"},
	}, got)
	require.Contains(t, out.String(), `"count": 1`)
}

func TestPrinter_JSONEmptyPaths(t *testing.T) {
	t.Parallel()

	p, out, _ := newPrinter(FormatJSON, false)

	require.NoError(t, p.Print(search.Request{Root: "/root", Target: "x"}, search.Result{}))
	var got jsonResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.NotNil(t, got.Paths)
	require.Empty(t, got.Paths)
}
