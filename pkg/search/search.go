// Package search implements a recursive, depth-first file name search. It
// walks a directory tree, collects the absolute path of every regular file
// whose name matches a target, and reports directories it could not read
// without aborting the walk.
package search

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/patrickmn/go-cache"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrNotFound is returned when the root directory does not exist.
	ErrNotFound = errors.New("specified directory does not exist")

	// ErrNotADirectory is returned when the root exists but is not a directory.
	ErrNotADirectory = errors.New("path is not a directory")

	// ErrCycle is wrapped by warnings for symlinked directories that point
	// back at one of their own ancestors.
	ErrCycle = errors.New("symlink cycle")
)

// Request describes a single search.
type Request struct {
	Root          string
	Target        string
	CaseSensitive bool
}

// Result holds the matched paths of a search. Count always equals
// len(Paths).
type Result struct {
	Paths []string
	Count int
}

func (r *Result) add(path string) {
	r.Paths = append(r.Paths, path)
	r.Count++
}

func (r *Result) merge(other Result) {
	r.Paths = append(r.Paths, other.Paths...)
	r.Count += other.Count
}

// Option configures a Walker.
type Option func(*Walker)

// WithWarningHandler sets the sink that receives a Warning for every
// directory that could not be read. By default warnings are logged with slog.
func WithWarningHandler(h WarningHandler) Option {
	return func(w *Walker) {
		if h != nil {
			w.warn = h
		}
	}
}

// WithLogger sets the logger used for debug output and for warnings when no
// WarningHandler is configured. It defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Walker holds the immutable context of a search: the target name and the
// case sensitivity flag. It keeps no state between calls to Search.
type Walker struct {
	target        string
	caseSensitive bool
	warn          WarningHandler
	logger        *slog.Logger
	readDir       func(dir string) ([]fs.DirEntry, error)
}

// New returns a Walker that looks for files named target.
func New(target string, caseSensitive bool, opts ...Option) *Walker {
	w := &Walker{
		target:        target,
		caseSensitive: caseSensitive,
		logger:        slog.Default(),
		readDir:       readDir,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Search is shorthand for New(req.Target, req.CaseSensitive, opts...).Search.
func Search(ctx context.Context, req Request, opts ...Option) (Result, error) {
	return New(req.Target, req.CaseSensitive, opts...).Search(ctx, req.Root)
}

// walk is the per-call state of a search. It lives only for the duration of
// one Search call.
type walk struct {
	*Walker
	want      string
	caser     cases.Caser
	ancestors *cache.Cache
}

// Search walks root and returns every path at which a regular file named
// like the walker's target exists. Only a missing root (ErrNotFound) or a
// root that is not a directory (ErrNotADirectory) fail the call; unreadable
// directories below the root are reported to the warning handler and
// skipped.
func (w *Walker) Search(ctx context.Context, root string) (Result, error) {
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, root)
	}

	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrNotFound, root, err)
	}

	if !info.IsDir() {
		return Result{}, fmt.Errorf("%w: %s", ErrNotADirectory, root)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	result := Result{Paths: []string{}}

	if w.target == "" {
		w.logger.DebugContext(ctx, "empty target name, nothing to match")

		return result, nil
	}

	s := &walk{
		Walker:    w,
		want:      w.target,
		caser:     cases.Lower(language.Und),
		ancestors: cache.New(cache.NoExpiration, 0),
	}

	if !w.caseSensitive {
		s.want = s.caser.String(w.target)
	}

	key, err := s.enter(abs)
	if err != nil {
		s.report(ctx, abs, err)

		return result, nil
	}

	found, err := s.find(ctx, abs)
	s.ancestors.Delete(key)

	if err != nil {
		s.report(ctx, abs, err)

		return result, nil
	}

	result.merge(found)

	return result, nil
}

// find lists dir and returns the matches found in it and below it. Errors
// from nested directories are reported and swallowed here; only a failure
// to list dir itself is returned.
func (s *walk) find(ctx context.Context, dir string) (Result, error) {
	entries, err := s.readDir(dir)
	if err != nil {
		return Result{}, err
	}

	var result Result

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		info, err := s.stat(path, entry)
		if err != nil {
			s.logger.DebugContext(ctx, "skipping unreadable entry", slog.String("path", path), slog.Any("error", err))

			continue
		}

		switch {
		case info.Mode().IsRegular():
			if s.matches(entry.Name()) {
				result.add(path)

				s.logger.DebugContext(ctx, "found "+entry.Name()+" file", slog.String("path", path))
			}
		case info.IsDir():
			key, err := s.enter(path)
			if err != nil {
				s.report(ctx, path, err)

				continue
			}

			nested, err := s.find(ctx, path)
			s.ancestors.Delete(key)

			if err != nil {
				s.report(ctx, path, err)

				continue
			}

			result.merge(nested)
		}
	}

	return result, nil
}

func (s *walk) matches(name string) bool {
	if s.caseSensitive {
		return name == s.want
	}

	return s.caser.String(name) == s.want
}

// stat follows symlinks so that a link behaves like whatever it points to.
func (s *walk) stat(path string, entry fs.DirEntry) (fs.FileInfo, error) {
	if entry.Type()&fs.ModeSymlink != 0 {
		return os.Stat(path)
	}

	return entry.Info()
}

// enter marks dir as being on the current descent path and returns the
// key to release once the directory is done. It fails with ErrCycle when dir
// resolves to a directory that is already an ancestor.
func (s *walk) enter(dir string) (string, error) {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", err
	}

	if err := s.ancestors.Add(resolved, dir, cache.NoExpiration); err != nil {
		ancestor, _ := s.ancestors.Get(resolved)

		return "", fmt.Errorf("%w: %s resolves to ancestor %v", ErrCycle, dir, ancestor)
	}

	return resolved, nil
}

func (s *walk) report(ctx context.Context, dir string, err error) {
	warning := Warning{Path: dir, Err: err}

	if s.warn != nil {
		s.warn(warning)

		return
	}

	s.logger.WarnContext(ctx, warning.String(), slog.String("path", warning.Path))
}

// readDir lists dir in the order the operating system returns entries.
func readDir(dir string) ([]fs.DirEntry, error) {
	f, err := os.Open(dir) // #nosec G304
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = f.Close()
	}()

	return f.ReadDir(-1)
}
