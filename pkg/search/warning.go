package search

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
)

// Warning describes a directory that was skipped because it could not be
// read. Warnings never abort a search.
type Warning struct {
	Path string
	Err  error
}

// WarningHandler receives warnings as a search encounters them.
type WarningHandler func(Warning)

// Permission reports whether the directory was skipped because access was
// denied.
func (w Warning) Permission() bool {
	return errors.Is(w.Err, fs.ErrPermission)
}

func (w Warning) String() string {
	if w.Permission() {
		return fmt.Sprintf("no permission to access directory: %s", w.Path)
	}

	return fmt.Sprintf("error accessing directory %s: %v", w.Path, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}

func (w Warning) Error() string {
	return w.String()
}

// Collector gathers warnings in memory. It is safe for concurrent use.
type Collector struct {
	warnings []Warning
	mu       sync.Mutex
}

// Handle records w. Pass it to WithWarningHandler.
func (c *Collector) Handle(w Warning) {
	c.mu.Lock()
	c.warnings = append(c.warnings, w)
	c.mu.Unlock()
}

// Warnings returns a copy of the recorded warnings in the order they were
// reported.
func (c *Collector) Warnings() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]Warning(nil), c.warnings...)
}

// Count returns the number of recorded warnings.
func (c *Collector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.warnings)
}
