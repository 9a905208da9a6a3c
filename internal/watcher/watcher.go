// Package watcher watches a source tree for changes and delivers debounced,
// deduplicated batches of changed paths to the orchestrator (spec §5). It
// keeps the teacher's FileWatcher/Debouncer split (compare
// internal/watcher/watcher.go in conneroisu-templar) but drops the
// object-pool micro-optimizations and the .templ-specific filter set, since
// Aer watches arbitrary source trees rather than a fixed component layout.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aerstatic/aer/internal/logging"
)

// DefaultDebounce is the delay the orchestrator's rebuild-on-change loop
// uses between a burst of filesystem events and the batch it delivers.
const DefaultDebounce = 1 * time.Second

// EventType classifies a single filesystem change.
type EventType int

const (
	EventCreated EventType = iota
	EventModified
	EventDeleted
	EventRenamed
)

// ChangeEvent is one deduplicated filesystem change under the watched root.
type ChangeEvent struct {
	Type EventType
	Path string
}

// ChangeHandlerFunc receives a debounced batch of changes, one path
// appearing at most once (last event wins), sorted by path.
type ChangeHandlerFunc func(events []ChangeEvent) error

// FileFilter reports whether a changed path should be delivered at all;
// returning false drops the event before it reaches the debouncer.
type FileFilter func(path string) bool

// FileWatcher recursively watches a root directory and delivers debounced
// change batches to its registered handlers.
type FileWatcher struct {
	root      string
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	filters   []FileFilter
	handlers  []ChangeHandlerFunc
	log       logging.Logger

	mu      sync.RWMutex
	stopped bool
}

// New creates a FileWatcher rooted at root, using delay to debounce bursts
// of filesystem events into single batches.
func New(root string, delay time.Duration, log logging.Logger) (*FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	if log == nil {
		log = logging.NewTestLogger()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watcher: resolving root %s: %w", root, err)
	}

	return &FileWatcher{
		root:    absRoot,
		watcher: fsw,
		debouncer: &debouncer{
			delay:   delay,
			events:  make(chan ChangeEvent, 256),
			output:  make(chan []ChangeEvent, 8),
			pending: make(map[string]ChangeEvent, 64),
		},
		log: log,
	}, nil
}

// AddFilter registers a predicate; an event is only delivered if every
// registered filter accepts its path.
func (fw *FileWatcher) AddFilter(filter FileFilter) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.filters = append(fw.filters, filter)
}

// AddHandler registers a batch handler.
func (fw *FileWatcher) AddHandler(handler ChangeHandlerFunc) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.handlers = append(fw.handlers, handler)
}

// Start begins watching fw's root recursively and runs until ctx is done.
func (fw *FileWatcher) Start(ctx context.Context) error {
	if err := fw.addRecursive(fw.root); err != nil {
		return err
	}

	go fw.debouncer.run(ctx)
	go fw.processOutput(ctx)
	go fw.watchLoop(ctx)
	return nil
}

// Stop closes the underlying filesystem watcher. Safe to call once.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.stopped {
		return nil
	}
	fw.stopped = true
	return fw.watcher.Close()
}

func (fw *FileWatcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return fw.watcher.Add(path)
	})
}

func (fw *FileWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handle(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.Warn(ctx, err, "watcher error")
		}
	}
}

func (fw *FileWatcher) handle(event fsnotify.Event) {
	fw.mu.RLock()
	filters := fw.filters
	fw.mu.RUnlock()

	for _, filter := range filters {
		if !filter(event.Name) {
			return
		}
	}

	var eventType EventType
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		eventType = EventCreated
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = fw.watcher.Add(event.Name)
		}
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		eventType = EventDeleted
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		eventType = EventRenamed
	default:
		eventType = EventModified
	}

	select {
	case fw.debouncer.events <- ChangeEvent{Type: eventType, Path: event.Name}:
	default:
		fw.log.Warn(context.Background(), nil, "dropping file event, debouncer backlog full", "path", event.Name)
	}
}

func (fw *FileWatcher) processOutput(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch := <-fw.debouncer.output:
			fw.mu.RLock()
			handlers := fw.handlers
			fw.mu.RUnlock()

			for _, handler := range handlers {
				if err := handler(batch); err != nil {
					fw.log.Warn(ctx, err, "watcher handler failed")
				}
			}
		}
	}
}

// debouncer collapses a burst of ChangeEvents arriving within delay of each
// other into a single batch, deduplicated by path (last event per path
// wins), delivered sorted for deterministic orchestrator scheduling.
type debouncer struct {
	delay  time.Duration
	events chan ChangeEvent
	output chan []ChangeEvent

	mu      sync.Mutex
	pending map[string]ChangeEvent
	timer   *time.Timer
}

func (d *debouncer) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.events:
			d.add(event)
		}
	}
}

func (d *debouncer) add(event ChangeEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[event.Path] = event
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.pending) == 0 {
		return
	}
	batch := make([]ChangeEvent, 0, len(d.pending))
	for _, event := range d.pending {
		batch = append(batch, event)
	}
	for k := range d.pending {
		delete(d.pending, k)
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })

	select {
	case d.output <- batch:
	default:
	}
}

// NoDotfileFilter rejects paths under a dotfile or dot-directory (.git,
// .aer, editor swap files), the default filter an orchestrator registers
// alongside any source-extension filters of its own.
func NoDotfileFilter(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.HasPrefix(part, ".") && part != "." {
			return false
		}
	}
	return true
}
