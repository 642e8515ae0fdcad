// Package session holds the long-lived state of one interactive blame
// session: the annotation/history cache with its background workers,
// and the navigation state machine the front-end drives. One Session
// is created at startup, passed by reference to the UI, and dropped at
// exit; nothing survives the process.
package session

import (
	"context"
	"sync"

	"github.com/blametrail/blametrail/engine"
	"github.com/blametrail/blametrail/gitx"
	"github.com/blametrail/blametrail/logging"
)

// Cache memoizes annotations per tree and history chains per line, and
// schedules the walks that fill them on background workers. Entries
// are never evicted during a session; a repeated request for a key
// already being computed attaches to the in-flight walk instead of
// starting another (at most one builder per key).
type Cache struct {
	src engine.Source

	mu     sync.Mutex // guards the maps only, never held during walks
	anns   map[annKey]*annEntry
	chains map[chainKey]*chainEntry

	tasks  chan func(context.Context)
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type annKey struct {
	tree gitx.Hash
	path string
}

type chainKey struct {
	tree gitx.Hash
	path string
	line int
}

// NewCache starts a cache with the given number of worker goroutines.
func NewCache(src engine.Source, workers int) *Cache {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		src:    src,
		anns:   make(map[annKey]*annEntry),
		chains: make(map[chainKey]*chainEntry),
		tasks:  make(chan func(context.Context), 128),
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < workers; i++ {
		c.wg.Add(1)
		go c.worker()
	}
	return c
}

func (c *Cache) worker() {
	defer c.wg.Done()
	for {
		select {
		case <-c.ctx.Done():
			return
		case task := <-c.tasks:
			task(c.ctx)
		}
	}
}

// Close tears the worker pool down cooperatively. Walks observe the
// cancellation between ancestry steps and exit early.
func (c *Cache) Close() {
	c.cancel()
	c.wg.Wait()
}

// enqueue hands a task to the pool without ever blocking the caller;
// when the queue is full the task gets its own goroutine.
func (c *Cache) enqueue(task func(context.Context)) {
	select {
	case c.tasks <- task:
	default:
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			task(c.ctx)
		}()
	}
}

// Sub is a subscription to one cache key. Ready fires (coalesced)
// every time new partial results for the key are published, and once
// more on completion or failure.
type Sub struct {
	ch chan struct{}
}

// Ready returns the wakeup channel. Receivers re-snapshot after each
// wakeup.
func (s *Sub) Ready() <-chan struct{} {
	return s.ch
}

func newSub() *Sub {
	return &Sub{ch: make(chan struct{}, 1)}
}

func (s *Sub) wake() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// AnnotationSnapshot is a point-in-time copy of a cached annotation.
// Lines is owned by the caller and safe to read without locking.
type AnnotationSnapshot struct {
	engine.Annotation
	Err error
}

type annEntry struct {
	mu   sync.Mutex
	ann  engine.Annotation
	err  error
	done bool
	subs []*Sub
}

func (e *annEntry) snapshot() AnnotationSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	lines := make(map[int]gitx.Hash, len(e.ann.Lines))
	for k, v := range e.ann.Lines {
		lines[k] = v
	}
	snap := AnnotationSnapshot{Annotation: e.ann, Err: e.err}
	snap.Lines = lines
	return snap
}

func (e *annEntry) attach(sub *Sub) {
	e.mu.Lock()
	e.subs = append(e.subs, sub)
	done := e.done
	e.mu.Unlock()
	if done {
		sub.wake()
	}
}

func (e *annEntry) publish(fn func(*engine.Annotation)) {
	e.mu.Lock()
	fn(&e.ann)
	subs := e.subs
	e.mu.Unlock()
	for _, s := range subs {
		s.wake()
	}
}

func (e *annEntry) finish(err error) {
	e.mu.Lock()
	e.done = true
	e.err = err
	if err == nil {
		e.ann.Complete = true
	}
	subs := e.subs
	e.mu.Unlock()
	for _, s := range subs {
		s.wake()
	}
}

// GetOrStart returns the current snapshot for (tree, path) and a
// subscription for further updates. The first request for a key
// schedules the annotation walk; it returns immediately either way.
func (c *Cache) GetOrStart(tree gitx.Hash, path string) (AnnotationSnapshot, *Sub) {
	key := annKey{tree, path}
	c.mu.Lock()
	e, ok := c.anns[key]
	if !ok {
		e = &annEntry{ann: engine.Annotation{Tree: tree, Path: path, Lines: make(map[int]gitx.Hash)}}
		c.anns[key] = e
		logging.Debugf("scheduling annotation walk %s %s", tree.Short(), path)
		c.enqueue(func(ctx context.Context) { c.runAnnotate(ctx, tree, path, e) })
	}
	c.mu.Unlock()

	sub := newSub()
	e.attach(sub)
	return e.snapshot(), sub
}

// Annotation returns the current snapshot without subscribing or
// scheduling anything. The bool reports whether the key exists.
func (c *Cache) Annotation(tree gitx.Hash, path string) (AnnotationSnapshot, bool) {
	c.mu.Lock()
	e, ok := c.anns[annKey{tree, path}]
	c.mu.Unlock()
	if !ok {
		return AnnotationSnapshot{}, false
	}
	return e.snapshot(), true
}

func (c *Cache) runAnnotate(ctx context.Context, tree gitx.Hash, path string, e *annEntry) {
	err := engine.Annotate(ctx, c.src, tree, path, annotateInto{e})
	if ctx.Err() != nil {
		// Shutdown: leave the entry incomplete rather than record a
		// spurious failure.
		return
	}
	if err != nil {
		logging.Errorf("annotate %s %s: %v", tree.Short(), path, err)
	}
	e.finish(err)
}

// annotateInto publishes engine results into an entry, entry by entry,
// so readers always see write-once line assignments.
type annotateInto struct {
	e *annEntry
}

func (s annotateInto) Init(lineCount int) {
	s.e.publish(func(a *engine.Annotation) { a.LineCount = lineCount })
}

func (s annotateInto) Resolve(batch []engine.ResolvedLine) {
	s.e.publish(func(a *engine.Annotation) {
		for _, r := range batch {
			if _, dup := a.Lines[r.Line]; !dup {
				a.Lines[r.Line] = r.Commit
			}
		}
	})
}

// ChainSnapshot is a point-in-time copy of a cached line-history
// chain, newest entry first.
type ChainSnapshot struct {
	Tree     gitx.Hash
	Path     string
	Line     int
	Entries  []engine.ChainEntry
	Complete bool
	Err      error
}

type chainEntry struct {
	mu      sync.Mutex
	tree    gitx.Hash
	path    string
	line    int
	entries []engine.ChainEntry
	err     error
	done    bool
	subs    []*Sub
}

func (e *chainEntry) snapshot() ChainSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	entries := make([]engine.ChainEntry, len(e.entries))
	copy(entries, e.entries)
	return ChainSnapshot{
		Tree: e.tree, Path: e.path, Line: e.line,
		Entries: entries, Complete: e.done && e.err == nil, Err: e.err,
	}
}

// GetOrStartHistory returns the current chain snapshot for
// (tree, line) and a subscription, scheduling the walk on first
// request.
func (c *Cache) GetOrStartHistory(tree gitx.Hash, line int, path string) (ChainSnapshot, *Sub) {
	key := chainKey{tree, path, line}
	c.mu.Lock()
	e, ok := c.chains[key]
	if !ok {
		e = &chainEntry{tree: tree, path: path, line: line}
		c.chains[key] = e
		logging.Debugf("scheduling history walk %s:%d %s", tree.Short(), line, path)
		c.enqueue(func(ctx context.Context) { c.runHistory(ctx, e) })
	}
	c.mu.Unlock()

	sub := newSub()
	e.mu.Lock()
	e.subs = append(e.subs, sub)
	done := e.done
	e.mu.Unlock()
	if done {
		sub.wake()
	}
	return e.snapshot(), sub
}

func (c *Cache) runHistory(ctx context.Context, e *chainEntry) {
	err := engine.History(ctx, c.src, e.tree, e.line, e.path, engine.ChainFunc(func(entry engine.ChainEntry) {
		e.mu.Lock()
		e.entries = append(e.entries, entry)
		subs := e.subs
		e.mu.Unlock()
		for _, s := range subs {
			s.wake()
		}
	}))
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		logging.Errorf("history %s:%d %s: %v", e.tree.Short(), e.line, e.path, err)
	}
	e.mu.Lock()
	e.done = true
	e.err = err
	subs := e.subs
	e.mu.Unlock()
	for _, s := range subs {
		s.wake()
	}
}
