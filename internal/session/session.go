// Package session keeps the per-session ledger of submitted images:
// one work item per source file, its current quality setting and its
// latest encoded result. Nothing here survives the process; the tool
// deliberately has no cross-session persistence.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"webpress/internal/pipeline"
)

var ErrUnknownItem = errors.New("unknown work item")

// Item pairs one source image with its settings and at most one
// encoded result. A re-conversion replaces the result wholesale.
type Item struct {
	ID     string
	Name   string // source filename, used to derive the output name
	Source []byte

	// Quality is the user's override in percent; 0 means "use the
	// complexity-derived suggestion".
	Quality int

	Result *pipeline.Result
	Err    error
}

// Session owns the ordered collection of work items and the pipeline
// that converts them.
type Session struct {
	mu sync.Mutex

	pipe        *pipeline.Pipeline
	targetBytes int

	items []*Item
	byID  map[string]*Item
}

// New creates an empty session. targetKB is the advisory size budget
// applied to every conversion; non-positive disables it.
func New(pipe *pipeline.Pipeline, targetKB int) *Session {
	return &Session{
		pipe:        pipe,
		targetBytes: targetKB * 1024,
		byID:        make(map[string]*Item),
	}
}

// Add accepts a source file and returns its work item.
func (s *Session) Add(name string, data []byte) *Item {
	it := &Item{
		ID:     uuid.NewString(),
		Name:   name,
		Source: data,
	}

	s.mu.Lock()
	s.items = append(s.items, it)
	s.byID[it.ID] = it
	s.mu.Unlock()
	return it
}

// SetQuality overrides the suggested quality for one item. It does
// not trigger a re-encode; the override takes effect on the next
// conversion of that item.
func (s *Session) SetQuality(id string, q int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.byID[id]
	if !ok {
		return ErrUnknownItem
	}
	it.Quality = q
	return nil
}

// Items returns the work items in submission order.
func (s *Session) Items() []*Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len reports the number of work items.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Convert runs the pipeline for one item, replacing any previous
// result. A failure is recorded on the item and leaves it
// convertible again.
func (s *Session) Convert(id string) error {
	s.mu.Lock()
	it, ok := s.byID[id]
	s.mu.Unlock()
	if !ok {
		return ErrUnknownItem
	}

	s.convert(it)
	return it.Err
}

// ConvertAll converts every item sequentially in submission order.
// Per-item failures are recorded on the items and never stop the
// rest; the number of failures is returned.
func (s *Session) ConvertAll(ctx context.Context) (failed int) {
	for _, it := range s.Items() {
		if ctx.Err() != nil {
			return failed
		}
		if s.convert(it); it.Err != nil {
			failed++
		}
	}
	return failed
}

func (s *Session) convert(it *Item) {
	res, err := s.pipe.RunBytes(it.Source, pipeline.Options{
		Quality:     it.Quality,
		TargetBytes: s.targetBytes,
	})

	s.mu.Lock()
	if err != nil {
		it.Result = nil
		it.Err = err
	} else {
		it.Result = &res
		it.Err = nil
	}
	s.mu.Unlock()
}
