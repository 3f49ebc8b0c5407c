// Package memory provides an in-process quad engine.
//
// Quads are kept in a slice in insertion order, with a map index for
// set semantics and exact lookups. Clear and Close drop both.
package memory

import (
	"sync"

	"github.com/opd-ai/rdfstore/interfaces"
	"github.com/opd-ai/rdfstore/term"
	"github.com/sirupsen/logrus"
)

// Engine is an in-memory interfaces.IQuadEngine. It is safe for concurrent use.
type Engine struct {
	mu     sync.RWMutex
	quads  []term.Quad
	index  map[term.Quad]int
	closed bool
}

// New returns an empty engine.
func New() *Engine {
	return &Engine{index: make(map[term.Quad]int)}
}

// Insert adds q unless it is already present.
func (e *Engine) Insert(q term.Quad) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return interfaces.ErrEngineClosed
	}
	if _, ok := e.index[q]; ok {
		return nil
	}
	e.index[q] = len(e.quads)
	e.quads = append(e.quads, q)
	return nil
}

// Contains reports whether q is stored.
func (e *Engine) Contains(q term.Quad) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return false, interfaces.ErrEngineClosed
	}
	_, ok := e.index[q]
	return ok, nil
}

// Len returns the number of stored quads.
func (e *Engine) Len() (int64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return 0, interfaces.ErrEngineClosed
	}
	return int64(len(e.quads)), nil
}

// Clear removes every quad.
func (e *Engine) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return interfaces.ErrEngineClosed
	}
	logrus.WithFields(logrus.Fields{
		"function": "Clear",
		"engine":   "memory",
		"removed":  len(e.quads),
	}).Debug("Clearing engine")

	e.quads = nil
	e.index = make(map[term.Quad]int)
	return nil
}

// Match returns a snapshot iterator over the quads matching pattern.
func (e *Engine) Match(pattern interfaces.Pattern) (interfaces.IQuadIterator, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return nil, interfaces.ErrEngineClosed
	}

	// Fully bound patterns resolve through the index.
	if !pattern.Subject.IsZero() && !pattern.Predicate.IsZero() && !pattern.Object.IsZero() {
		q := term.Quad{Subject: pattern.Subject, Predicate: pattern.Predicate, Object: pattern.Object}
		if _, ok := e.index[q]; ok {
			return &iterator{quads: []term.Quad{q}}, nil
		}
		return &iterator{}, nil
	}

	var matched []term.Quad
	for _, q := range e.quads {
		if pattern.Matches(q) {
			matched = append(matched, q)
		}
	}
	return &iterator{quads: matched}, nil
}

// Close releases the stored quads. Subsequent calls return interfaces.ErrEngineClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true
	e.quads = nil
	e.index = nil
	return nil
}

type iterator struct {
	quads []term.Quad
	pos   int
	cur   term.Quad
}

func (it *iterator) Next() bool {
	if it.pos >= len(it.quads) {
		return false
	}
	it.cur = it.quads[it.pos]
	it.pos++
	return true
}

func (it *iterator) Quad() term.Quad { return it.cur }

func (it *iterator) Err() error { return nil }

func (it *iterator) Close() error {
	it.quads = nil
	return nil
}
