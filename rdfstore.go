package rdfstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/opd-ai/rdfstore/config"
	"github.com/opd-ai/rdfstore/factory"
	"github.com/opd-ai/rdfstore/interfaces"
	"github.com/opd-ai/rdfstore/logging"
	"github.com/opd-ai/rdfstore/results"
	"github.com/opd-ai/rdfstore/sparql"
	"github.com/opd-ai/rdfstore/term"
	"github.com/opd-ai/rdfstore/turtle"
	"github.com/sirupsen/logrus"
)

// Options contains configuration options for creating a Store.
type Options struct {
	// Backend selects the storage engine.
	Backend interfaces.Backend

	// SQLitePath is the database file of the sqlite backend; ":memory:" or
	// empty keeps the database in memory.
	SQLitePath string

	// Deterministic selects a fixed clock and a seeded random source so
	// repeated runs mint identical blank node identifiers.
	Deterministic bool
	Seed          string

	// TimeProvider and Random override the providers selected by
	// Deterministic when set.
	TimeProvider TimeProvider
	Random       io.Reader

	// Engines creates the storage engine. When nil, New builds a factory
	// from Backend and SQLitePath.
	Engines *factory.EngineFactory
}

// NewOptions creates a new default Options.
func NewOptions() *Options {
	return &Options{
		Backend:    interfaces.BackendMemory,
		SQLitePath: ":memory:",
		Seed:       "rdfstore",
	}
}

// OptionsFromConfig maps process configuration onto Options. A nil cfg
// yields the defaults.
func OptionsFromConfig(cfg *config.Config) *Options {
	opts := NewOptions()
	if cfg == nil {
		return opts
	}
	opts.Backend = interfaces.Backend(cfg.Backend)
	opts.SQLitePath = cfg.SQLite.Path
	opts.Deterministic = cfg.Deterministic
	if cfg.Seed != "" {
		opts.Seed = cfg.Seed
	}
	opts.Engines = factory.NewEngineFactoryFromConfig(cfg)
	return opts
}

// Store is an RDF quad store with a text-in, text-out API. Terms given as
// plain text are classified by the heuristic described in package term.
//
// Methods are safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	engine     interfaces.IQuadEngine
	classifier *term.Classifier
	evaluator  *sparql.Evaluator
	clock      TimeProvider
	closed     bool
}

// New creates a Store with the given options. A nil options uses NewOptions.
func New(options *Options) (*Store, error) {
	if options == nil {
		options = NewOptions()
	}

	clock, random, err := providers(options)
	if err != nil {
		return nil, err
	}

	engines := options.Engines
	if engines == nil {
		engines = factory.NewEngineFactory(&interfaces.EngineConfig{
			Backend:    options.Backend,
			SQLitePath: options.SQLitePath,
		})
	}
	engineConfig := engines.GetCurrentConfig()
	engine, err := engines.CreateEngine()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	classifier := term.NewClassifier(random)
	s := &Store{
		engine:     engine,
		classifier: classifier,
		evaluator:  sparql.NewEvaluator(engine, classifier),
		clock:      clock,
	}

	logrus.WithFields(logrus.Fields{
		"function":      "New",
		"backend":       engineConfig.Backend,
		"deterministic": options.Deterministic,
	}).Debug("Created store")
	return s, nil
}

func providers(options *Options) (TimeProvider, io.Reader, error) {
	var clock TimeProvider = RealTimeProvider{}
	random := DefaultRandomSource()
	if options.Deterministic {
		clock = FixedTimeProvider{}
		src, err := NewDeterministicSource(options.Seed)
		if err != nil {
			return nil, nil, err
		}
		random = src
	}
	if options.TimeProvider != nil {
		clock = options.TimeProvider
	}
	if options.Random != nil {
		random = options.Random
	}
	return clock, random, nil
}

// Close releases the engine. Closing twice is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	logrus.WithFields(logrus.Fields{
		"function": "Close",
	}).Debug("Closing store")
	if err := s.engine.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}
	return nil
}

// Now returns the current time of the store's clock.
func (s *Store) Now() time.Time {
	s.mu.Lock()
	clock := s.clock
	s.mu.Unlock()
	return clock.Now()
}

// SetTimeProvider replaces the store's clock. A nil tp restores the system
// clock.
func (s *Store) SetTimeProvider(tp TimeProvider) {
	if tp == nil {
		tp = RealTimeProvider{}
	}
	s.mu.Lock()
	s.clock = tp
	s.mu.Unlock()
}

// validateText rejects text that cannot cross the C boundary.
func validateText(texts ...string) error {
	for _, t := range texts {
		if !utf8.ValidString(t) {
			return fmt.Errorf("%w: not valid UTF-8", ErrInvalidEncoding)
		}
		if strings.IndexByte(t, 0) >= 0 {
			return fmt.Errorf("%w: embedded zero byte", ErrInvalidEncoding)
		}
	}
	return nil
}

// buildQuad classifies the three positions into a quad.
func (s *Store) buildQuad(subject, predicate, object string) (term.Quad, error) {
	if err := validateText(subject, predicate, object); err != nil {
		return term.Quad{}, err
	}
	q, err := s.classifier.BuildQuad(subject, predicate, object)
	if err != nil {
		return term.Quad{}, fmt.Errorf("%w: %w", ErrTermParse, err)
	}
	return q, nil
}

// AddTriple classifies subject, predicate and object and inserts the quad
// into the default graph. Nothing is inserted when any position fails.
func (s *Store) AddTriple(subject, predicate, object string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	q, err := s.buildQuad(subject, predicate, object)
	if err != nil {
		return err
	}
	if err := s.engine.Insert(q); err != nil {
		logging.NewLogger("rdfstore", "AddTriple").
			WithError(err, "engine", "insert").
			Debug("Insert failed")
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}
	return nil
}

// ContainsTriple reports whether the classified quad is stored.
func (s *Store) ContainsTriple(subject, predicate, object string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}

	q, err := s.buildQuad(subject, predicate, object)
	if err != nil {
		return false, err
	}
	ok, err := s.engine.Contains(q)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrEngine, err)
	}
	return ok, nil
}

// Query parses and evaluates a SPARQL query.
func (s *Store) Query(query string) (*sparql.Results, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if err := validateText(query); err != nil {
		return nil, err
	}

	res, err := s.evaluator.Execute(query)
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, sparql.ErrParse):
		return nil, fmt.Errorf("%w: %w", ErrQueryParse, err)
	default:
		logging.NewLogger("rdfstore", "Query").
			WithFields(logging.TextPreview(query, "query")).
			WithError(err, "evaluation", "execute").
			Debug("Query evaluation failed")
		return nil, fmt.Errorf("%w: %w", ErrQueryEvaluation, err)
	}
}

// QueryText evaluates query and renders the outcome with results.Render.
func (s *Store) QueryText(query string) (string, error) {
	res, err := s.Query(query)
	if err != nil {
		return "", err
	}
	return results.Render(res), nil
}

// LoadTurtle parses data as Turtle and inserts every statement into the
// default graph. base is checked for valid encoding but relative IRIs are
// not resolved against it. Statements read before a parse failure stay
// inserted.
func (s *Store) LoadTurtle(data, base string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := validateText(data, base); err != nil {
		return err
	}

	n, err := turtle.Load(context.Background(), s.engine, strings.NewReader(data), s.classifier)
	if err != nil {
		logging.NewLogger("rdfstore", "LoadTurtle").
			WithField("loaded", n).
			WithError(err, "turtle", "load").
			Debug("Turtle load failed")
		return fmt.Errorf("%w: %w", ErrTurtleParse, err)
	}
	return nil
}

// SerializeTurtle writes the whole store as Turtle.
func (s *Store) SerializeTurtle() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}

	var b strings.Builder
	if err := turtle.Dump(s.engine, &b); err != nil {
		return "", fmt.Errorf("%w: %w", ErrDump, err)
	}
	return b.String(), nil
}

// Count returns the number of stored quads.
func (s *Store) Count() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}

	n, err := s.engine.Len()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEngine, err)
	}
	return n, nil
}

// Clear removes every quad. Clearing an empty store succeeds.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if err := s.engine.Clear(); err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}
	return nil
}

// Quads returns a snapshot of the stored quads in insertion order.
func (s *Store) Quads() ([]term.Quad, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	it, err := s.engine.Match(interfaces.Pattern{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}
	defer it.Close()

	var out []term.Quad
	for it.Next() {
		out = append(out, it.Quad())
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}
	return out, nil
}
