// Package engine provides the core query engine implementation for
// galagoread.
//
// The engine serves as the central coordinator and entry point for all
// read-side operations. It orchestrates the interaction between:
//   - Corpus: Opens a legacy on-disk index directory's named parts
//     (postings, lengths, names, corpus) for lookup
//   - Compile: Turns a validated query tree into a scorer/mover pair
//   - heap.ScoringHeap: Collects the top-K scoring documents
//
// The engine implements a thread-safe interface with proper lifecycle
// management. It uses an atomic flag for close-state so Close is safe to
// call from any goroutine exactly once.
package engine

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/galagoread/galagoread/internal/config"
	"github.com/galagoread/galagoread/internal/errs"
	"github.com/galagoread/galagoread/internal/heap"
	"github.com/galagoread/galagoread/internal/indexer"
	"github.com/galagoread/galagoread/internal/query"
	"github.com/galagoread/galagoread/internal/segment"
	"go.uber.org/zap"
)

// ErrEngineClosed is returned when attempting to perform operations on a
// closed engine.
var ErrEngineClosed = errors.New("operation failed: cannot access closed engine")

// Engine is the main entry point for opening a legacy corpus, running
// queries against it, and flushing a freshly built in-memory index to a
// new segment.
type Engine struct {
	options *config.Options
	log     *zap.SugaredLogger
	closed  atomic.Bool
	corpus  *Corpus
}

// Config holds the parameters needed to initialize a new Engine.
type Config struct {
	Options *config.Options
	Logger  *zap.SugaredLogger
}

// New opens config.Options.DataDir as a legacy corpus and returns an
// Engine ready to run queries against it. It does not validate that every
// part exists: a corpus missing "names" can still answer searches, it
// just can't resolve document identities.
func New(_ context.Context, config *Config) (*Engine, error) {
	corpus := OpenCorpus(config.Options.DataDir)

	config.Logger.Infow(
		"Engine opened",
		"dataDir", config.Options.DataDir,
	)

	return &Engine{
		options: config.Options,
		log:     config.Logger,
		corpus:  corpus,
	}, nil
}

// Close releases the engine's open corpus parts. Calling Close twice
// returns ErrEngineClosed on the second call.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}
	e.log.Infow("Engine closing", "dataDir", e.options.DataDir)
	return e.corpus.Close()
}

// Result is one scored document from a Search, with its resolved external
// name when the corpus carries a "names" part.
type Result struct {
	Doc   heap.ScoreDoc
	Name  string
	Error error
}

// Search compiles root, drives its mover/scorer pair across every
// candidate document, and returns the k best-scoring results in
// descending score order.
func (e *Engine) Search(root query.Node, k int) ([]Result, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	if issues := query.Check(root); len(issues) > 0 {
		first := issues[0]
		return nil, errs.NewQueryInitError(first.Path, "validate", first.Note)
	}

	scorer, mover, err := Compile(root, e.corpus, *e.options.ScoringOptions)
	if err != nil {
		return nil, err
	}

	collector := heap.New(k)
	doc, err := mover.CurrentDocument(), error(nil)
	for !doc.IsDone() && err == nil {
		if scorer.Matches(doc) {
			collector.Offer(scorer.Score(doc), doc)
		}
		doc, err = mover.MovePast()
	}
	if err != nil {
		return nil, err
	}

	sorted := collector.IntoSorted()
	out := make([]Result, len(sorted))
	for i, sd := range sorted {
		name, nameErr := e.corpus.DocumentName(sd.Doc)
		out[i] = Result{Doc: sd, Name: name, Error: nameErr}
	}

	e.log.Infow("Search completed", "requested", k, "returned", len(out))

	return out, nil
}

// Flush writes idx's accumulated postings, dense columns, lengths, and
// stored fields to a new segment directory under the engine's configured
// segment options, and returns that directory's path.
func (e *Engine) Flush(idx *indexer.Indexer) (string, error) {
	if e.closed.Load() {
		return "", ErrEngineClosed
	}
	dir, err := segment.Flush(idx, segment.FlushOptions{
		DataDir:   e.options.DataDir,
		Directory: e.options.SegmentOptions.Directory,
		Prefix:    e.options.SegmentOptions.Prefix,
		PageSize:  e.options.SegmentOptions.PageSize,
	})
	if err != nil {
		return "", err
	}
	e.log.Infow("Segment flushed", "directory", dir)
	return dir, nil
}
