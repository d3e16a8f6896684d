package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/galagoread/galagoread/internal/btree"
	"github.com/galagoread/galagoread/internal/config"
	"github.com/galagoread/galagoread/internal/engine"
	"github.com/galagoread/galagoread/internal/galogger"
	"github.com/galagoread/galagoread/internal/query"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "inspect":
		if err := runInspect(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
			os.Exit(1)
		}
	case "search":
		if err := runSearch(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "search: %v\n", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: galagoread inspect <path> [--key=term]")
	fmt.Fprintln(os.Stderr, "       galagoread search <data-dir> <term> [--field=f] [--k=10] [--bm25-b=0.75] [--bm25-k=1.2] [--segment-dir=/segments] [--segment-prefix=segment] [--page-size=128]")
}

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	key := fs.String("key", "", "sample key to look up; defaults to the first vocabulary block's first key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one path argument")
	}
	path := fs.Arg(0)

	reader, err := btree.Open(path)
	if err != nil {
		return fmt.Errorf("not a valid tree: %w", err)
	}
	defer reader.Close()

	fmt.Printf("tree: %s\n", path)
	fmt.Println("valid: yes")

	kind, err := reader.PartKind()
	if err != nil {
		fmt.Printf("part kind: unknown (%v)\n", err)
	} else {
		fmt.Printf("part kind: %s\n", kind)
	}

	printManifest(reader.Manifest)
	printBlocks(reader.Vocabulary)

	lookupKey := *key
	if lookupKey == "" {
		if len(reader.Vocabulary.Blocks) == 0 {
			fmt.Println("sample lookup: skipped (tree has no blocks)")
			return nil
		}
		lookupKey = string(reader.Vocabulary.Blocks[0].FirstKey)
	}

	value, ok, err := reader.FindStr(lookupKey)
	if err != nil {
		return fmt.Errorf("looking up %q: %w", lookupKey, err)
	}
	if !ok {
		fmt.Printf("sample lookup %q: not found\n", lookupKey)
		return nil
	}
	fmt.Printf("sample lookup %q: %d bytes\n", lookupKey, value.Len())
	return nil
}

// runSearch opens dataDir as a corpus and runs a single BM25-scored term
// query against it, printing the top-k results. It builds its
// *config.Options the same way the teacher's top-level instance
// constructor built *options.Options: starting from the package defaults
// and layering config.OptionFunc overrides from flags on top.
func runSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	field := fs.String("field", engine.DefaultFieldName, "field to search")
	k := fs.Int("k", 10, "number of results to return")
	bm25B := fs.Float64("bm25-b", -1, "override the default BM25 b parameter")
	bm25K := fs.Float64("bm25-k", -1, "override the default BM25 k parameter")
	segmentDir := fs.String("segment-dir", "", "override the default segment directory")
	segmentPrefix := fs.String("segment-prefix", "", "override the default segment filename prefix")
	pageSize := fs.Uint("page-size", 0, "override the default segment page size")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("expected <data-dir> <term> arguments")
	}
	dataDir, term := fs.Arg(0), fs.Arg(1)

	opts := config.NewDefaultOptions()
	optFuncs := []config.OptionFunc{config.WithDefaultOptions(), config.WithDataDir(dataDir)}
	if *bm25B >= 0 || *bm25K > 0 {
		b, bk := config.DefaultBM25B, config.DefaultBM25K
		if *bm25B >= 0 {
			b = float32(*bm25B)
		}
		if *bm25K > 0 {
			bk = float32(*bm25K)
		}
		optFuncs = append(optFuncs, config.WithBM25Defaults(b, bk))
	}
	if *segmentDir != "" {
		optFuncs = append(optFuncs, config.WithSegmentDir(*segmentDir))
	}
	if *segmentPrefix != "" {
		optFuncs = append(optFuncs, config.WithSegmentPrefix(*segmentPrefix))
	}
	if *pageSize != 0 {
		optFuncs = append(optFuncs, config.WithPageSize(uint32(*pageSize)))
	}
	for _, opt := range optFuncs {
		opt(&opts)
	}

	log := galogger.New("galagoread-cli")
	eng, err := engine.New(context.Background(), &engine.Config{Options: &opts, Logger: log})
	if err != nil {
		return fmt.Errorf("opening corpus: %w", err)
	}
	defer eng.Close()

	root := query.BM25{Child: query.Text{Term: term, Field: *field, DataNeeded: query.DataCounts}}
	results, err := eng.Search(root, *k)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	fmt.Printf("results for %q in field %q: %d\n", term, *field, len(results))
	for i, r := range results {
		if r.Error != nil {
			fmt.Printf("  [%d] doc=%d score=%.4f name=<unresolved: %v>\n", i, r.Doc.Doc, r.Doc.Score, r.Error)
			continue
		}
		fmt.Printf("  [%d] doc=%d score=%.4f name=%s\n", i, r.Doc.Doc, r.Doc.Score, r.Name)
	}
	return nil
}

func printManifest(m *btree.Manifest) {
	fmt.Println("manifest:")
	fmt.Printf("  fileName:       %s\n", m.FileName)
	fmt.Printf("  readerClass:    %s\n", m.ReaderClass)
	fmt.Printf("  keyCount:       %d\n", m.KeyCount)
	fmt.Printf("  blockCount:     %d\n", m.BlockCount)
	fmt.Printf("  blockSize:      %d\n", m.BlockSize)
	fmt.Printf("  maxKeySize:     %d\n", m.MaxKeySize)
	fmt.Printf("  emptyIndexFile: %t\n", m.EmptyIndexFile)
	if m.Stemmer != "" {
		fmt.Printf("  stemmer:        %s\n", m.Stemmer)
	}
}

func printBlocks(v *btree.Vocabulary) {
	fmt.Printf("blocks: %d\n", len(v.Blocks))
	for i, block := range v.Blocks {
		fmt.Printf("  [%d] firstKey=%q begin=%d end=%d\n", i, block.FirstKey, block.Begin, block.End)
	}
}
