// Command makenoexist generates queries that are guaranteed not to appear in
// a model, for benchmarking or testing the negative lookup path (spec.md
// §11, supplemented feature grounded on tongrams-rs's
// make-noexist-queries.rs). It samples random token combinations from a
// supplied token list and keeps only the ones the model reports as absent.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"

	iradix "github.com/hashicorp/go-immutable-radix"

	"eftc/envelope"
	"eftc/gram"
	"eftc/lookup"
)

func main() {
	var (
		modelPath = flag.String("model", "", "Path to a serialized EFTC model")
		tokensArg = flag.String("tokens", "", "Path to a newline-separated token list to sample from")
		order     = flag.Int("order", 2, "Gram order to generate")
		count     = flag.Int("count", 100, "Number of absent queries to emit")
		maxTries  = flag.Int("max-tries", 1_000_000, "Give up after this many sampled candidates")
		seed      = flag.Int64("seed", 1, "RNG seed")
	)
	flag.Parse()

	if *modelPath == "" || *tokensArg == "" {
		fail("-model and -tokens are required")
	}
	if *order < 1 || *order > gram.MaxOrder {
		fail(fmt.Sprintf("-order must be in [1, %d]", gram.MaxOrder))
	}

	f, err := os.Open(*modelPath)
	if err != nil {
		fail(err.Error())
	}
	model, err := envelope.ReadModel(f)
	f.Close()
	if err != nil {
		fail(err.Error())
	}

	tokens, err := readLines(*tokensArg)
	if err != nil {
		fail(err.Error())
	}
	if len(tokens) == 0 {
		fail("token list is empty")
	}

	engine := lookup.New(model)
	rng := rand.New(rand.NewSource(*seed))

	// seen dedupes sampled candidates (emitted or not) across the sampling
	// loop. A persistent radix tree costs one insert proportional to the key
	// length per candidate instead of a reallocating map, and (unlike a plain map) leaves every earlier
	// snapshot of the set intact and cheaply comparable if this loop is ever
	// extended to sample several batches and diff them.
	seen := iradix.New()

	found := 0
	for tries := 0; tries < *maxTries && found < *count; tries++ {
		parts := make([]string, *order)
		for i := range parts {
			parts[i] = tokens[rng.Intn(len(tokens))]
		}
		candidate := strings.Join(parts, string(gram.Separator))

		var ok bool
		seen, _, ok = seen.Insert([]byte(candidate), struct{}{})
		if ok {
			continue // already sampled this candidate
		}

		if _, exists := engine.LookupString(candidate); !exists {
			fmt.Println(candidate)
			found++
		}
	}
	if found < *count {
		fmt.Fprintf(os.Stderr, "makenoexist: only found %d of %d requested absent queries\n", found, *count)
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, "makenoexist: "+msg)
	os.Exit(1)
}
