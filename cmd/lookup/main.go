// Command lookup answers exact-match count queries against a serialized
// EFTC model: one gram per line on stdin or as trailing args, one
// "<gram>\t<count>" (or "<gram>\tNA") line per query on stdout (spec.md §4.8).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"eftc/envelope"
	"eftc/lookup"
)

func main() {
	modelPath := flag.String("model", "", "Path to a serialized EFTC model")
	flag.Parse()

	if *modelPath == "" {
		fail("-model is required")
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

	engine := lookup.New(model)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	queries := flag.Args()
	if len(queries) > 0 {
		for _, q := range queries {
			emit(out, engine, q)
		}
		return
	}

	sc := bufio.NewScanner(os.Stdin)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		emit(out, engine, sc.Text())
	}
	if err := sc.Err(); err != nil {
		fail(err.Error())
	}
}

func emit(out *bufio.Writer, engine *lookup.Engine, q string) {
	count, ok := engine.LookupString(q)
	if !ok {
		fmt.Fprintf(out, "%s\tNA\n", q)
		return
	}
	fmt.Fprintf(out, "%s\t%d\n", q, count)
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, "lookup: "+msg)
	os.Exit(1)
}
