// Command index builds an EFTC model from a set of sorted N-gram count
// files, one per order, and writes the serialized model to disk (spec.md
// §6.3).
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"

	"eftc/builder"
	"eftc/envelope"
)

func main() {
	var (
		inputs = flag.String("inputs", "", "Comma-separated count files, one per order starting at order 1")
		out    = flag.String("out", "", "Output model file path")
		ef     = flag.Bool("ef-count-ranks", false, "Use Elias-Fano gap-coded count-rank arrays for every order")
	)
	flag.Parse()

	if *inputs == "" || *out == "" {
		fail("both -inputs and -out are required")
	}

	paths := strings.Split(*inputs, ",")
	sources := make([]builder.Source, len(paths))
	for i, p := range paths {
		sources[i] = builder.FileSource{Path: strings.TrimSpace(p)}
	}

	bar := progressbar.Default(int64(len(paths) * 2))
	cfg := builder.Config{
		UseEFCountRanks: func(int) bool { return *ef },
		ProgressFunc: func(stage string, order int) {
			bar.Describe(fmt.Sprintf("%s order %d", stage, order))
			bar.Add(1)
		},
	}

	model, err := builder.Build(sources, cfg)
	if err != nil {
		fail(err.Error())
	}

	f, err := os.Create(*out)
	if err != nil {
		fail(err.Error())
	}
	defer f.Close()

	if _, err := envelope.WriteModel(f, model); err != nil {
		fail(err.Error())
	}

	fmt.Printf("wrote %d orders, %d bytes resident, to %s\n", model.NumOrders(), model.ByteSize(), *out)
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, "index: "+msg)
	os.Exit(1)
}
