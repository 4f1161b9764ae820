// Command stats prints a memory usage breakdown for a serialized EFTC model
// (spec.md §11, supplemented "stats" feature), grounded on the original's
// tongrams-rs stats subcommand and the teacher's utils.MemReport type.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"eftc/envelope"
)

func main() {
	modelPath := flag.String("model", "", "Path to a serialized EFTC model")
	asJSON := flag.Bool("json", false, "Print the report as JSON instead of a tree")
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

	report := model.Stats()
	if *asJSON {
		fmt.Println(report.JSON())
		return
	}

	fmt.Printf("orders: %d, resident size: %s\n", model.NumOrders(), humanize.Bytes(uint64(report.TotalBytes)))
	for i := 1; i <= model.NumOrders(); i++ {
		fmt.Printf("  order %d: %s grams\n", i, humanize.Comma(int64(model.NumGrams(i))))
	}
	report.Print(0)
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, "stats: "+msg)
	os.Exit(1)
}
