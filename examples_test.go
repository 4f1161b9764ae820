package eftc_test

import (
	"bytes"
	"fmt"

	"eftc/builder"
	"eftc/envelope"
	"eftc/lookup"
)

// Example mirrors tongrams/examples/basic.rs's build-then-query-then-
// serialize walkthrough: build a model from sorted N-gram count files (here,
// in-memory sources for a self-contained example), look up a few exact
// counts, then round-trip the model through the on-disk envelope format.
func Example() {
	sources := []builder.Source{
		builder.StringSource("4\nA\t10\nB\t7\nC\t1\nD\t1\n"),
		builder.StringSource("9\n" +
			"A A\t5\n" +
			"A C\t2\n" +
			"B B\t2\n" +
			"B C\t2\n" +
			"B D\t1\n" +
			"C A\t3\n" +
			"C D\t2\n" +
			"D B\t1\n" +
			"D D\t1\n"),
	}

	model, err := builder.Build(sources, builder.Config{})
	if err != nil {
		panic(err)
	}

	lookuper := lookup.New(model)
	count, _ := lookuper.LookupString("A")
	fmt.Println(count)
	count, _ = lookuper.LookupString("A A")
	fmt.Println(count)
	_, ok := lookuper.LookupString("A B")
	fmt.Println(ok)

	var data bytes.Buffer
	if _, err := envelope.WriteModel(&data, model); err != nil {
		panic(err)
	}

	other, err := envelope.ReadModel(&data)
	if err != nil {
		panic(err)
	}
	fmt.Println(model.NumOrders() == other.NumOrders())
	fmt.Println(model.NumGrams(2) == other.NumGrams(2))

	// Output:
	// 10
	// 5
	// false
	// true
	// true
}
