// Command sortgrams is a thin reference sorter that turns an unordered
// "<gram>\t<count>" file into the sorted, headered input format spec.md §6.1
// requires. It is not part of the core build path — spec.md §1 names
// external sorting as out of scope — this is an interface-level stub for
// small inputs, not a streaming external sort (spec.md §11, supplemented
// feature).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
)

func main() {
	in := flag.String("in", "", "Unsorted input file, \"<gram>\\t<count>\" per line")
	out := flag.String("out", "", "Sorted output file, with header")
	flag.Parse()

	if *in == "" || *out == "" {
		fail("-in and -out are required")
	}

	lines, err := readNonEmptyLines(*in)
	if err != nil {
		fail(err.Error())
	}

	sort.Slice(lines, func(i, j int) bool {
		gi, _, _ := strings.Cut(lines[i], "\t")
		gj, _, _ := strings.Cut(lines[j], "\t")
		return gi < gj
	})

	f, err := os.Create(*out)
	if err != nil {
		fail(err.Error())
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%d\n", len(lines))
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	if err := w.Flush(); err != nil {
		fail(err.Error())
	}
}

func readNonEmptyLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, "sortgrams: "+msg)
	os.Exit(1)
}
