// Package record streams (gram, count) pairs from the text input format
// defined in spec.md §6.1: a header line giving the record count, then one
// "<gram><TAB><count>" line per record.
package record

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"eftc/gram"
)

// Record is a single owned (gram, count) pair. Unlike gram.Gram, which may
// borrow from a shared buffer, Record owns its bytes: the parser's internal
// line buffer is reused across calls to Next, so anything the caller keeps
// past the next Next call must be copied — Record does that copying once,
// at the Parser/Record boundary (spec.md §9, "Ownership of byte data").
type Record struct {
	Gram  gram.Gram
	Count uint64
}

// Parser streams Records from a text source in the format of spec.md §6.1.
// A Parser is single-use and not safe for concurrent use (spec.md §5).
type Parser struct {
	sc        *bufio.Scanner
	total     uint64
	n         uint64
	line      uint64
	order     int
	lastErr   error
	sawHeader bool
}

// NewParser creates a Parser that enforces records all have exactly order
// tokens. Pass order <= 0 to skip that check (used by tooling that doesn't
// know the order ahead of time).
func NewParser(r io.Reader, order int) (*Parser, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	p := &Parser{sc: sc, order: order}
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("record: reading header: %w", err)
		}
		return nil, fmt.Errorf("record: empty input, expected a header line")
	}
	p.line = 1
	header := bytes.TrimSpace(sc.Bytes())
	total, err := strconv.ParseUint(string(header), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("record: malformed header %q: %w", header, err)
	}
	p.total = total
	p.sawHeader = true
	return p, nil
}

// Total returns the record count declared by the header line.
func (p *Parser) Total() uint64 { return p.total }

// Next advances to the next record. It returns false when the stream is
// exhausted (with a nil error) or a parse/count-mismatch error occurred
// (with that error, which every later call returns again).
func (p *Parser) Next() (Record, bool, error) {
	if p.lastErr != nil {
		return Record{}, false, p.lastErr
	}
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			p.lastErr = fmt.Errorf("record: line %d: %w", p.line+1, err)
			return Record{}, false, p.lastErr
		}
		if p.n != p.total {
			p.lastErr = fmt.Errorf("record: header declared %d records but stream had %d", p.total, p.n)
			return Record{}, false, p.lastErr
		}
		return Record{}, false, nil
	}
	p.line++
	line := p.sc.Bytes()
	if len(line) == 0 {
		p.lastErr = fmt.Errorf("record: line %d: empty line is not a valid record", p.line)
		return Record{}, false, p.lastErr
	}
	tab := bytes.LastIndexByte(line, '\t')
	if tab < 0 {
		p.lastErr = fmt.Errorf("record: line %d: missing tab separator in %q", p.line, line)
		return Record{}, false, p.lastErr
	}
	gramBytes := line[:tab]
	countBytes := line[tab+1:]

	g, err := gram.Parse(gramBytes)
	if err != nil {
		p.lastErr = fmt.Errorf("record: line %d: %w", p.line, err)
		return Record{}, false, p.lastErr
	}
	if p.order > 0 && g.NumTokens() != p.order {
		p.lastErr = fmt.Errorf("record: line %d: gram %q has %d tokens, want %d", p.line, g, g.NumTokens(), p.order)
		return Record{}, false, p.lastErr
	}
	count, err := strconv.ParseUint(string(countBytes), 10, 64)
	if err != nil {
		p.lastErr = fmt.Errorf("record: line %d: malformed count %q: %w", p.line, countBytes, err)
		return Record{}, false, p.lastErr
	}

	owned := make([]byte, len(gramBytes))
	copy(owned, gramBytes)
	p.n++
	return Record{Gram: gram.Gram(owned), Count: count}, true, nil
}

// N returns the number of records consumed so far.
func (p *Parser) N() uint64 { return p.n }
