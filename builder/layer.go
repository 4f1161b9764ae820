package builder

import (
	"bytes"
	"fmt"

	"eftc/countrank"
	"eftc/record"
	"eftc/trielayer"
	"eftc/vocab"
)

// buildLayer runs Stage C for order k (>= 2): a lockstep joint walk of the
// order-(k-1) stream ("prev", the parents) and the order-k stream ("cur",
// the children), per spec.md §4.7.1 steps 2-4.
//
// prevRec/prevOk always refers to the parent record currently aligned with
// the walk: either the one whose range is being filled in (prefix ==
// prevRec.Gram), or — once every matching child has been consumed — still
// the last parent visited, not yet advanced past. That distinction is why
// the trailing cleanup loop below peeks ahead with one extra Next() call
// before deciding a record counts as "remaining": treating the
// already-matched prev as remaining would double-count its pointer boundary.
func buildLayer(prevSrc, curSrc Source, order int, vocabulary *vocab.Vocabulary, dict *countrank.Dict) (*trielayer.Layer, error) {
	prevRC, err := prevSrc.Open()
	if err != nil {
		return nil, fmt.Errorf("opening order-%d stream: %w", order-1, err)
	}
	defer prevRC.Close()
	curRC, err := curSrc.Open()
	if err != nil {
		return nil, fmt.Errorf("opening order-%d stream: %w", order, err)
	}
	defer curRC.Close()

	prevParser, err := record.NewParser(prevRC, order-1)
	if err != nil {
		return nil, err
	}
	curParser, err := record.NewParser(curRC, order)
	if err != nil {
		return nil, err
	}

	lb := trielayer.NewBuilder(int(curParser.Total()))

	prevRec, prevOk, err := prevParser.Next()
	if err != nil {
		return nil, err
	}

	for {
		curRec, ok, err := curParser.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		prefix, lastTok := curRec.Gram.SplitLast()

		for !prevOk || !bytes.Equal(prefix, prevRec.Gram) {
			if !prevOk {
				return nil, fmt.Errorf("gram %q has no parent in the order-%d stream", curRec.Gram, order-1)
			}
			lb.AdvanceParent()
			prevRec, prevOk, err = prevParser.Next()
			if err != nil {
				return nil, err
			}
		}

		tokenID, ok := vocabulary.Get(lastTok)
		if !ok {
			return nil, fmt.Errorf("gram %q: token %q is not in the vocabulary", curRec.Gram, lastTok)
		}
		rank := dict.Rank(curRec.Count)
		lb.AppendChild(uint32(tokenID), rank)
	}

	// Trailing parents with no children at all: peek ahead for each
	// remaining order-(k-1) record and cross its boundary before deciding
	// it counts (see the doc comment above on why this can't reuse the
	// append-then-advance shape of the loop above).
	for {
		nextRec, nextOk, err := prevParser.Next()
		if err != nil {
			return nil, err
		}
		if !nextOk {
			break
		}
		lb.AdvanceParent()
		prevRec, prevOk = nextRec, true
	}
	lb.AdvanceParent()

	return lb.Freeze(), nil
}
