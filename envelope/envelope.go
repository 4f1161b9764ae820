// Package envelope implements the on-disk serialization format of spec.md
// §4.9: a magic/version header followed by the vocabulary, the order-1
// layer, the structural trie layers, and the count-rank dictionaries.
//
// Each trie layer's count-rank array travels inside that layer's own blob
// (trielayer.Layer.WriteTo already appends it after tokens/bases/pointers)
// rather than as a separate top-level section as spec.md §4.9 diagrams it;
// DESIGN.md records this as a deliberate layout simplification that doesn't
// change any of spec.md §8's round-trip or lookup-equivalence invariants,
// which are about behavior, not byte layout.
package envelope

import (
	"encoding/binary"
	"fmt"
	"io"

	"eftc"
	"eftc/countrank"
	"eftc/trielayer"
	"eftc/vocab"
)

// Magic identifies an EFTC model file.
var magic = [4]byte{'E', 'F', 'T', 'C'}

// Version is the current envelope format version.
const Version = 1

// WriteModel serializes m to w.
func WriteModel(w io.Writer, m *eftc.Model) (int64, error) {
	var total int64

	hdr := make([]byte, 4+4+8)
	copy(hdr[0:4], magic[:])
	binary.LittleEndian.PutUint32(hdr[4:8], Version)
	binary.LittleEndian.PutUint64(hdr[8:16], uint64(m.NumOrders()))
	n, err := w.Write(hdr)
	total += int64(n)
	if err != nil {
		return total, fmt.Errorf("envelope: write header: %w", err)
	}

	n2, err := writeVocab(w, m.Vocab)
	total += n2
	if err != nil {
		return total, err
	}

	n2, err = m.Order1.WriteTo(w)
	total += n2
	if err != nil {
		return total, fmt.Errorf("envelope: write order-1 layer: %w", err)
	}

	for i, layer := range m.Layers {
		n2, err = layer.WriteTo(w)
		total += n2
		if err != nil {
			return total, fmt.Errorf("envelope: write layer %d: %w", i+2, err)
		}
	}

	for i, d := range m.Dicts {
		n2, err = writeDict(w, d)
		total += n2
		if err != nil {
			return total, fmt.Errorf("envelope: write dict %d: %w", i+1, err)
		}
	}

	return total, nil
}

// ReadModel deserializes a Model written by WriteModel.
func ReadModel(r io.Reader) (*eftc.Model, error) {
	hdr := make([]byte, 16)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, fmt.Errorf("envelope: read header: %w", err)
	}
	if string(hdr[0:4]) != string(magic[:]) {
		return nil, fmt.Errorf("envelope: bad magic %q, not an EFTC model file", hdr[0:4])
	}
	version := binary.LittleEndian.Uint32(hdr[4:8])
	if version != Version {
		return nil, fmt.Errorf("envelope: unsupported format version %d (want %d)", version, Version)
	}
	numOrders := int(binary.LittleEndian.Uint64(hdr[8:16]))
	if numOrders < 1 || numOrders > eftc.MaxOrder {
		return nil, fmt.Errorf("envelope: invalid order count %d", numOrders)
	}

	vocabulary, err := readVocab(r)
	if err != nil {
		return nil, err
	}

	order1, err := trielayer.ReadOrder1Layer(r)
	if err != nil {
		return nil, fmt.Errorf("envelope: read order-1 layer: %w", err)
	}

	layers := make([]*trielayer.Layer, numOrders-1)
	for i := range layers {
		layer, err := trielayer.ReadLayer(r)
		if err != nil {
			return nil, fmt.Errorf("envelope: read layer %d: %w", i+2, err)
		}
		layers[i] = layer
	}

	dicts := make([]*countrank.Dict, numOrders)
	for i := range dicts {
		d, err := readDict(r)
		if err != nil {
			return nil, fmt.Errorf("envelope: read dict %d: %w", i+1, err)
		}
		dicts[i] = d
	}

	return &eftc.Model{
		Vocab:  vocabulary,
		Order1: order1,
		Layers: layers,
		Dicts:  dicts,
	}, nil
}

func writeVocab(w io.Writer, v *vocab.Vocabulary) (int64, error) {
	n, err := v.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("envelope: write vocabulary: %w", err)
	}
	return n, nil
}

func readVocab(r io.Reader) (*vocab.Vocabulary, error) {
	v, err := vocab.ReadVocabulary(r)
	if err != nil {
		return nil, fmt.Errorf("envelope: read vocabulary: %w", err)
	}
	return v, nil
}

func writeDict(w io.Writer, d *countrank.Dict) (int64, error) {
	return d.WriteTo(w)
}

func readDict(r io.Reader) (*countrank.Dict, error) {
	return countrank.ReadDict(r)
}
