package engine

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
)

type boundKind uint8

const (
	boundNone boundKind = iota
	boundExact
	boundLower
	boundUpper
)

type ttEntry struct {
	hash  uint64
	move  dragontoothmg.Move
	score int16
	depth int8
	kind  boundKind
}

// defaultTTSize is the number of table entries (16 bytes each, ~16 MB).
const defaultTTSize = 1 << 20

// transpositionTable is a fixed-size, open-addressed cache of search
// results keyed by Zobrist hash. Index collisions are resolved by full-hash
// verification on probe; a colliding store simply evicts.
type transpositionTable struct {
	entries []ttEntry
	mask    uint64
}

// newTranspositionTable rounds size up to a power of two so indexing is a
// single mask.
func newTranspositionTable(size int) *transpositionTable {
	if size < 1 {
		size = 1
	}
	if size&(size-1) != 0 {
		size = 1 << bits.Len(uint(size))
	}
	return &transpositionTable{
		entries: make([]ttEntry, size),
		mask:    uint64(size - 1),
	}
}

// probe returns the entry for hash, if one is cached.
func (tt *transpositionTable) probe(hash uint64) (ttEntry, bool) {
	entry := tt.entries[hash&tt.mask]
	if entry.kind == boundNone || entry.hash != hash {
		return ttEntry{}, false
	}
	return entry, true
}

// store caches a result. An occupied slot is only replaced by an entry of
// equal or greater depth, so shallow overwrites cannot evict deep work.
func (tt *transpositionTable) store(hash uint64, depth int8, move dragontoothmg.Move, score int16, kind boundKind) {
	slot := &tt.entries[hash&tt.mask]
	if slot.kind != boundNone && depth < slot.depth {
		return
	}
	*slot = ttEntry{hash: hash, move: move, score: score, depth: depth, kind: kind}
}

func (tt *transpositionTable) clear() {
	for i := range tt.entries {
		tt.entries[i] = ttEntry{}
	}
}
