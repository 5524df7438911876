package treefile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"log"
	"os"

	"github.com/rawblock/wordle-engine/internal/builder"
	"github.com/rawblock/wordle-engine/internal/pattern"
)

// Serialized layout, little-endian. Subtrees shared by memoization are
// emitted once; breadth-first order assigns each distinct node a dense
// index and child pointers are rewritten to those indices.
const (
	Magic   = 0x5752444C
	Version = 1

	// AbsentChild marks an empty slot in a node's 243-wide child row.
	AbsentChild = 0xFFFFFFFF

	// FlagLeaf and FlagSolution are the node record flag bits.
	FlagLeaf     = 1 << 0
	FlagSolution = 1 << 1
)

type header struct {
	Magic    uint32
	Version  uint32
	Checksum uint64
	NumNodes uint32
	Root     uint32
}

type diskNode struct {
	GuessIndex uint16
	Flags      uint16
}

// Write flattens the tree rooted at root and serializes it to path.
// checksum is the word-list digest embedded in the header.
func Write(path string, root *builder.Node, checksum uint64) error {
	if root == nil {
		return fmt.Errorf("nil tree root")
	}

	flat, index := flatten(root)
	log.Printf("[TreeFile] Writing %d nodes to %s", len(flat), path)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create tree file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	h := header{
		Magic:    Magic,
		Version:  Version,
		Checksum: checksum,
		NumNodes: uint32(len(flat)),
		Root:     0,
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, n := range flat {
		dn := diskNode{GuessIndex: n.GuessIndex}
		if n.IsLeaf {
			dn.Flags = FlagLeaf | FlagSolution
		}
		if err := binary.Write(w, binary.LittleEndian, dn); err != nil {
			return fmt.Errorf("write node records: %w", err)
		}
	}

	row := make([]uint32, pattern.Codes)
	for _, n := range flat {
		for p := 0; p < pattern.Codes; p++ {
			if child := n.Children[p]; child != nil {
				row[p] = index[child]
			} else {
				row[p] = AbsentChild
			}
		}
		if err := binary.Write(w, binary.LittleEndian, row); err != nil {
			return fmt.Errorf("write child table: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush tree file: %w", err)
	}
	return nil
}

// flatten walks the DAG breadth-first, assigning each distinct node one
// dense index. Shared children are visited once.
func flatten(root *builder.Node) ([]*builder.Node, map[*builder.Node]uint32) {
	flat := []*builder.Node{root}
	index := map[*builder.Node]uint32{root: 0}

	for head := 0; head < len(flat); head++ {
		n := flat[head]
		for p := 0; p < pattern.Codes; p++ {
			child := n.Children[p]
			if child == nil {
				continue
			}
			if _, seen := index[child]; !seen {
				index[child] = uint32(len(flat))
				flat = append(flat, child)
			}
		}
	}
	return flat, index
}
