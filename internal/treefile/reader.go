package treefile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/rawblock/wordle-engine/internal/pattern"
)

// NodeRecord is one deserialized node.
type NodeRecord struct {
	GuessIndex uint16
	Flags      uint16
}

// Tree is a loaded serialized decision tree. It is read-only after Load.
type Tree struct {
	Checksum uint64
	Root     uint32
	nodes    []NodeRecord
	children []uint32
}

// Load reads and validates a serialized tree. A bad magic number or a
// truncated file is fatal; checksum agreement is the caller's concern
// because a mismatch is only a warning at the word-list boundary.
func Load(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tree file: %w", err)
	}
	return Decode(data)
}

// Decode parses a serialized tree from memory.
func Decode(data []byte) (*Tree, error) {
	r := bytes.NewReader(data)

	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if h.Magic != Magic {
		return nil, fmt.Errorf("bad magic 0x%08X (want 0x%08X)", h.Magic, uint32(Magic))
	}
	if h.Version != Version {
		return nil, fmt.Errorf("unsupported version %d", h.Version)
	}

	n := int(h.NumNodes)
	if h.Root >= h.NumNodes {
		return nil, fmt.Errorf("root index %d out of range (%d nodes)", h.Root, n)
	}

	t := &Tree{
		Checksum: h.Checksum,
		Root:     h.Root,
		nodes:    make([]NodeRecord, n),
		children: make([]uint32, n*pattern.Codes),
	}
	if err := binary.Read(r, binary.LittleEndian, t.nodes); err != nil {
		return nil, fmt.Errorf("read node records: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, t.children); err != nil {
		return nil, fmt.Errorf("read child table: %w", err)
	}
	return t, nil
}

// NumNodes returns the node count.
func (t *Tree) NumNodes() int { return len(t.nodes) }

// Node returns the record at index i.
func (t *Tree) Node(i uint32) NodeRecord { return t.nodes[i] }

// Child resolves the edge for a feedback code, reporting absence.
func (t *Tree) Child(node uint32, p uint8) (uint32, bool) {
	c := t.children[int(node)*pattern.Codes+int(p)]
	if c == AbsentChild {
		return 0, false
	}
	return c, true
}
