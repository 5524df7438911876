package treefile_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/rawblock/wordle-engine/internal/builder"
	"github.com/rawblock/wordle-engine/internal/heuristic"
	"github.com/rawblock/wordle-engine/internal/pattern"
	"github.com/rawblock/wordle-engine/internal/player"
	"github.com/rawblock/wordle-engine/internal/treefile"
	"github.com/rawblock/wordle-engine/internal/verify"
	"github.com/rawblock/wordle-engine/internal/words"
)

var testWords = []string{
	"about", "brisk", "candy", "dwell", "eagle",
	"flint", "grape", "house", "inlet", "jumbo",
	"knack", "lemon", "mirth", "noble", "ocean",
	"pixel", "quart", "rusty", "shelf", "tiger",
}

func buildTree(t *testing.T) (*builder.Node, *words.List) {
	t.Helper()
	list := words.FromSlices(testWords, testWords)
	table := pattern.Generate(list.Guesses(), list.Secrets())
	b, err := builder.New(builder.Config{
		Words: list, Table: table, StartWord: "about", Mode: heuristic.ModeEntropy,
	})
	if err != nil {
		t.Fatalf("builder.New: %v", err)
	}
	root, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return root, list
}

func TestWriteLoad_HeaderLayout(t *testing.T) {
	root, list := buildTree(t)
	path := filepath.Join(t.TempDir(), "tree.bin")
	if err := treefile.Write(path, root, list.Checksum()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(raw) < 24 {
		t.Fatalf("file too small: %d bytes", len(raw))
	}

	if magic := binary.LittleEndian.Uint32(raw[0:4]); magic != treefile.Magic {
		t.Errorf("magic = 0x%08X, want 0x%08X", magic, uint32(treefile.Magic))
	}
	if ver := binary.LittleEndian.Uint32(raw[4:8]); ver != treefile.Version {
		t.Errorf("version = %d, want %d", ver, treefile.Version)
	}
	if sum := binary.LittleEndian.Uint64(raw[8:16]); sum != list.Checksum() {
		t.Errorf("checksum = %016x, want %016x", sum, list.Checksum())
	}

	numNodes := binary.LittleEndian.Uint32(raw[16:20])
	if rootIdx := binary.LittleEndian.Uint32(raw[20:24]); rootIdx != 0 {
		t.Errorf("root index = %d, want 0", rootIdx)
	}

	// Fixed layout: header, 4-byte node records, 243-wide uint32 child rows.
	wantSize := 24 + 4*int(numNodes) + 4*243*int(numNodes)
	if len(raw) != wantSize {
		t.Errorf("file size = %d, want %d for %d nodes", len(raw), wantSize, numNodes)
	}

	tree, err := treefile.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tree.NumNodes() != int(numNodes) {
		t.Errorf("NumNodes = %d, header says %d", tree.NumNodes(), numNodes)
	}
}

func TestRoundTrip_ReplaysIdentically(t *testing.T) {
	root, list := buildTree(t)

	rep, err := verify.Tree(root, list)
	if err != nil {
		t.Fatalf("in-memory verify: %v", err)
	}

	path := filepath.Join(t.TempDir(), "tree.bin")
	if err := treefile.Write(path, root, list.Checksum()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	tree, err := treefile.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	p := player.New(tree, list)
	var total int64
	maxDepth := 0
	for _, secret := range list.Secrets() {
		steps, err := p.Replay(secret)
		if err != nil {
			t.Fatalf("replay %q: %v", secret, err)
		}
		if last := steps[len(steps)-1]; last.Pattern != pattern.AllGreen || last.Guess != secret {
			t.Errorf("replay of %q ended on %q (%s)", secret, last.Guess, pattern.String(last.Pattern))
		}
		total += int64(len(steps))
		if len(steps) > maxDepth {
			maxDepth = len(steps)
		}
	}

	// The deserialized tree must agree with the in-memory replay exactly.
	if total != rep.TotalGuesses {
		t.Errorf("total guesses %d after round trip, %d in memory", total, rep.TotalGuesses)
	}
	if maxDepth != rep.MaxDepth {
		t.Errorf("max depth %d after round trip, %d in memory", maxDepth, rep.MaxDepth)
	}
}

func TestLoad_RejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.bin")
	if err := os.WriteFile(path, make([]byte, 64), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := treefile.Load(path); err == nil {
		t.Error("Load accepted a zeroed file")
	}
}

func TestSuggest_FollowsFeedback(t *testing.T) {
	root, list := buildTree(t)
	path := filepath.Join(t.TempDir(), "tree.bin")
	if err := treefile.Write(path, root, list.Checksum()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	tree, err := treefile.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p := player.New(tree, list)

	// Drive the suggestion walk with real feedback for one secret and
	// confirm it converges on that word within the budget.
	secret := "tiger"
	var history []uint8
	for turn := 1; turn <= 6; turn++ {
		resp, err := p.Suggest(history)
		if err != nil {
			t.Fatalf("Suggest turn %d: %v", turn, err)
		}
		fb := pattern.CalcStrings(resp.Guess, secret)
		if fb == pattern.AllGreen {
			if resp.Guess != secret {
				t.Fatalf("converged on %q, want %q", resp.Guess, secret)
			}
			return
		}
		history = append(history, fb)
	}
	t.Fatalf("did not converge on %q within 6 turns", secret)
}
