package words

import (
	"os"
	"path/filepath"
	"testing"
)

func writeList(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_TrimsSkipsAndSorts(t *testing.T) {
	// Mixed input: trailing whitespace, a short word, a long word, a
	// blank line, and a duplicate. Only valid 5-letter words survive,
	// sorted and deduplicated.
	path := writeList(t, "pearl  \nape\napple\n\nspell\nbananas\napple\n")

	list, err := LoadSingle(path)
	if err != nil {
		t.Fatalf("LoadSingle: %v", err)
	}

	want := []string{"apple", "pearl", "spell"}
	got := list.Secrets()
	if len(got) != len(want) {
		t.Fatalf("secrets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("secrets[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if len(list.Guesses()) != len(want) {
		t.Errorf("single-list guesses = %v, want same as secrets", list.Guesses())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := LoadSingle(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestChecksum_OrderIndependentInputs(t *testing.T) {
	a := writeList(t, "spell\napple\npearl\n")
	b := writeList(t, "pearl\nspell\napple\n")

	la, err := LoadSingle(a)
	if err != nil {
		t.Fatal(err)
	}
	lb, err := LoadSingle(b)
	if err != nil {
		t.Fatal(err)
	}

	// The checksum identifies the word-list version; file ordering is
	// canonicalized away before hashing.
	if la.Checksum() != lb.Checksum() {
		t.Errorf("checksums differ for reordered inputs: %016x vs %016x", la.Checksum(), lb.Checksum())
	}

	lc := FromSlices([]string{"apple", "pearl", "spell", "crane"}, []string{"apple", "pearl", "spell", "crane"})
	if lc.Checksum() == la.Checksum() {
		t.Error("adding a word should change the checksum")
	}
}

func TestGuessIndex_BinarySearch(t *testing.T) {
	list := FromSlices([]string{"apple"}, []string{"apple", "pearl", "spell", "trace"})

	for i, w := range list.Guesses() {
		idx, ok := list.GuessIndex(w)
		if !ok || idx != i {
			t.Errorf("GuessIndex(%q) = %d, %v; want %d, true", w, idx, ok, i)
		}
	}
	if _, ok := list.GuessIndex("zebra"); ok {
		t.Error("GuessIndex found a word not in the list")
	}
	if idx, ok := list.SecretIndex("apple"); !ok || idx != 0 {
		t.Errorf("SecretIndex(apple) = %d, %v", idx, ok)
	}
}
