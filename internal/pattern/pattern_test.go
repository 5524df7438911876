package pattern

import "testing"

func TestCalc_ExactMatch(t *testing.T) {
	if p := CalcStrings("salet", "salet"); p != AllGreen {
		t.Errorf("Expected all-green code %d for an exact match. Got: %d", AllGreen, p)
	}
}

func TestCalc_NoOverlap(t *testing.T) {
	if p := CalcStrings("abcde", "fghij"); p != 0 {
		t.Errorf("Expected code 0 for fully disjoint words. Got: %d", p)
	}
}

func TestCalc_DuplicateLetters(t *testing.T) {
	// "babes" vs "abbey": the green pass consumes the second 'b' of the
	// secret, so the guess's first 'b' goes yellow, its second 'b' green,
	// and the trailing 's' black. Naive per-position matching gets this
	// wrong.
	if p := CalcStrings("babes", "abbey"); p != 76 {
		t.Errorf("Expected code 76 for babes/abbey duplicate-letter case. Got: %d", p)
	}
}

func TestCalc_FourGreens(t *testing.T) {
	if p := CalcStrings("night", "sight"); p != 240 {
		t.Errorf("Expected code 240 for night/sight. Got: %d", p)
	}
}

func TestCalc_SelfIsAlwaysAllGreen(t *testing.T) {
	for _, w := range []string{"apple", "pearl", "spell", "zzzzz", "aabba"} {
		if p := CalcStrings(w, w); p != AllGreen {
			t.Errorf("pattern(%q, %q) = %d, want %d", w, w, p, AllGreen)
		}
	}
}

func TestCalc_CodeRange(t *testing.T) {
	wordsList := []string{"aahed", "babes", "abbey", "salet", "crane", "spell"}
	for _, g := range wordsList {
		for _, s := range wordsList {
			p := CalcStrings(g, s)
			if p > AllGreen {
				t.Fatalf("pattern(%q, %q) = %d out of [0,%d]", g, s, p, AllGreen)
			}
		}
	}
}

func TestStringParse_RoundTrip(t *testing.T) {
	for code := 0; code < Codes; code++ {
		s := String(uint8(code))
		back, ok := Parse(s)
		if !ok || back != uint8(code) {
			t.Fatalf("Parse(String(%d)) = %d, ok=%v", code, back, ok)
		}
	}
	if _, ok := Parse("GXBBB"); ok {
		t.Error("Parse accepted an invalid color letter")
	}
	if _, ok := Parse("GGGG"); ok {
		t.Error("Parse accepted a short feedback string")
	}
}

func TestGenerate_MatchesDirectComputation(t *testing.T) {
	secrets := []string{"abbey", "apple", "pearl", "spell"}
	guesses := []string{"abbey", "apple", "babes", "night", "pearl", "sight", "spell"}

	table := Generate(guesses, secrets)
	if table.NumGuesses() != len(guesses) || table.NumSecrets() != len(secrets) {
		t.Fatalf("table dims %dx%d, want %dx%d",
			table.NumGuesses(), table.NumSecrets(), len(guesses), len(secrets))
	}

	for g, gw := range guesses {
		row := table.Row(g)
		for s, sw := range secrets {
			want := CalcStrings(gw, sw)
			if table.At(g, s) != want {
				t.Errorf("P[%q,%q] = %d, want %d", gw, sw, table.At(g, s), want)
			}
			if row[s] != want {
				t.Errorf("Row(%q)[%q] = %d, want %d", gw, sw, row[s], want)
			}
		}
	}
}
