package pattern

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Table is the dense guess×secret feedback matrix. Row g is contiguous,
// so scoring a single guess streams linearly through memory.
type Table struct {
	data       []uint8
	numGuesses int
	numSecrets int
}

// Generate computes the full matrix. Rows are partitioned into contiguous
// ranges, one per worker; workers write disjoint rows so the output is
// deterministic regardless of scheduling.
func Generate(guesses, secrets []string) *Table {
	t := &Table{
		data:       make([]uint8, len(guesses)*len(secrets)),
		numGuesses: len(guesses),
		numSecrets: len(secrets),
	}

	packedGuesses := make([]Packed, len(guesses))
	for i, w := range guesses {
		packedGuesses[i] = Pack(w)
	}
	packedSecrets := make([]Packed, len(secrets))
	for i, w := range secrets {
		packedSecrets[i] = Pack(w)
	}

	workers := runtime.NumCPU()
	if workers > t.numGuesses {
		workers = t.numGuesses
	}
	if workers < 1 {
		workers = 1
	}

	g, _ := errgroup.WithContext(context.Background())
	chunk := (t.numGuesses + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > t.numGuesses {
			end = t.numGuesses
		}
		if start >= end {
			break
		}
		g.Go(func() error {
			for gi := start; gi < end; gi++ {
				row := t.data[gi*t.numSecrets : (gi+1)*t.numSecrets]
				pg := packedGuesses[gi]
				for si := range packedSecrets {
					row[si] = Calc(pg, packedSecrets[si])
				}
			}
			return nil
		})
	}
	// Workers never fail; Wait is only the join point.
	_ = g.Wait()
	return t
}

// At returns P[guess, secret].
func (t *Table) At(guess, secret int) uint8 {
	return t.data[guess*t.numSecrets+secret]
}

// Row returns the contiguous feedback row for one guess.
func (t *Table) Row(guess int) []uint8 {
	return t.data[guess*t.numSecrets : (guess+1)*t.numSecrets]
}

func (t *Table) NumGuesses() int { return t.numGuesses }
func (t *Table) NumSecrets() int { return t.numSecrets }
