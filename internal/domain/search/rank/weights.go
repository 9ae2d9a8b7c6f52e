package rank

import (
	"fmt"

	"github.com/lilykang127/connect-ltv/internal/domain/profile"
)

// Weights maps a profile attribute to the points awarded per term hit.
// Attributes absent from the table score nothing.
type Weights map[profile.Field]int

// Default returns the standard weight table.
func Default() Weights {
	return Weights{
		profile.FullName:     10,
		profile.Position:     7,
		profile.Organization: 7,
		profile.Function:     5,
		profile.Stage:        5,
		profile.Comments:     5,
		profile.Location:     3,
	}
}

// tiers lists weight groups from strongest to weakest signal.
// Every weight in a tier must exceed every weight in the tiers below it.
var tiers = [][]profile.Field{
	{profile.FullName},
	{profile.Position, profile.Organization},
	{profile.Function, profile.Stage, profile.Comments},
	{profile.Location},
}

// Validate checks weights are non-negative, name known fields, and keep tier ordering.
func (w Weights) Validate() error {
	for f, v := range w {
		if !f.IsValid() {
			return fmt.Errorf("unknown field %q", f)
		}
		if v < 0 {
			return fmt.Errorf("weight for %q must be >= 0, got %d", f, v)
		}
	}
	for i := 0; i < len(tiers)-1; i++ {
		low := minOf(w, tiers[i])
		for _, below := range tiers[i+1] {
			if w[below] >= low {
				return fmt.Errorf("weight for %q (%d) must be lower than every weight in %v (min %d)",
					below, w[below], tiers[i], low)
			}
		}
	}
	return nil
}

func minOf(w Weights, fields []profile.Field) int {
	m := w[fields[0]]
	for _, f := range fields[1:] {
		if w[f] < m {
			m = w[f]
		}
	}
	return m
}

// Merge returns a copy of w with the given overrides applied.
func (w Weights) Merge(overrides map[profile.Field]int) Weights {
	out := make(Weights, len(w)+len(overrides))
	for f, v := range w {
		out[f] = v
	}
	for f, v := range overrides {
		out[f] = v
	}
	return out
}
