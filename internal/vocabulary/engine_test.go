package vocabulary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApply_CasePreservation(t *testing.T) {
	e := NewEngine(true)

	tests := []struct {
		in, want string
	}{
		{"money", "tokens"},
		{"Money", "Tokens"},
		{"MONEY", "TOKENS"},
	}
	for _, tt := range tests {
		if got := e.Apply(tt.in); got != tt.want {
			t.Errorf("Apply(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApply_WholeWordOnly(t *testing.T) {
	e := NewEngine(true)

	// "moneybox" and "goodness" embed originals but are not whole-word hits.
	got := e.Apply("the moneybox held money and goodness held good")
	require.Equal(t, "the moneybox held tokens and goodness held favorable", got)
}

func TestApply_LongestMatchFirst(t *testing.T) {
	e := NewEngine(true)

	// "hard work" must be taken as a phrase, never clobbered by "work".
	got := e.Apply("Hard work beats work")
	require.Equal(t, "Sustained effort beats labor", got)
}

func TestApply_Disabled(t *testing.T) {
	e := NewEngine(false)
	in := "money buys help"
	if got := e.Apply(in); got != in {
		t.Errorf("disabled Apply mutated input: %q", got)
	}
}

func TestReverse_AlwaysActive(t *testing.T) {
	// Reverse has no disable switch; it only runs on synthetic text.
	e := NewEngine(false)
	require.Equal(t, "money", e.Reverse("tokens"))
}

func TestRoundTrip_AllMappings(t *testing.T) {
	e := NewEngine(true)

	for _, m := range Mappings() {
		got := e.Reverse(e.Apply(m.Original))
		require.Equal(t, m.Original, got, "round trip for %q", m.Original)
	}
}

func TestRoundTrip_Sentence(t *testing.T) {
	e := NewEngine(true)

	in := "My friend will help me sell food for money after hard work."
	mid := e.Apply(in)
	require.NotEqual(t, in, mid)
	require.NotContains(t, strings.ToLower(mid), "money")
	require.NotContains(t, strings.ToLower(mid), "friend")

	require.Equal(t, in, e.Reverse(mid))
}

func TestApply_NoDoubleSubstitution(t *testing.T) {
	e := NewEngine(true)

	// One pass only: the synthetic output of one mapping must not be fed
	// into another. "work" -> "labor" stays "labor" even though further
	// passes over the text could keep rewriting.
	got := e.Apply("work")
	require.Equal(t, "labor", got)
	require.Equal(t, got, e.Apply(e.Reverse(got)), "apply/reverse must be stable")
}

func TestMappings_TableSanity(t *testing.T) {
	ms := Mappings()
	require.NotEmpty(t, ms)

	seenOrig := map[string]bool{}
	seenSyn := map[string]bool{}
	for _, m := range ms {
		require.NotEmpty(t, m.Original)
		require.NotEmpty(t, m.Synthetic)
		require.Contains(t, []string{"economic", "moral", "social"}, m.Category)

		lo, ls := strings.ToLower(m.Original), strings.ToLower(m.Synthetic)
		require.False(t, seenOrig[lo], "duplicate original %q", m.Original)
		require.False(t, seenSyn[ls], "duplicate synthetic %q (reverse pass would be ambiguous)", m.Synthetic)
		seenOrig[lo] = true
		seenSyn[ls] = true
	}

	// A synthetic term that equals another mapping's original would make the
	// reverse pass rewrite freshly-restored text.
	for _, m := range ms {
		require.False(t, seenOrig[strings.ToLower(m.Synthetic)],
			"synthetic %q collides with an original term", m.Synthetic)
	}
}
