package pairing

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secretsanta/internal/roster"
)

func mustRoster(t *testing.T, yaml string) *roster.Roster {
	t.Helper()
	r, err := roster.Parse([]byte(yaml))
	require.NoError(t, err)
	return r
}

func rosterOf(t *testing.T, names ...string) *roster.Roster {
	t.Helper()
	yaml := ""
	for i, name := range names {
		yaml += fmt.Sprintf("%s:\n  phone: \"555000%04d\"\n", name, i)
	}
	return mustRoster(t, yaml)
}

func TestAssign_NoSelfAssignment(t *testing.T) {
	r := rosterOf(t, "P1", "P2", "P3", "P4", "P5", "P6")

	for seed := int64(0); seed < 200; seed++ {
		engine := NewEngine(r, rand.New(rand.NewSource(seed)))
		got, err := engine.Assign()
		require.NoError(t, err)
		require.Len(t, got, r.Len())

		seen := map[string]bool{}
		for giver, recipient := range got {
			assert.NotEqual(t, giver, recipient, "seed %d: self-assignment", seed)
			assert.False(t, seen[recipient], "seed %d: %s drawn twice", seed, recipient)
			seen[recipient] = true
		}
	}
}

func TestAssign_TwoPersonRoster(t *testing.T) {
	r := rosterOf(t, "P1", "P2")
	want := Assignments{"P1": "P2", "P2": "P1"}

	// The only legal outcome is the swap, whatever the seed.
	for seed := int64(0); seed < 50; seed++ {
		engine := NewEngine(r, rand.New(rand.NewSource(seed)))
		got, err := engine.Assign()
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("seed %d: unexpected assignment (-want +got):\n%s", seed, diff)
		}
	}
}

func TestAssign_ExclusionsAreDirectional(t *testing.T) {
	r := mustRoster(t, `
Alice:
  phone: "1112223333"
  exclude: Bob
Bob:
  phone: "4445556666"
Carol:
  phone: "7778889999"
`)

	sawBobDrawAlice := false
	for seed := int64(0); seed < 200; seed++ {
		engine := NewEngine(r, rand.New(rand.NewSource(seed)))
		got, err := engine.Assign()
		require.NoError(t, err)

		// Alice excluding Bob restricts Alice only.
		assert.NotEqual(t, "Bob", got["Alice"], "seed %d", seed)
		if got["Bob"] == "Alice" {
			sawBobDrawAlice = true
		}
	}
	assert.True(t, sawBobDrawAlice, "exclusion leaked in the reverse direction: Bob never drew Alice")
}

func TestAssign_ExtraExclusions(t *testing.T) {
	r := rosterOf(t, "P1", "P2", "P3")

	for seed := int64(0); seed < 100; seed++ {
		engine := NewEngine(r, rand.New(rand.NewSource(seed)))
		engine.Exclude("P1", "P2")
		got, err := engine.Assign()
		require.NoError(t, err)
		assert.NotEqual(t, "P2", got["P1"], "seed %d", seed)
	}
}

func TestAssign_DeterministicForSeed(t *testing.T) {
	r := rosterOf(t, "P1", "P2", "P3", "P4", "P5")

	first, err := NewEngine(r, rand.New(rand.NewSource(42))).Assign()
	require.NoError(t, err)
	second, err := NewEngine(r, rand.New(rand.NewSource(42))).Assign()
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("same seed produced different draws (-first +second):\n%s", diff)
	}
}

func TestAssign_Infeasible(t *testing.T) {
	// Alice may not draw Bob and cannot draw herself, so her pool is
	// empty before the first pass even starts.
	r := mustRoster(t, `
Alice:
  phone: "1112223333"
  exclude: Bob
Bob:
  phone: "4445556666"
`)

	engine := NewEngine(r, rand.New(rand.NewSource(1)))
	_, err := engine.Assign()
	assert.True(t, errors.Is(err, ErrInfeasible), "got %v", err)
}

func TestFeasible(t *testing.T) {
	t.Run("open roster", func(t *testing.T) {
		engine := NewEngine(rosterOf(t, "P1", "P2", "P3"), rand.New(rand.NewSource(1)))
		assert.True(t, engine.Feasible())
	})

	t.Run("tight but solvable", func(t *testing.T) {
		// Only one valid assignment remains: A->C, B->A, C->B.
		r := mustRoster(t, `
A:
  phone: "1112223333"
  exclude: B
B:
  phone: "4445556666"
  exclude: C
C:
  phone: "7778889999"
  exclude: A
`)
		engine := NewEngine(r, rand.New(rand.NewSource(1)))
		assert.True(t, engine.Feasible())

		got, err := engine.Assign()
		require.NoError(t, err)
		want := Assignments{"A": "C", "B": "A", "C": "B"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("unexpected assignment (-want +got):\n%s", diff)
		}
	})

	t.Run("dead end", func(t *testing.T) {
		// Everyone refuses to draw C, so C is never a recipient and the
		// assigned set can never cover the roster.
		r := mustRoster(t, `
A:
  phone: "1112223333"
  exclude: C
B:
  phone: "4445556666"
  exclude: C
C:
  phone: "7778889999"
`)
		engine := NewEngine(r, rand.New(rand.NewSource(1)))
		assert.False(t, engine.Feasible())

		_, err := engine.Assign()
		assert.True(t, errors.Is(err, ErrInfeasible), "got %v", err)
	})
}

func TestAssign_RosterOrderIsDrawOrder(t *testing.T) {
	// P1 is processed first and may draw anyone; once they draw, that
	// recipient is gone for P2 and P3. With MaxAttempts=1 a depleted
	// pool surfaces as ErrNoValidPairing instead of a silent retry.
	r := rosterOf(t, "P1", "P2", "P3")

	sawRetryFailure := false
	for seed := int64(0); seed < 200; seed++ {
		engine := NewEngine(r, rand.New(rand.NewSource(seed)))
		engine.MaxAttempts = 1
		if _, err := engine.Assign(); errors.Is(err, ErrNoValidPairing) {
			sawRetryFailure = true
			break
		}
	}
	assert.True(t, sawRetryFailure, "expected at least one single-pass dead end on a 3-person roster")
}
