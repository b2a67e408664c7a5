// Package pairing draws a Secret Santa assignment from a roster under
// exclusion constraints.
//
// Givers are processed in roster order. Each giver draws uniformly from the
// pool of participants who are not themselves, not on their exclude list,
// and not already drawn by an earlier giver. A draw from an empty pool
// aborts the pass and the whole assignment is retried from scratch, up to
// MaxAttempts passes. Exclusions are directional: Alice excluding Bob stops
// Alice from drawing Bob, not Bob from drawing Alice.
package pairing

import (
	"errors"
	"math/rand"

	"github.com/samber/lo"

	"secretsanta/internal/roster"
)

// Assignments maps each giver to the recipient drawn for them.
type Assignments map[string]string

var (
	// ErrInfeasible means the exclusion constraints admit no complete
	// assignment, so retrying is pointless.
	ErrInfeasible = errors.New("pairing: exclusions leave no valid assignment")

	// ErrNoValidPairing means a valid assignment exists but none was
	// found within the attempt budget.
	ErrNoValidPairing = errors.New("pairing: no valid assignment found within attempt budget")
)

// DefaultMaxAttempts bounds the restart loop. Rejection sampling over a
// feasible roster of a few dozen people converges in a handful of passes;
// hitting this cap means the constraints are pathologically tight.
const DefaultMaxAttempts = 1000

// Engine draws assignments for one roster.
type Engine struct {
	givers   []string
	excluded map[string]map[string]bool
	rng      *rand.Rand

	// MaxAttempts caps full-pass restarts. Zero means DefaultMaxAttempts.
	MaxAttempts int
}

// NewEngine builds an engine over the roster's participants, in roster
// order, seeded with the given source of randomness.
func NewEngine(r *roster.Roster, rng *rand.Rand) *Engine {
	excluded := make(map[string]map[string]bool, r.Len())
	for _, name := range r.Names() {
		p, _ := r.Get(name)
		excluded[name] = lo.SliceToMap(p.Exclusions(), func(e string) (string, bool) {
			return e, true
		})
	}
	return &Engine{
		givers:   r.Names(),
		excluded: excluded,
		rng:      rng,
	}
}

// Exclude forbids additional recipients for a giver, on top of the
// roster's exclude list. Used to avoid repeating a previous year's draw.
func (e *Engine) Exclude(giver string, recipients ...string) {
	for _, recipient := range recipients {
		e.excluded[giver][recipient] = true
	}
}

// Assign draws a complete assignment, restarting on depleted pools until
// one succeeds or the attempt budget runs out.
func (e *Engine) Assign() (Assignments, error) {
	if !e.Feasible() {
		return nil, ErrInfeasible
	}

	attempts := e.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	for i := 0; i < attempts; i++ {
		if drawn, ok := e.tryAssign(); ok {
			return drawn, nil
		}
	}
	return nil, ErrNoValidPairing
}

// tryAssign is a single pass over the givers. ok is false when some giver's
// candidate pool came up empty, which invalidates the whole pass.
func (e *Engine) tryAssign() (Assignments, bool) {
	drawn := make(Assignments, len(e.givers))
	taken := make(map[string]bool, len(e.givers))

	for _, giver := range e.givers {
		recipient, ok := e.draw(giver, taken)
		if !ok {
			return nil, false
		}
		drawn[giver] = recipient
		taken[recipient] = true
	}
	return drawn, true
}

// draw picks a recipient uniformly from the giver's live candidate pool.
func (e *Engine) draw(giver string, taken map[string]bool) (string, bool) {
	pool := lo.Filter(e.givers, func(name string, _ int) bool {
		return name != giver && !taken[name] && !e.excluded[giver][name]
	})
	if len(pool) == 0 {
		return "", false
	}
	return pool[e.rng.Intn(len(pool))], true
}

// Feasible reports whether at least one complete assignment exists. It
// computes a maximum bipartite matching between givers and recipients over
// the allowed edges; a perfect matching is exactly a drawable assignment.
func (e *Engine) Feasible() bool {
	n := len(e.givers)
	allowed := make([][]int, n)
	for i, giver := range e.givers {
		for j, recipient := range e.givers {
			if i == j || e.excluded[giver][recipient] {
				continue
			}
			allowed[i] = append(allowed[i], j)
		}
	}

	// matchedGiver[j] is the giver currently matched to recipient j.
	matchedGiver := make([]int, n)
	for j := range matchedGiver {
		matchedGiver[j] = -1
	}

	var visited []bool
	var augment func(i int) bool
	augment = func(i int) bool {
		for _, j := range allowed[i] {
			if visited[j] {
				continue
			}
			visited[j] = true
			if matchedGiver[j] == -1 || augment(matchedGiver[j]) {
				matchedGiver[j] = i
				return true
			}
		}
		return false
	}

	matched := 0
	for i := 0; i < n; i++ {
		visited = make([]bool, n)
		if augment(i) {
			matched++
		}
	}
	return matched == n
}
