package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"secretsanta/internal/history"
	"secretsanta/internal/pairing"
	"secretsanta/internal/roster"
)

// loadEngine loads the roster and builds the pairing engine shared by the
// run, pairs and check commands, folding in previous-year exclusions when
// --avoid-repeats is set.
func loadEngine() (*roster.Roster, *pairing.Engine, error) {
	r, err := roster.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	src := seed
	if src == 0 {
		src = time.Now().UnixNano()
	}
	engine := pairing.NewEngine(r, rand.New(rand.NewSource(src)))
	engine.MaxAttempts = maxAttempts

	if avoidRepeat {
		if historyPath == "" {
			return nil, nil, fmt.Errorf("--avoid-repeats requires --history")
		}
		store, err := history.Open(historyPath)
		if err != nil {
			return nil, nil, err
		}
		defer store.Close()

		last, err := store.LastAssignments()
		if err != nil {
			return nil, nil, err
		}
		for _, giver := range r.Names() {
			if recipient, ok := last[giver]; ok {
				engine.Exclude(giver, recipient)
			}
		}
	}

	return r, engine, nil
}

// valueOrEnv returns the flag value if set, otherwise the environment
// variable.
func valueOrEnv(flagValue, envKey string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(envKey)
}
