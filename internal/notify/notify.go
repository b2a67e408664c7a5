// Package notify runs one notification pass: draw the assignment, then
// text every giver the name of the person they drew.
package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"secretsanta/internal/message"
	"secretsanta/internal/messenger"
	"secretsanta/internal/pairing"
	"secretsanta/internal/phone"
	"secretsanta/internal/roster"
)

// Status is the per-participant outcome code.
type Status int

const (
	// StatusSent means the provider accepted the message.
	StatusSent Status = 0

	// StatusFailed means dispatch failed. Dry runs record this for every
	// participant as a fixed placeholder, since nothing was sent.
	StatusFailed Status = 1
)

// RunResult maps each participant to the outcome of their notification.
type RunResult map[string]Status

// Failures counts participants whose message was not sent.
func (r RunResult) Failures() int {
	n := 0
	for _, s := range r {
		if s != StatusSent {
			n++
		}
	}
	return n
}

// Report is everything one run produced.
type Report struct {
	RunID       string
	Assignments pairing.Assignments
	Result      RunResult
}

// Notifier wires the roster, the pairing engine and the messenger into a
// single run.
type Notifier struct {
	Roster    *roster.Roster
	Engine    *pairing.Engine
	Messenger messenger.Messenger
	Logger    *zap.Logger

	Budget   float64
	Year     int
	MediaURL string

	// DryRun computes the assignment and message bodies but skips
	// dispatch entirely; the messenger is never touched.
	DryRun bool
}

// Run draws the assignment and notifies every giver in roster order.
//
// A phone number that fails normalization aborts the run: that person can
// never be reached and a partial exchange is worse than none. A provider
// rejection only fails that one participant; the rest still get their
// message.
func (n *Notifier) Run(ctx context.Context) (*Report, error) {
	log := n.Logger
	if log == nil {
		log = zap.NewNop()
	}

	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID))

	assignments, err := n.Engine.Assign()
	if err != nil {
		return nil, err
	}
	log.Debug("assignment drawn", zap.Int("participants", n.Roster.Len()))

	result := make(RunResult, n.Roster.Len())
	for _, giver := range n.Roster.Names() {
		p, _ := n.Roster.Get(giver)
		recipient := assignments[giver]

		to, err := phone.Normalize(p.Phone)
		if err != nil {
			return nil, fmt.Errorf("participant %q: %w", giver, err)
		}

		body := message.Render(giver, recipient, n.Budget, n.Year)

		if n.DryRun {
			result[giver] = StatusFailed
			log.Info("dry run, skipping send",
				zap.String("giver", giver),
				zap.String("to", phone.Mask(to)),
				zap.String("body", body))
			continue
		}

		msg := messenger.Message{To: to, Body: body, MediaURL: n.MediaURL}
		if err := n.Messenger.Send(ctx, msg); err != nil {
			result[giver] = StatusFailed
			log.Warn("send failed",
				zap.String("giver", giver),
				zap.String("to", phone.Mask(to)),
				zap.Error(err))
			continue
		}

		result[giver] = StatusSent
		log.Info("notification sent",
			zap.String("giver", giver),
			zap.String("to", phone.Mask(to)))
	}

	return &Report{RunID: runID, Assignments: assignments, Result: result}, nil
}
