package notify

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secretsanta/internal/messenger"
	"secretsanta/internal/pairing"
	"secretsanta/internal/roster"
)

// fakeMessenger records every send and fails destinations on its blocklist.
type fakeMessenger struct {
	sent   []messenger.Message
	reject map[string]bool
}

func (f *fakeMessenger) Send(_ context.Context, msg messenger.Message) error {
	f.sent = append(f.sent, msg)
	if f.reject[msg.To] {
		return errors.New("provider said no")
	}
	return nil
}

func twoPersonNotifier(t *testing.T, m messenger.Messenger, dryRun bool) (*Notifier, *roster.Roster) {
	t.Helper()
	r, err := roster.Parse([]byte(`
Person1:
  phone: "1112223333"
Person2:
  phone: "4445556666"
`))
	require.NoError(t, err)

	n := &Notifier{
		Roster:    r,
		Engine:    pairing.NewEngine(r, rand.New(rand.NewSource(7))),
		Messenger: m,
		Budget:    10.00,
		Year:      2021,
		DryRun:    dryRun,
	}
	return n, r
}

func TestRun_SendsToEveryParticipant(t *testing.T) {
	fake := &fakeMessenger{}
	n, _ := twoPersonNotifier(t, fake, false)

	rep, err := n.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, rep.RunID)

	want := RunResult{"Person1": StatusSent, "Person2": StatusSent}
	if diff := cmp.Diff(want, rep.Result); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}

	// Two people can only swap.
	assert.Equal(t, "Person2", rep.Assignments["Person1"])
	assert.Equal(t, "Person1", rep.Assignments["Person2"])

	require.Len(t, fake.sent, 2)
	assert.Equal(t, "+11112223333", fake.sent[0].To)
	assert.Contains(t, fake.sent[0].Body, "Person2")
	assert.Contains(t, fake.sent[0].Body, "$10.00")
	assert.Contains(t, fake.sent[0].Body, "2021")
	assert.Equal(t, "+14445556666", fake.sent[1].To)
	assert.Contains(t, fake.sent[1].Body, "Person1")
}

func TestRun_DryRun(t *testing.T) {
	fake := &fakeMessenger{}
	n, _ := twoPersonNotifier(t, fake, true)

	rep, err := n.Run(context.Background())
	require.NoError(t, err)

	// Dry runs record the fixed placeholder for everyone and never touch
	// the messenger.
	want := RunResult{"Person1": StatusFailed, "Person2": StatusFailed}
	if diff := cmp.Diff(want, rep.Result); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
	assert.Empty(t, fake.sent)

	assert.Equal(t, "Person2", rep.Assignments["Person1"])
	assert.Equal(t, "Person1", rep.Assignments["Person2"])
}

func TestRun_DryRunNeedsNoMessenger(t *testing.T) {
	n, _ := twoPersonNotifier(t, nil, true)
	_, err := n.Run(context.Background())
	assert.NoError(t, err)
}

func TestRun_SendFailureDoesNotAbort(t *testing.T) {
	fake := &fakeMessenger{reject: map[string]bool{"+11112223333": true}}
	n, _ := twoPersonNotifier(t, fake, false)

	rep, err := n.Run(context.Background())
	require.NoError(t, err)

	want := RunResult{"Person1": StatusFailed, "Person2": StatusSent}
	if diff := cmp.Diff(want, rep.Result); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
	// The second send still went out.
	assert.Len(t, fake.sent, 2)
	assert.Equal(t, 1, rep.Result.Failures())
}

func TestRun_BadPhoneIsFatal(t *testing.T) {
	r, err := roster.Parse([]byte(`
Person1:
  phone: "oops"
Person2:
  phone: "4445556666"
`))
	require.NoError(t, err)

	n := &Notifier{
		Roster:    r,
		Engine:    pairing.NewEngine(r, rand.New(rand.NewSource(7))),
		Messenger: &fakeMessenger{},
		Budget:    10,
		Year:      2021,
	}

	_, err = n.Run(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Person1"), "error should name the participant: %v", err)
}

func TestRun_MediaURLPassedThrough(t *testing.T) {
	fake := &fakeMessenger{}
	n, _ := twoPersonNotifier(t, fake, false)
	n.MediaURL = "https://example.com/card.png"

	_, err := n.Run(context.Background())
	require.NoError(t, err)
	for _, msg := range fake.sent {
		assert.Equal(t, "https://example.com/card.png", msg.MediaURL)
	}
}
