// Package main: the run command executes a full notification pass.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"secretsanta/internal/history"
	"secretsanta/internal/messenger"
	"secretsanta/internal/notify"
)

var (
	accountSID       string
	authToken        string
	messagingService string
	fromNumber       string
	mediaURL         string
	budget           float64
	year             int
	dryRun           bool
)

// runCmd draws the assignment and texts every participant
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Draw the assignment and text every participant",
	Long: `Draws a Secret Santa assignment from the roster and sends each
participant one SMS naming the person they drew, the gift budget and the
year. Prints one "name: status" line per participant (0 = sent,
1 = failed or dry run).

With --dry-run nothing is dispatched; every participant is recorded with
the placeholder status 1 and the rendered messages are only logged.`,
	RunE: runNotify,
}

func init() {
	runCmd.Flags().StringVar(&accountSID, "account-sid", "", "provider account SID, or a file containing it (env TWILIO_ACCOUNT_SID)")
	runCmd.Flags().StringVar(&authToken, "auth-token", "", "provider auth token, or a file containing it (env TWILIO_AUTH_TOKEN)")
	runCmd.Flags().StringVar(&messagingService, "messaging-service", "", "messaging service SID, or a file containing it (env TWILIO_MESSAGING_SERVICE_SID)")
	runCmd.Flags().StringVar(&fromNumber, "from", "", "explicit sender number, used when no messaging service is set")
	runCmd.Flags().StringVar(&mediaURL, "media-url", "", "optional media URL to attach (MMS)")
	runCmd.Flags().Float64Var(&budget, "budget", 25, "gift budget in dollars")
	runCmd.Flags().IntVar(&year, "year", time.Now().Year(), "exchange year named in the message")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute everything but send nothing")
}

func runNotify(cmd *cobra.Command, args []string) error {
	r, engine, err := loadEngine()
	if err != nil {
		return err
	}

	var m messenger.Messenger
	if !dryRun {
		m, err = buildMessenger()
		if err != nil {
			return err
		}
	}

	n := &notify.Notifier{
		Roster:    r,
		Engine:    engine,
		Messenger: m,
		Logger:    logger,
		Budget:    budget,
		Year:      year,
		MediaURL:  mediaURL,
		DryRun:    dryRun,
	}

	rep, err := n.Run(cmd.Context())
	if err != nil {
		return err
	}

	if historyPath != "" {
		store, err := history.Open(historyPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.RecordRun(rep, time.Now(), year, budget, dryRun); err != nil {
			return err
		}
		logger.Debug("run recorded", zap.String("run_id", rep.RunID), zap.String("history", historyPath))
	}

	for _, name := range r.Names() {
		fmt.Printf("%s: %d\n", name, rep.Result[name])
	}

	if !dryRun {
		if failed := rep.Result.Failures(); failed > 0 {
			return fmt.Errorf("%d of %d notifications failed", failed, r.Len())
		}
	}
	return nil
}

// buildMessenger resolves credentials (literal, file, or environment) and
// validates them before any message is attempted.
func buildMessenger() (messenger.Messenger, error) {
	sid, err := messenger.Credential(valueOrEnv(accountSID, "TWILIO_ACCOUNT_SID"))
	if err != nil {
		return nil, err
	}
	token, err := messenger.Credential(valueOrEnv(authToken, "TWILIO_AUTH_TOKEN"))
	if err != nil {
		return nil, err
	}
	service, err := messenger.Credential(valueOrEnv(messagingService, "TWILIO_MESSAGING_SERVICE_SID"))
	if err != nil {
		return nil, err
	}

	return messenger.NewTwilioClient(messenger.Config{
		AccountSID:          sid,
		AuthToken:           token,
		MessagingServiceSID: service,
		From:                fromNumber,
	})
}
