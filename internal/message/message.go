// Package message renders the notification text sent to each giver.
package message

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatBudget renders a dollar amount with cents and thousands grouping:
// 10.0 -> "$10.00", 1500.5 -> "$1,500.50".
func FormatBudget(amount float64) string {
	return "$" + humanize.FormatFloat("#,###.##", amount)
}

// Render builds the SMS body telling a giver who they drew.
func Render(giver, recipient string, budget float64, year int) string {
	return fmt.Sprintf(
		"Hi %s! You are %s's Secret Santa for %d. The gift budget is %s. Shhh, keep it secret!",
		giver, recipient, year, FormatBudget(budget),
	)
}
