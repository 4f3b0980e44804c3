// Package sms is the notification side channel. Actual gateway delivery is
// out of scope; the default sender just records the outgoing message.
package sms

import (
	"fmt"

	"github.com/CodeBuddy07/accounting-server/internal/logger"
	"github.com/CodeBuddy07/accounting-server/internal/models"
)

type Sender interface {
	Send(phone, message string) error
}

// LogSender writes outgoing messages to the server log.
type LogSender struct{}

func (LogSender) Send(phone, message string) error {
	smsLog := logger.WithComponent("sms")
	smsLog.Info().
		Str("phone", phone).
		Str("message", message).
		Msg("sms dispatched")
	return nil
}

// Default is swapped out by tests and by a real gateway integration.
var Default Sender = LogSender{}

func Send(phone, message string) error {
	return Default.Send(phone, message)
}

// PlaceholderValues builds the substitution set for a customer. The optional
// amount belongs to the transaction that triggered the message.
func PlaceholderValues(cust models.Customer, amount *float64) map[string]string {
	values := map[string]string{
		"name":    cust.Name,
		"balance": fmt.Sprintf("%.2f", cust.Balance),
	}
	if amount != nil {
		values["amount"] = fmt.Sprintf("%.2f", *amount)
	}
	return values
}
