package tools

import (
	"context"
	"net/mail"

	"github.com/nlpodyssey/openai-agents-go/agents"
)

// EmailReportArgs are the arguments to the send_email_report tool.
type EmailReportArgs struct {
	RecipientEmail string `json:"recipient_email" jsonschema_description:"Email address of the recipient."`
	Subject        string `json:"subject" jsonschema_description:"Email subject line."`
	Body           string `json:"body" jsonschema_description:"Email body content."`
}

// EmailReceipt is the outcome of a send attempt.
type EmailReceipt struct {
	Status    string `json:"status"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

// SendEmailReport validates the recipient and reports the message as sent.
// No mail ever leaves the process; only the addressing is checked.
func SendEmailReport(_ context.Context, args EmailReportArgs) (EmailReceipt, error) {
	receipt := EmailReceipt{
		Recipient: args.RecipientEmail,
		Subject:   args.Subject,
	}
	if _, err := mail.ParseAddress(args.RecipientEmail); err != nil {
		receipt.Status = "error"
		receipt.Message = "Invalid email address"
		return receipt, nil
	}
	receipt.Status = "success"
	receipt.Message = "Email sent successfully"
	return receipt, nil
}

func emailReportDescriptor() Descriptor {
	const name = "send_email_report"
	const desc = "Send the research report to a recipient via email."
	return Descriptor{
		Name:        name,
		Description: desc,
		Tool:        agents.NewFunctionTool(name, desc, SendEmailReport),
	}
}
