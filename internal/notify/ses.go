// Package notify e-mails finished reports.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Attachment is an in-memory file attached to a message.
type Attachment struct {
	Filename string
	Data     []byte
}

// Message is one report e-mail.
type Message struct {
	Subject     string
	Body        string
	Attachments []Attachment
}

// SESMailer sends raw MIME messages through SES.
type SESMailer struct {
	client    sesiface.SESAPI
	emailTo   string
	emailFrom string
}

// NewSESMailer returns a mailer for the comma separated recipients in emailTo.
func NewSESMailer(client sesiface.SESAPI, emailTo string, emailFrom string) *SESMailer {
	return &SESMailer{
		client:    client,
		emailTo:   emailTo,
		emailFrom: emailFrom,
	}
}

// Send builds the MIME message and sends it.
func (m *SESMailer) Send(ctx context.Context, message Message) error {
	contextLogger := log.WithContext(ctx)

	raw, err := m.build(message)
	if err != nil {
		contextLogger.WithError(err).Error("Error when writing email data")
		return err
	}

	emailParams := ses.SendRawEmailInput{
		Source:     aws.String(m.emailFrom),
		RawMessage: &ses.RawMessage{Data: raw},
	}
	emailParams.SetDestinations(populateEmailRecipients(m.emailTo))

	if _, err := m.client.SendRawEmailWithContext(ctx, &emailParams); err != nil {
		contextLogger.WithError(err).Error("Error when sending email")
		return fmt.Errorf("unable to send report email: %w", err)
	}
	contextLogger.Infof("Sent report email %q to %s", message.Subject, m.emailTo)
	return nil
}

func (m *SESMailer) build(message Message) ([]byte, error) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.emailFrom)
	var to []string
	for _, r := range populateEmailRecipients(m.emailTo) {
		to = append(to, aws.StringValue(r))
	}
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", message.Subject)
	msg.SetBody("text/plain", message.Body)
	for _, a := range message.Attachments {
		data := a.Data
		msg.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	var emailRaw bytes.Buffer
	if _, err := msg.WriteTo(&emailRaw); err != nil {
		return nil, err
	}
	return emailRaw.Bytes(), nil
}

func populateEmailRecipients(emailTo string) []*string {
	var emailRecipients []*string
	for _, recipient := range strings.Split(emailTo, ",") {
		if recipient = strings.TrimSpace(recipient); recipient != "" {
			emailRecipients = append(emailRecipients, aws.String(recipient))
		}
	}
	return emailRecipients
}
