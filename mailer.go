package authkit

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/mail"
	"net/url"

	"github.com/dajohi/goemail"
)

const verificationSubject = "Verify your email address"

const verificationText = `Hi {{.Recipient}},

Click the link below to complete your email verification.

{{.Link}}

If you did not create an account, you can ignore this email.
`

var verificationTmpl = template.Must(template.New("verify_email").Parse(verificationText))

// SMTPMailer delivers verification links over SMTP.
type SMTPMailer struct {
	smtp        *goemail.SMTP
	mailName    string
	mailAddress string
	logger      Logger
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer builds a mailer for the smtps host. When host or
// credentials are missing, delivery is considered disabled and a
// LogMailer is returned instead so local runs still complete signups.
func NewSMTPMailer(host, user, password, fromAddress string, skipVerify bool, logger Logger) (Mailer, error) {
	if logger == nil {
		logger = defLogger{}
	}

	if host == "" || user == "" || password == "" {
		logger.Warn("smtp credentials not configured; verification links will only be logged")
		return &LogMailer{logger: logger}, nil
	}

	u, err := url.Parse(fmt.Sprintf("smtps://%v:%v@%v", user, password, host))
	if err != nil {
		return nil, err
	}

	addr, err := mail.ParseAddress(fromAddress)
	if err != nil {
		return nil, err
	}

	smtp, err := goemail.NewSMTP(u.String(), &tls.Config{
		InsecureSkipVerify: skipVerify,
	})
	if err != nil {
		return nil, err
	}

	return &SMTPMailer{
		smtp:        smtp,
		mailName:    addr.Name,
		mailAddress: addr.Address,
		logger:      logger,
	}, nil
}

// SendVerification emails the verification link to the recipient.
// Transport errors propagate: signup must fail when delivery fails.
func (m *SMTPMailer) SendVerification(_ context.Context, recipient, link string) error {
	body, err := renderVerification(recipient, link)
	if err != nil {
		return err
	}

	msg := goemail.NewMessage(m.mailAddress, verificationSubject, body)
	msg.SetName(m.mailName)
	msg.AddTo(recipient)

	if err := m.smtp.Send(msg); err != nil {
		m.logger.Error("verification email delivery failed: %v", err)
		return err
	}

	m.logger.Info("verification email sent to %s", recipient)
	return nil
}

// LogMailer writes the verification link to the log instead of sending
// it. Useful for development; delivery always succeeds.
type LogMailer struct {
	logger Logger
}

var _ Mailer = (*LogMailer)(nil)

// NewLogMailer returns a mailer that only logs.
func NewLogMailer(logger Logger) *LogMailer {
	if logger == nil {
		logger = defLogger{}
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendVerification(_ context.Context, recipient, link string) error {
	m.logger.Info("verification link for %s: %s", recipient, link)
	return nil
}

func renderVerification(recipient, link string) (string, error) {
	var b bytes.Buffer
	err := verificationTmpl.Execute(&b, struct {
		Recipient string
		Link      string
	}{
		Recipient: recipient,
		Link:      link,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
