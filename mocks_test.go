package authkit_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/require"
)

// recordingMailer captures verification emails instead of sending them.
type recordingMailer struct {
	mu    sync.Mutex
	sent  []sentMail
	fail  bool
	calls int
}

type sentMail struct {
	Recipient string
	Link      string
}

func (m *recordingMailer) SendVerification(_ context.Context, recipient, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.fail {
		return errors.New("smtp: connection refused")
	}
	m.sent = append(m.sent, sentMail{Recipient: recipient, Link: link})
	return nil
}

func (m *recordingMailer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *recordingMailer) last(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	require.NotEmpty(t, m.sent, "expected at least one verification email")
	return m.sent[len(m.sent)-1]
}

// requireTextCode asserts err is a rich error carrying the text code.
func requireTextCode(t *testing.T, err error, textCode string) {
	t.Helper()

	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr), "expected rich error, got %v", err)
	require.Equal(t, textCode, richErr.TextCode)
}
