package mailer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func newTestMailer(t *testing.T, s sender) *Mailer {
	t.Helper()

	logger := zerolog.Nop()
	m, err := NewMailer(Config{Host: "localhost", Port: 1025, From: "blog@example.com"}, &logger)
	require.NoError(t, err)
	m.sender = s

	return m
}

func TestNewMailerValidatesConfig(t *testing.T) {
	logger := zerolog.Nop()

	_, err := NewMailer(Config{Port: 25, From: "a@b.c"}, &logger)
	assert.Error(t, err)

	_, err = NewMailer(Config{Host: "smtp", From: "a@b.c"}, &logger)
	assert.Error(t, err)
}

func TestSendHTML(t *testing.T) {
	fs := &fakeSender{}
	m := newTestMailer(t, fs)

	err := m.SendHTML([]string{"author@example.com"}, "Published", "<h1>Hi</h1>")
	require.NoError(t, err)
	require.Len(t, fs.sent, 1)

	assert.Equal(t, []string{"author@example.com"}, fs.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Published"}, fs.sent[0].GetHeader("Subject"))
	assert.Equal(t, []string{"blog@example.com"}, fs.sent[0].GetHeader("From"))
}

func TestSendErrors(t *testing.T) {
	m := newTestMailer(t, &fakeSender{err: errors.New("connection refused")})

	err := m.SendHTML(nil, "x", "y")
	assert.ErrorIs(t, err, ErrNoRecipients)

	err = m.SendHTML([]string{"a@example.com"}, "x", "y")
	assert.ErrorContains(t, err, "connection refused")
}

func TestWriteMessage(t *testing.T) {
	m := newTestMailer(t, &fakeSender{})

	var buf bytes.Buffer
	err := m.WriteMessage(&buf, Email{
		To:       []string{"a@example.com"},
		Subject:  "Hello",
		HTMLBody: "<p>body</p>",
		Body:     "body",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Subject: Hello")
	assert.Contains(t, out, "text/html")
	assert.Contains(t, out, "text/plain")
}
