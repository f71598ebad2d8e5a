package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sf-developer/video-player/internal/model"
)

func TestSMTPMailer_DisabledWithoutHost(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{})
	err := m.Send(context.Background(), Message{To: "a@example.com", Subject: "hi"})
	assert.ErrorIs(t, err, ErrMailDisabled)
}

func TestBuildMessage(t *testing.T) {
	got := buildMessage("noreply@example.com", Message{
		To:      "owner@example.com",
		ReplyTo: "viewer@example.com",
		Subject: "New email\r\nBcc: victim@example.com",
		HTML:    "<p>hello</p>",
	})

	headers, body, found := strings.Cut(got, "\r\n\r\n")
	assert.True(t, found)
	assert.Equal(t, "<p>hello</p>", body)
	assert.Contains(t, headers, "From: noreply@example.com\r\n")
	assert.Contains(t, headers, "To: owner@example.com\r\n")
	assert.Contains(t, headers, "Reply-To: viewer@example.com\r\n")
	assert.Contains(t, headers, "Subject: New email Bcc: victim@example.com\r\n")
	assert.Contains(t, headers, "Content-Type: text/html; charset=UTF-8")
	assert.NotContains(t, headers, "\r\nBcc:")
}

func TestBuildMessage_NoReplyTo(t *testing.T) {
	got := buildMessage("noreply@example.com", Message{To: "owner@example.com", Subject: "s"})
	assert.NotContains(t, got, "Reply-To")
}

func TestTicketBody(t *testing.T) {
	got := TicketBody(model.TicketRequest{
		Name:    "Ann <b>",
		Email:   "ann@example.com",
		Message: "line one\nline <two>",
	})

	assert.Contains(t, got, "<strong>Name:</strong> Ann &lt;b&gt;")
	assert.Contains(t, got, "<strong>Email:</strong> ann@example.com")
	assert.Contains(t, got, "<p>line one<br>line &lt;two&gt;</p>")
}
