package frontend

import (
	"net/mail"
	"strings"
	"testing"
)

func parseTestMessage(t *testing.T, raw string) *mail.Message {
	t.Helper()
	msg, err := mail.ReadMessage(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to parse test message: %v", err)
	}
	return msg
}

func TestExtractTextFromPlainMessage(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Subject: hello\r\n" +
		"\r\n" +
		"Just a plain body.\r\n"

	msg := parseTestMessage(t, raw)
	text, err := extractTextFromMessage(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "Just a plain body.") {
		t.Errorf("expected plain body, got %q", text)
	}
}

func TestExtractTextPrefersPlainPart(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
		"\r\n" +
		"--b1\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"plain wins\r\n" +
		"--b1\r\n" +
		"Content-Type: text/html\r\n" +
		"\r\n" +
		"<p>html loses</p>\r\n" +
		"--b1--\r\n"

	msg := parseTestMessage(t, raw)
	text, err := extractTextFromMessage(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "plain wins") {
		t.Errorf("expected the plain part, got %q", text)
	}
	if strings.Contains(text, "html loses") {
		t.Errorf("html part should be ignored when plain exists, got %q", text)
	}
}

func TestExtractTextConvertsHTMLOnlyMessage(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
		"\r\n" +
		"--b1\r\n" +
		"Content-Type: text/html\r\n" +
		"\r\n" +
		"<html><body><p>Verify your <b>password</b> at <a href=\"http://bit.ly/x\">this link</a></p></body></html>\r\n" +
		"--b1--\r\n"

	msg := parseTestMessage(t, raw)
	text, err := extractTextFromMessage(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(text, "<p>") || strings.Contains(text, "<body>") {
		t.Errorf("expected markup stripped, got %q", text)
	}
	if !strings.Contains(text, "password") {
		t.Errorf("expected text content preserved, got %q", text)
	}
	// The URL must survive conversion so link features still trigger.
	if !strings.Contains(text, "bit.ly/x") {
		t.Errorf("expected link preserved, got %q", text)
	}
}

func TestDecodeEncodedHeader(t *testing.T) {
	decoded, err := decodeEncodedHeader("=?UTF-8?Q?Caf=C3=A9_offer?=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded != "Café offer" {
		t.Errorf("expected decoded header, got %q", decoded)
	}

	plain, err := decodeEncodedHeader("Plain subject")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plain != "Plain subject" {
		t.Errorf("expected passthrough, got %q", plain)
	}
}
