package mail

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildHTML_EscapesAndFormats(t *testing.T) {
	html := BuildHTML("First paragraph with <tags> & ampersands.\n\nSecond paragraph.", "")

	assert.Contains(t, html, "&lt;tags&gt; &amp; ampersands")
	assert.Contains(t, html, "</p><p>", "blank lines become paragraph breaks")
	assert.NotContains(t, html, "border-left", "no TL;DR box without a TL;DR")
}

func TestBuildHTML_TLDRBox(t *testing.T) {
	html := BuildHTML("body", "QUICK SCAN\nline two")

	assert.Contains(t, html, "border-left")
	assert.Contains(t, html, "QUICK SCAN<br>line two")
}

func TestBuildMessage_MultipartStructure(t *testing.T) {
	s := NewSender("smtp.example.com", 465, "from@example.com", "to@example.com", "pw", 10*time.Second)
	msg := string(s.buildMessage("Hello", "The digest body.", "TLDR block"))

	assert.True(t, strings.HasPrefix(msg, "From: from@example.com\r\n"))
	assert.Contains(t, msg, "To: to@example.com\r\n")
	assert.Contains(t, msg, "Subject: Hello\r\n", "plain ASCII subjects stay unencoded")
	assert.Contains(t, msg, "Content-Type: multipart/alternative; boundary="+mimeBoundary)
	assert.Contains(t, msg, "Content-Type: text/plain; charset=utf-8")
	assert.Contains(t, msg, "Content-Type: text/html; charset=utf-8")
	assert.Contains(t, msg, "TLDR block\n\nThe digest body.", "TL;DR leads the plain part")
	assert.True(t, strings.HasSuffix(msg, "--"+mimeBoundary+"--\r\n"))
}

func TestBuildMessage_EncodesNonASCIISubject(t *testing.T) {
	s := NewSender("smtp.example.com", 465, "from@example.com", "to@example.com", "pw", 10*time.Second)
	msg := string(s.buildMessage("Dagens nyheder på dansk", "body", ""))

	assert.Contains(t, msg, "=?utf-8?q?", "non-ASCII subjects get Q-encoded")
	assert.NotContains(t, msg, "Subject: Dagens nyheder på dansk")
}
