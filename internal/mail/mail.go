// Package mail delivers the finished digest by SMTP, as a multipart message
// with a plain-text and an HTML alternative. The optional mobile TL;DR block
// is placed on top of both.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/deusflow/digest/internal/logger"
	"github.com/deusflow/digest/internal/metrics"
	"github.com/deusflow/digest/internal/retry"
)

type Sender struct {
	host     string
	port     int
	from     string
	to       string
	password string
	timeout  time.Duration
}

func NewSender(host string, port int, from, to, password string, timeout time.Duration) *Sender {
	return &Sender{
		host:     host,
		port:     port,
		from:     from,
		to:       to,
		password: password,
		timeout:  timeout,
	}
}

// Send delivers the digest, retrying transient failures with exponential
// backoff.
func (s *Sender) Send(ctx context.Context, subject, body, mobileTLDR string) error {
	msg := s.buildMessage(subject, body, mobileTLDR)

	err := retry.WithRetry(ctx, retry.Config{
		MaxAttempts: 3,
		Delay:       time.Second,
		Backoff:     true,
	}, func() error {
		return s.sendOnce(msg)
	})
	if err != nil {
		return fmt.Errorf("can't send email: %w", err)
	}

	metrics.Global.IncrementEmailsSent()
	logger.Info("email sent", "subject", subject, "to", s.to)
	return nil
}

// sendOnce does one SMTP-over-TLS delivery attempt.
func (s *Sender) sendOnce(msg []byte) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	dialer := &net.Dialer{Timeout: s.timeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: s.host})
	if err != nil {
		return fmt.Errorf("TLS dial failed: %w", err)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("SMTP handshake failed: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", s.from, s.password, s.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth rejected (check app password): %w", err)
	}

	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := client.Rcpt(s.to); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("writing message failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing message failed: %w", err)
	}
	return client.Quit()
}

const mimeBoundary = "digest-alt-8f3a1c"

func (s *Sender) buildMessage(subject, body, mobileTLDR string) []byte {
	plain := body
	if mobileTLDR != "" {
		plain = mobileTLDR + "\n\n" + body
	}

	var b strings.Builder
	b.WriteString("From: " + s.from + "\r\n")
	b.WriteString("To: " + s.to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/alternative; boundary=" + mimeBoundary + "\r\n")
	b.WriteString("\r\n")

	b.WriteString("--" + mimeBoundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(plain)
	b.WriteString("\r\n")

	b.WriteString("--" + mimeBoundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(BuildHTML(body, mobileTLDR))
	b.WriteString("\r\n")

	b.WriteString("--" + mimeBoundary + "--\r\n")
	return []byte(b.String())
}

// BuildHTML renders the digest as simple readable HTML: the TL;DR in a
// highlighted box, the narrative as paragraphs.
func BuildHTML(body, mobileTLDR string) string {
	var b strings.Builder
	b.WriteString("<html><body style='font-family: system-ui, -apple-system, sans-serif; line-height: 1.6; max-width: 700px; margin: 0 auto; padding: 20px;'>")

	if mobileTLDR != "" {
		b.WriteString("<div style='background-color: #f0f8ff; padding: 15px; margin-bottom: 20px; border-left: 4px solid #0066cc;'>")
		b.WriteString(strings.ReplaceAll(escapeHTML(mobileTLDR), "\n", "<br>"))
		b.WriteString("</div>")
	}

	escaped := escapeHTML(body)
	escaped = strings.ReplaceAll(escaped, "\n\n", "</p><p>")
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	b.WriteString("<p>" + escaped + "</p>")

	b.WriteString("</body></html>")
	return b.String()
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
