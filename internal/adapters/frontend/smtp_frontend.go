package frontend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/phish-detect/internal/core"
	"github.com/mikey/phish-detect/internal/utils"
	"go.uber.org/zap"
)

// SMTPFrontend implements a Postfix content filter. Incoming messages are
// analyzed as email content, tagged with detection headers and re-injected
// into Postfix. Critical verdicts can optionally be rejected at DATA time.
type SMTPFrontend struct {
	service        *core.AnalysisService
	textProcessor  *utils.TextProcessor
	logger         *zap.Logger
	listenAddr     string
	server         *smtp.Server
	blockCritical  bool
	riskHeader     string
	scoreHeader    string
	reasonHeader   string
	postfixAddr    string
	postfixPort    int
	postfixEnabled bool
	subjectPrefix  string
	modifySubject  bool
}

// NewSMTPFrontend creates a new Postfix content filter
func NewSMTPFrontend(
	service *core.AnalysisService,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
	listenAddr string,
	blockCritical bool,
	riskHeader string,
	scoreHeader string,
	reasonHeader string,
	postfixAddr string,
	postfixPort int,
	postfixEnabled bool,
	subjectPrefix string,
	modifySubject bool,
) *SMTPFrontend {
	// If subject prefix is not set but modify subject is enabled, use default prefix
	if subjectPrefix == "" && modifySubject {
		subjectPrefix = "[**PHISHING**] "
	}

	return &SMTPFrontend{
		service:        service,
		textProcessor:  textProcessor,
		logger:         logger,
		listenAddr:     listenAddr,
		blockCritical:  blockCritical,
		riskHeader:     riskHeader,
		scoreHeader:    scoreHeader,
		reasonHeader:   reasonHeader,
		postfixAddr:    postfixAddr,
		postfixPort:    postfixPort,
		postfixEnabled: postfixEnabled,
		subjectPrefix:  subjectPrefix,
		modifySubject:  modifySubject,
	}
}

// Start starts the SMTP frontend
func (f *SMTPFrontend) Start() error {
	f.server = smtp.NewServer(&smtpBackend{frontend: f})

	f.server.Addr = f.listenAddr
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024 // 30MB
	f.server.MaxRecipients = 50
	f.server.AllowInsecureAuth = true

	f.logger.Info("SMTP frontend starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				f.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP frontend
func (f *SMTPFrontend) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessContent analyzes one piece of content directly.
// This is mainly used for testing or direct API calls.
func (f *SMTPFrontend) ProcessContent(ctx context.Context, content string, contentType core.ContentType) (*core.AnalysisReport, error) {
	return f.service.AnalyzeContent(ctx, content, contentType)
}

// sendToPostfix re-injects the tagged message into Postfix using go-smtp
func (f *SMTPFrontend) sendToPostfix(sender string, recipients []string, emailData []byte) error {
	postfixAddr := fmt.Sprintf("%s:%d", f.postfixAddr, f.postfixPort)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", postfixAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to Postfix: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
			// Continue with other recipients even if one fails
		} else {
			recipientOK = true
		}
	}

	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}

	_, err = wc.Write(emailData)
	if err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		f.logger.Warn("QUIT command failed", zap.Error(err))
		// The message has already been accepted at this point
	}

	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	frontend *SMTPFrontend
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		frontend:   b.frontend,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	frontend   *SMTPFrontend
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// AuthPlain handles PLAIN authentication (not needed for the filter)
func (s *smtpSession) AuthPlain(_ []byte) error {
	return smtp.ErrAuthUnsupported
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data handles the message data
func (s *smtpSession) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.frontend.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	// Keep a copy of the raw data for later reconstruction
	rawDataCopy := make([]byte, len(rawData))
	copy(rawDataCopy, rawData)

	msg, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		s.frontend.logger.Error("Failed to parse email message", zap.Error(err))
		return err
	}

	textContent, err := extractTextFromMessage(msg)
	if err != nil {
		s.frontend.logger.Error("Failed to extract text content", zap.Error(err))
		return err
	}

	// The subject carries most of the lure text, analyze it together with the body.
	subject := msg.Header.Get("Subject")
	if decoded, err := decodeEncodedHeader(subject); err == nil {
		subject = decoded
	}
	analyzable := textContent
	if subject != "" {
		analyzable = subject + "\n" + textContent
	}
	analyzable = s.frontend.textProcessor.PrepareContent(analyzable)

	senderDomain := "unknown"
	if parts := strings.Split(s.sender, "@"); len(parts) == 2 {
		senderDomain = parts[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	report, analysisErr := s.frontend.service.AnalyzeContent(ctx, analyzable, core.ContentTypeEmail)
	if analysisErr != nil {
		s.frontend.logger.Error("Failed to analyze email",
			zap.Error(analysisErr),
			zap.String("sender", s.sender),
			zap.String("sender_domain", senderDomain))

		// Fail open: pass the message through with an error header
		report = &core.AnalysisReport{
			ContentType: core.ContentTypeEmail,
			Verdict: &core.Verdict{
				RiskLevel:    core.RiskLevelLow,
				Explanations: []string{fmt.Sprintf("Error during analysis: %v", analysisErr)},
			},
			Source:     "error",
			AnalyzedAt: time.Now(),
		}
	}

	verdict := report.Verdict
	isCritical := verdict.RiskLevel == core.RiskLevelCritical

	if isCritical && s.frontend.blockCritical && analysisErr == nil {
		// Only reject when analysis actually succeeded
		s.frontend.logger.Info("Rejecting phishing email",
			zap.String("from", s.sender),
			zap.String("sender_domain", senderDomain),
			zap.Int("score", verdict.PhishingScore),
			zap.String("threat_category", verdict.ThreatCategory))
		return fmt.Errorf("550 Rejected as phishing (score: %d)", verdict.PhishingScore)
	}

	reason := ""
	if len(verdict.Explanations) > 0 {
		reason = strings.Join(verdict.Explanations, "; ")
	}

	// Prepend detection headers to the message
	var modifiedEmail bytes.Buffer
	fmt.Fprintf(&modifiedEmail, "%s: %s\r\n", s.frontend.riskHeader, verdict.RiskLevel)
	fmt.Fprintf(&modifiedEmail, "%s: %d\r\n", s.frontend.scoreHeader, verdict.PhishingScore)
	fmt.Fprintf(&modifiedEmail, "%s: %s\r\n", s.frontend.reasonHeader, sanitizeHeaderValue(reason))

	if analysisErr != nil {
		fmt.Fprintf(&modifiedEmail, "X-Phishing-Analysis-Error: %s\r\n", sanitizeHeaderValue(analysisErr.Error()))
	}

	tagSubject := isCritical || verdict.RiskLevel == core.RiskLevelHigh
	if tagSubject && s.frontend.modifySubject && s.frontend.subjectPrefix != "" {
		originalSubject := msg.Header.Get("Subject")

		decodedSubject, err := decodeEncodedHeader(originalSubject)
		if err != nil {
			decodedSubject = originalSubject
		}

		if !strings.HasPrefix(decodedSubject, s.frontend.subjectPrefix) {
			fmt.Fprintf(&modifiedEmail, "Subject: %s\r\n", s.frontend.subjectPrefix+decodedSubject)
			writeHeaders(&modifiedEmail, msg.Header, "Subject")
		} else {
			writeHeaders(&modifiedEmail, msg.Header, "")
		}
	} else {
		writeHeaders(&modifiedEmail, msg.Header, "")
	}

	// End of headers
	fmt.Fprintf(&modifiedEmail, "\r\n")

	// Append the original body, preserving all MIME parts and attachments
	bodyStartIndex := bytes.Index(rawDataCopy, []byte("\r\n\r\n"))
	if bodyStartIndex != -1 {
		modifiedEmail.Write(rawDataCopy[bodyStartIndex+4:])
	} else if bodyStartIndex = bytes.Index(rawDataCopy, []byte("\n\n")); bodyStartIndex != -1 {
		modifiedEmail.Write(rawDataCopy[bodyStartIndex+2:])
	} else {
		bodyBytes, err := io.ReadAll(msg.Body)
		if err != nil {
			s.frontend.logger.Error("Failed to read message body", zap.Error(err))
			return err
		}
		modifiedEmail.Write(bodyBytes)
	}

	if s.frontend.postfixEnabled {
		if err := s.frontend.sendToPostfix(s.sender, s.recipients, modifiedEmail.Bytes()); err != nil {
			s.frontend.logger.Error("Failed to send email back to Postfix",
				zap.Error(err),
				zap.String("sender", s.sender))
			return err
		}
	} else {
		s.frontend.logger.Warn("Postfix forwarding disabled, this is likely a misconfiguration")
	}

	s.frontend.logger.Info("Processed email",
		zap.String("from", s.sender),
		zap.String("sender_domain", senderDomain),
		zap.String("risk_level", string(verdict.RiskLevel)),
		zap.Int("score", verdict.PhishingScore),
		zap.String("source", report.Source))

	return nil
}

// Logout handles SMTP logout (not needed for the filter)
func (s *smtpSession) Logout() error {
	return nil
}

// writeHeaders writes all headers except the one named by skip
func writeHeaders(buf *bytes.Buffer, headers mail.Header, skip string) {
	for key, values := range headers {
		if skip != "" && strings.EqualFold(key, skip) {
			continue
		}
		for _, value := range values {
			fmt.Fprintf(buf, "%s: %s\r\n", key, value)
		}
	}
}

// sanitizeHeaderValue strips CR and LF so verdict text cannot inject headers
func sanitizeHeaderValue(value string) string {
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	return value
}
