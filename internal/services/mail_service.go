package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	texttemplate "text/template"
	"time"

	"go.uber.org/zap"

	"fullgorilla/internal/infra"
)

// Mail is a composed message ready for delivery.
type Mail struct {
	To      string
	Subject string
	Data    EmailData
}

type IMailService interface {
	Send(ctx context.Context, mail Mail) error
}

type SMTPConfig struct {
	Host       string
	Port       int // 587 for STARTTLS, 465 with UseSSL
	Username   string
	Password   string
	From       string
	FromName   string
	UseSSL     bool
	RequireTLS bool // fail when the server does not offer STARTTLS
}

func SMTPConfigFrom(s infra.SMTPSettings) SMTPConfig {
	return SMTPConfig{
		Host:       s.Host,
		Port:       s.Port,
		Username:   s.Username,
		Password:   s.Password,
		From:       s.From,
		FromName:   s.FromName,
		UseSSL:     s.UseSSL,
		RequireTLS: s.RequireTLS,
	}
}

type smtpMailService struct {
	cfg SMTPConfig
	log *zap.Logger
}

func NewSMTPMailService(cfg SMTPConfig, log *zap.Logger) IMailService {
	return &smtpMailService{cfg: cfg, log: log}
}

func (s *smtpMailService) Send(ctx context.Context, mail Mail) error {
	html, text, err := RenderEmail(mail.Data)
	if err != nil {
		return fmt.Errorf("render %q: %w", mail.Subject, err)
	}
	msg := buildMessage(s.fromHeader(), mail.To, mail.Subject, html, text, time.Now())

	start := time.Now()
	if err := s.deliver(ctx, mail.To, msg); err != nil {
		s.log.Error("smtp delivery failed", zap.String("to", mail.To), zap.String("subject", mail.Subject), zap.Error(err))
		return err
	}
	s.log.Info("mail sent", zap.String("to", mail.To), zap.String("subject", mail.Subject), zap.Duration("took", time.Since(start)))
	return nil
}

// ------------------- Rendering -------------------

// EmailData is the single template shape behind every transactional mail.
type EmailData struct {
	Title      string
	Greeting   string
	Intro      []string
	Notice     string
	ListTitle  string
	Items      []string
	ButtonURL  string
	ButtonTxt  string
	Outro      []string
	SignOff    string
	FooterNote string
	AppName    string
	Year       int
}

var (
	htmlTpl = template.Must(template.New("html").Parse(baseHTMLTemplate))
	textTpl = texttemplate.Must(texttemplate.New("text").Parse(plainTextTemplate))
)

const baseHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 0; background: #f4f4f4; color: #333333; font-family: Arial, sans-serif; line-height: 1.6; }
    .container { max-width: 600px; margin: 0 auto; background: #ffffff; }
    .header { background: linear-gradient(135deg, #2d5016 0%, #4a7c2c 100%); color: #ffffff; padding: 30px 20px; text-align: center; }
    .header h1 { margin: 0; font-size: 26px; }
    .content { padding: 30px 24px; }
    .notice { background: #e8f5e9; border-left: 4px solid #4a7c2c; padding: 15px; margin: 20px 0; border-radius: 4px; }
    .button { display: inline-block; background: #4a7c2c; color: #ffffff !important; padding: 14px 30px; text-decoration: none; border-radius: 6px; font-weight: bold; }
    .btn-container { text-align: center; margin: 28px 0; }
    .muted { color: #666666; font-size: 13px; word-break: break-all; }
    .footer { background: #2d5016; color: #ffffff; padding: 20px; text-align: center; font-size: 13px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>{{.Title}}</h1>
    </div>
    <div class="content">
      {{if .Greeting}}<h2>{{.Greeting}}</h2>{{end}}
      {{range .Intro}}<p>{{.}}</p>
      {{end}}
      {{if .Notice}}<div class="notice"><strong>{{.Notice}}</strong></div>{{end}}
      {{if .Items}}
        {{if .ListTitle}}<h3>{{.ListTitle}}</h3>{{end}}
        <ul>
        {{range .Items}}<li>{{.}}</li>
        {{end}}
        </ul>
      {{end}}
      {{if .ButtonURL}}
        <div class="btn-container">
          <a class="button" href="{{.ButtonURL}}">{{.ButtonTxt}}</a>
        </div>
        <p class="muted">If the button doesn't work, copy and paste this link into your browser:<br>{{.ButtonURL}}</p>
      {{end}}
      {{range .Outro}}<p>{{.}}</p>
      {{end}}
      {{if .SignOff}}<p>{{.SignOff}}<br><strong>The Full Gorilla Team</strong></p>{{end}}
    </div>
    <div class="footer">
      <p>{{.AppName}} | Healthy eating made simple</p>
      {{if .FooterNote}}<p>{{.FooterNote}}</p>{{end}}
      <p>&copy; {{.Year}} {{.AppName}}</p>
    </div>
  </div>
</body>
</html>`

const plainTextTemplate = `{{.Title}}

{{if .Greeting}}{{.Greeting}}

{{end}}{{range .Intro}}{{.}}

{{end}}{{if .Notice}}>> {{.Notice}}

{{end}}{{if .Items}}{{if .ListTitle}}{{.ListTitle}}
{{end}}{{range .Items}}- {{.}}
{{end}}
{{end}}{{if .ButtonURL}}{{.ButtonTxt}}: {{.ButtonURL}}

{{end}}{{range .Outro}}{{.}}

{{end}}{{if .SignOff}}{{.SignOff}}
The Full Gorilla Team

{{end}}--
{{.AppName}} | Healthy eating made simple
{{if .FooterNote}}{{.FooterNote}}
{{end}}`

// RenderEmail produces the HTML and plain-text alternatives for data.
func RenderEmail(data EmailData) (html string, text string, err error) {
	var hb, tb bytes.Buffer
	if err = htmlTpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err = textTpl.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

// ------------------- SMTP Send -------------------

func buildMessage(from, to, subject, htmlBody, textBody string, now time.Time) []byte {
	boundary := fmt.Sprintf("alt_%d", now.UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { fmt.Fprintf(&msg, format, a...) }

	write("From: %s\r\n", from)
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	write("Date: %s\r\n", now.Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)
	return msg.Bytes()
}

func (s *smtpMailService) deliver(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	var (
		conn net.Conn
		err  error
	)
	if s.cfg.UseSSL {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsCfg}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if !s.cfg.UseSSL {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(tlsCfg); err != nil {
				return err
			}
		} else if s.cfg.RequireTLS {
			return fmt.Errorf("server does not support STARTTLS and RequireTLS=true")
		}
	}

	if s.cfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) fromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("UTF-8", name), s.cfg.From)
}
