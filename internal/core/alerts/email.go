package alerts

import (
	"bytes"
	"html/template"
	"time"
)

// Email is a rendered message ready for a mail transport.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type emailData struct {
	Presentation
	Username    string
	DeviceLabel string
	MAC         string
	ErrorType   ErrorType
	Message     string
	OccurredAt  string
}

var emailTemplate = template.Must(template.New("alert").Parse(`<!DOCTYPE html>
<html>
<body style="font-family:Arial,Helvetica,sans-serif;background:#f5f5f5;margin:0;padding:24px;">
  <table width="100%" cellpadding="0" cellspacing="0" style="max-width:600px;margin:auto;background:#ffffff;border-radius:8px;">
    <tr>
      <td style="background:{{.Color}};color:#ffffff;padding:20px;border-radius:8px 8px 0 0;">
        <h1 style="margin:0;font-size:22px;">{{.Emoji}} {{.Title}}</h1>
        <p style="margin:4px 0 0;">Urgency: <strong>{{.Urgency}}</strong></p>
      </td>
    </tr>
    <tr>
      <td style="padding:20px;">
        <p>Hello {{.Username}},</p>
        <p>Your device <strong>{{.DeviceLabel}}</strong> ({{.MAC}}) reported a <strong>{{.ErrorType}}</strong> event at {{.OccurredAt}}:</p>
        <blockquote style="border-left:4px solid {{.Color}};margin:0;padding:8px 12px;background:#fafafa;">{{.Message}}</blockquote>
        {{if .Actions}}
        <h3>Recommended actions</h3>
        <ol>
          {{range .Actions}}<li>{{.}}</li>
          {{end}}
        </ol>
        {{end}}
      </td>
    </tr>
  </table>
</body>
</html>
`))

func renderEmail(to, username, deviceLabel string, ev Event, p Presentation, at time.Time) (Email, error) {
	var buf bytes.Buffer
	err := emailTemplate.Execute(&buf, emailData{
		Presentation: p,
		Username:     username,
		DeviceLabel:  deviceLabel,
		MAC:          ev.MAC,
		ErrorType:    ev.ErrorType,
		Message:      ev.Message,
		OccurredAt:   at.UTC().Format("2006-01-02 15:04:05 MST"),
	})
	if err != nil {
		return Email{}, err
	}
	return Email{
		To:      to,
		Subject: p.Emoji + " " + p.Title + ": " + deviceLabel,
		HTML:    buf.String(),
	}, nil
}
