package email

import (
	htmltemplate "html/template"
	"strconv"
	"strings"
	texttemplate "text/template"
	"time"

	"portfolio-contact-backend/internal/domain"
)

// templateData holds the values rendered into both notification bodies.
type templateData struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Message     string
	SubmittedAt string
	Saved       bool
}

const notificationHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>New Portfolio Contact</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #3b82f6; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #555; }
        .value { margin-top: 5px; }
        .message-box { background: white; padding: 15px; border-left: 4px solid #3b82f6; margin-top: 10px; white-space: pre-wrap; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New Portfolio Contact</h1>
            <p>{{.SubmittedAt}}</p>
        </div>
        <div class="content">
            <div class="field">
                <div class="label">Name:</div>
                <div class="value">{{.Name}}</div>
            </div>
            <div class="field">
                <div class="label">Email:</div>
                <div class="value"><a href="mailto:{{.Email}}">{{.Email}}</a></div>
            </div>
            <div class="field">
                <div class="label">Phone:</div>
                <div class="value">{{.Phone}}</div>
            </div>
            <div class="field">
                <div class="label">Message:</div>
                <div class="message-box">{{.Message}}</div>
            </div>
        </div>
        <div class="footer">
            {{if .Saved}}<p>Stored in the database as message #{{.ID}}.</p>{{else}}<p>The database was unavailable; this message is only in the backup log.</p>{{end}}
            <p>To reply, answer this email or write to: {{.Email}}</p>
        </div>
    </div>
</body>
</html>`

const notificationText = `New Portfolio Contact
{{.SubmittedAt}}

Name:    {{.Name}}
Email:   {{.Email}}
Phone:   {{.Phone}}

Message:
{{.Message}}

{{if .Saved}}Stored in the database as message #{{.ID}}.{{else}}The database was unavailable; this message is only in the backup log.{{end}}
`

const autoReplyHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Thanks for reaching out</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .message-box { background: #f9f9f9; padding: 15px; border-left: 4px solid #06b6d4; white-space: pre-wrap; font-style: italic; }
    </style>
</head>
<body>
    <div class="container">
        <p>Hi <strong>{{.Name}}</strong>,</p>
        <p>Thank you for getting in touch through my portfolio. I have received your message and will get back to you as soon as possible, usually within 24-48 hours.</p>
        <p>Your message:</p>
        <div class="message-box">{{.Message}}</div>
    </div>
</body>
</html>`

const autoReplyText = `Hi {{.Name}},

Thank you for getting in touch through my portfolio. I have received your message and will get back to you as soon as possible, usually within 24-48 hours.

Your message:
{{.Message}}
`

var (
	notificationHTMLTmpl = htmltemplate.Must(htmltemplate.New("notification_html").Parse(notificationHTML))
	notificationTextTmpl = texttemplate.Must(texttemplate.New("notification_text").Parse(notificationText))
	autoReplyHTMLTmpl    = htmltemplate.Must(htmltemplate.New("auto_reply_html").Parse(autoReplyHTML))
	autoReplyTextTmpl    = texttemplate.Must(texttemplate.New("auto_reply_text").Parse(autoReplyText))
)

func newTemplateData(rec domain.ContactRecord, loc *time.Location) templateData {
	phone := strings.TrimSpace(rec.PhoneNumber)
	if phone == "" {
		phone = "—"
	}
	data := templateData{
		Name:        rec.Name,
		Email:       rec.Email,
		Phone:       phone,
		Message:     rec.Message,
		SubmittedAt: formatTimestamp(rec.CreatedAt, loc),
		Saved:       rec.DBSaved,
	}
	if rec.ID != nil {
		data.ID = strconv.FormatInt(*rec.ID, 10)
	}
	return data
}

// formatTimestamp renders t in loc, falling back to local time when loc is nil.
func formatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("January 2, 2006 at 3:04 PM MST")
}

func render(html *htmltemplate.Template, text *texttemplate.Template, data templateData) (htmlBody, textBody string, err error) {
	var hb, tb strings.Builder
	if err = html.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err = text.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}
