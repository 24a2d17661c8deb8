package notifications

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	tmplVerification = "verification"
	tmplNewRequest   = "new_request"
	tmplConfirmation = "confirmation"
	tmplCancellation = "cancellation"
	tmplReminder     = "reminder"
)

const layout = `{{define "session"}}<p><b>{{.Date}}</b>, {{.StartTime}}-{{.EndTime}} ({{.Timezone}}), {{.Format}}</p>{{end}}`

var templateTexts = map[string]string{
	tmplVerification: `<p>Hello {{.VisitorName}},</p>
<p>Please confirm your email to complete the booking request with {{.TherapistName}}:</p>
{{template "session" .}}
<p><a href="{{.VerifyURL}}">Confirm my email</a></p>
<p>The link expires in 24 hours.</p>`,

	tmplNewRequest: `<p>New booking from {{.VisitorName}} ({{.VisitorEmail}}).</p>
{{template "session" .}}
{{if .Notes}}<p>Notes: {{.Notes}}</p>{{end}}
{{if .Pending}}<p>The booking is waiting for your approval.</p>{{else}}<p>The booking was confirmed automatically.</p>{{end}}`,

	tmplConfirmation: `<p>Hello {{.VisitorName}},</p>
<p>Your session with {{.TherapistName}} is confirmed.</p>
{{template "session" .}}
<p><a href="{{.ManageURL}}">Manage booking</a></p>`,

	tmplCancellation: `<p>The session with {{.CounterpartName}} was cancelled by the {{.CancelledBy}}.</p>
{{template "session" .}}
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}`,

	tmplReminder: `<p>Reminder: your session with {{.CounterpartName}} starts in {{.Threshold}}.</p>
{{template "session" .}}
{{if .ManageURL}}<p><a href="{{.ManageURL}}">Manage booking</a></p>{{end}}`,
}

// renderer набор заранее разобранных шаблонов
type renderer struct {
	templates map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	r := &renderer{templates: make(map[string]*template.Template, len(templateTexts))}
	for name, text := range templateTexts {
		t, err := template.New(name).Option("missingkey=error").Parse(layout)
		if err != nil {
			return nil, fmt.Errorf("%w: parse layout: %v", ErrRender, err)
		}
		if _, err := t.New(name + "_body").Parse(text); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", ErrRender, name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

func (r *renderer) render(name string, data templateData) (string, error) {
	t, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("%w: unknown template %s", ErrRender, name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name+"_body", data); err != nil {
		return "", fmt.Errorf("%w: execute %s: %v", ErrRender, name, err)
	}
	return buf.String(), nil
}
