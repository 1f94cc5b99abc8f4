package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/lead-intake/internal/infra/queue"
)

var leadConfirmedTmpl = template.Must(template.New("lead_confirmed").Parse(
	`<p>New confirmed lead <b>{{.LeadID}}</b></p>
<ul>
  <li>Name: {{.Name}}</li>
  <li>Age: {{.Age}}</li>
  <li>Country: {{.Country}}</li>
  <li>Product interest: {{.Interest}}</li>
</ul>
`))

func NewEmailSender(host string, port int, user, password, to string) *EmailSender {
	return &EmailSender{
		From:   user,
		To:     to,
		Dialer: gomail.NewDialer(host, port, user, password),
	}
}

func (s *EmailSender) NotifyLeadConfirmed(_ context.Context, p queue.LeadConfirmedPayload) error {
	data := LeadEmailData{
		LeadID:   p.LeadID,
		Name:     p.Name,
		Age:      p.Age,
		Country:  p.Country,
		Interest: p.Interest,
	}

	var body bytes.Buffer
	if err := leadConfirmedTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("Lead confirmado: %s (%s)", p.Name, p.Interest))
	m.SetBody("text/html", body.String())

	if err := s.Dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
