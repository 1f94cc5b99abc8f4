package mail

import "gopkg.in/gomail.v2"

type LeadEmailData struct {
	LeadID   string
	Name     string
	Age      string
	Country  string
	Interest string
}

// Dialer é satisfeito por *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	To     string
	Dialer Dialer
}
