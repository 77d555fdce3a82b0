package service

import (
	"fmt"

	"taskman/config"
	"taskman/logger"
	"taskman/util/common"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService sends account lifecycle notifications. Delivery is
// fire-and-forget: a failed send is logged and never fails the request
// that triggered it.
type EmailService struct{}

// SendWelcomeEmail greets a freshly signed-up user.
func (s *EmailService) SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf("Hey %s! Glad to have you on board!", name)
	s.sendAsync(email, name, "Welcome", body)
}

// SendFarewellEmail says goodbye after account deletion.
func (s *EmailService) SendFarewellEmail(email, name string) {
	body := fmt.Sprintf("Bye bye %s! Hope to see you back sometime soon!", name)
	s.sendAsync(email, name, "Farewell", body)
}

func (s *EmailService) sendAsync(email, name, subject, body string) {
	go func() {
		defer common.Recover("send email")
		s.send(email, name, subject, body)
	}()
}

func (s *EmailService) send(email, name, subject, body string) {
	apiKey := config.GetSendgridAPIKey()
	if apiKey == "" {
		logger.Debug("sendgrid api key not set, skipping email to", email)
		return
	}

	from := mail.NewEmail(config.GetName(), config.GetEmailFrom())
	to := mail.NewEmail(name, email)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	resp, err := sendgrid.NewSendClient(apiKey).Send(message)
	if err != nil {
		logger.Warning("send email err:", err)
		return
	}
	if resp.StatusCode >= 400 {
		logger.Warningf("send email to %s failed with status %d", email, resp.StatusCode)
	}
}
