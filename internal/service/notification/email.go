// internal/service/notification/email.go
package notification

import (
	"fmt"
	"net/smtp"
)

// EmailService 通过 SMTP 发送 HTML 邮件。
type EmailService struct {
	host string
	port string
	from string
}

func NewEmailService(host, port, from string) *EmailService {
	return &EmailService{host: host, port: port, from: from}
}

// SendConfirmation 给下单用户发送订单确认邮件。
func (s *EmailService) SendConfirmation(event *Event) error {
	subject := fmt.Sprintf("Order Confirmation - #%d", event.OrderNo)
	return s.send(event.RecipientEmail, subject, BuildConfirmationBody(event))
}

// SendOpsAlert 给运营侧发送新订单告警邮件。
func (s *EmailService) SendOpsAlert(event *Event) error {
	subject := fmt.Sprintf("New Order Alert - #%d", event.OrderNo)
	return s.send(event.RecipientEmail, subject, BuildOpsAlertBody(event))
}

func (s *EmailService) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
