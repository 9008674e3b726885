package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"workdesk/internal/models"
)

type EmailService interface {
	SendTaskReminder(task *models.Task, employee *models.Employee) error
}

type emailService struct {
	dialer  *gomail.Dialer
	from    string
	enabled bool
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string, enabled bool) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer:  dialer,
		from:    fromEmail,
		enabled: enabled,
	}
}

func (s *emailService) SendTaskReminder(task *models.Task, employee *models.Employee) error {
	if !s.enabled {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", employee.Email)
	m.SetHeader("Subject", "Task Reminder: "+task.Title)

	body := fmt.Sprintf(`
		<h3>Task due soon</h3>
		<p>Hello %s,</p>
		<p>The task <strong>%s</strong> is due on <strong>%s</strong>.</p>
		<p>%s</p>
		<p>Please make sure it is completed on time.</p>
	`, employee.Name, task.Title, task.DueDate.Format("2006-01-02 15:04"), task.Description)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send task reminder: %w", err)
	}
	return nil
}
