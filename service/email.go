package service

import (
	"fmt"
	"html"

	"grocery/config"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务，用于预算超支提醒
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled 开启且配置了收件人才会发送
func (s *EmailService) Enabled() bool {
	return s.cfg != nil && s.cfg.Enabled && s.cfg.Host != "" && s.cfg.To != ""
}

// BudgetExceeded 发送本周超支提醒
func (s *EmailService) BudgetExceeded(username string, summary *WeekSummary) error {
	if !s.Enabled() {
		return fmt.Errorf("邮件服务未启用，请配置 GROCERY_EMAIL_ENABLED=true")
	}

	subject := fmt.Sprintf("[Grocery Budget] %s is over budget this week", username)
	body := s.generateOverBudgetBody(username, summary)

	return s.sendEmail(s.cfg.To, subject, body)
}

// generateOverBudgetBody 生成超支提醒邮件内容
func (s *EmailService) generateOverBudgetBody(username string, summary *WeekSummary) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; }
        .header { background: #16a34a; color: white; padding: 24px; text-align: center; }
        .content { padding: 30px; color: #333; line-height: 1.8; }
        .over { color: #dc2626; font-weight: 600; }
        .footer { background: #f8f9fa; padding: 16px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>Grocery Budget</h1></div>
        <div class="content">
            <p>Hi <strong>%s</strong>,</p>
            <p>Your grocery spending for the week starting %s has passed your budget.</p>
            <p>Budget: $%d<br>Spent: $%d<br><span class="over">Remaining: $%d</span></p>
        </div>
        <div class="footer"><p>This message was sent automatically.</p></div>
    </div>
</body>
</html>
`, html.EscapeString(username), summary.Start.Format("Mon Jan 2"), summary.Budget, summary.Spent, summary.Remaining)
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}
