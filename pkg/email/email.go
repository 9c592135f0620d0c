package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// InvoiceLine is one rendered line item of an invoice e-mail
type InvoiceLine struct {
	Name      string
	Quantity  int
	UnitPrice string
	Tax       string
	LineTotal string
}

// ChangeLine is one rendered change denomination of an invoice e-mail
type ChangeLine struct {
	Value int64
	Count int
}

// InvoiceData carries the already-formatted purchase fields for the invoice
// template. Amount formatting stays with the caller so this package needs no
// knowledge of the money types.
type InvoiceData struct {
	InvoiceNo     string
	CustomerEmail string
	CreatedAt     string
	Items         []InvoiceLine
	Change        []ChangeLine
	Subtotal      string
	TaxTotal      string
	Total         string
	PaidAmount    string
	Balance       string
	StoreName     string
}

// SendInvoiceEmail renders and sends the invoice for a settled purchase
func (s *EmailService) SendInvoiceEmail(data *InvoiceData) error {
	data.StoreName = s.config.FromName

	htmlContent, err := s.renderInvoiceEmail(data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Invoice #%s", data.InvoiceNo)
	message := s.buildHTMLEmail(data.CustomerEmail, subject, htmlContent)

	return s.sendEmail(data.CustomerEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)

	return []byte(headers + htmlBody)
}

// renderInvoiceEmail renders the invoice email template
func (s *EmailService) renderInvoiceEmail(data *InvoiceData) (string, error) {
	tmpl, err := template.New("invoice").Parse(invoiceTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// invoiceTemplate is the HTML template for invoice emails
const invoiceTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Invoice #{{.InvoiceNo}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="width: 100%; border-collapse: collapse;">
        <tr>
            <td style="padding: 40px 0;">
                <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);">
                    <tr>
                        <td style="background-color: #1a1a2e; padding: 32px 30px; text-align: center;">
                            <h1 style="color: #ffffff; margin: 0; font-size: 24px; font-weight: 600;">{{.StoreName}}</h1>
                            <p style="color: #a0aec0; margin: 8px 0 0 0; font-size: 14px;">Invoice #{{.InvoiceNo}}</p>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 30px;">
                            <p style="color: #4a5568; font-size: 15px; margin: 0 0 6px 0;">Billed to: <strong>{{.CustomerEmail}}</strong></p>
                            <p style="color: #718096; font-size: 13px; margin: 0 0 24px 0;">{{.CreatedAt}}</p>

                            <table style="width: 100%; border-collapse: collapse; font-size: 14px;">
                                <tr style="color: #718096; text-align: left;">
                                    <th style="padding: 8px 0; border-bottom: 1px solid #e2e8f0;">Item</th>
                                    <th style="padding: 8px 0; border-bottom: 1px solid #e2e8f0;">Qty</th>
                                    <th style="padding: 8px 0; border-bottom: 1px solid #e2e8f0;">Price</th>
                                    <th style="padding: 8px 0; border-bottom: 1px solid #e2e8f0;">Tax %</th>
                                    <th style="padding: 8px 0; border-bottom: 1px solid #e2e8f0; text-align: right;">Total</th>
                                </tr>
                                {{range .Items}}
                                <tr style="color: #1a1a2e;">
                                    <td style="padding: 8px 0; border-bottom: 1px solid #f1f5f9;">{{.Name}}</td>
                                    <td style="padding: 8px 0; border-bottom: 1px solid #f1f5f9;">{{.Quantity}}</td>
                                    <td style="padding: 8px 0; border-bottom: 1px solid #f1f5f9;">{{.UnitPrice}}</td>
                                    <td style="padding: 8px 0; border-bottom: 1px solid #f1f5f9;">{{.Tax}}</td>
                                    <td style="padding: 8px 0; border-bottom: 1px solid #f1f5f9; text-align: right;">{{.LineTotal}}</td>
                                </tr>
                                {{end}}
                            </table>

                            <table style="width: 100%; margin-top: 20px; font-size: 14px; color: #1a1a2e;">
                                <tr><td style="padding: 4px 0; color: #718096;">Subtotal</td><td style="text-align: right;">{{.Subtotal}}</td></tr>
                                <tr><td style="padding: 4px 0; color: #718096;">Tax</td><td style="text-align: right;">{{.TaxTotal}}</td></tr>
                                <tr><td style="padding: 6px 0; font-weight: 600; border-top: 1px solid #e2e8f0;">Total</td><td style="text-align: right; font-weight: 600; border-top: 1px solid #e2e8f0;">{{.Total}}</td></tr>
                                <tr><td style="padding: 4px 0; color: #718096;">Paid</td><td style="text-align: right;">{{.PaidAmount}}</td></tr>
                                <tr><td style="padding: 4px 0; color: #718096;">Change</td><td style="text-align: right;">{{.Balance}}</td></tr>
                            </table>

                            {{if .Change}}
                            <p style="color: #718096; font-size: 13px; margin: 20px 0 6px 0;">Change given:</p>
                            <table style="width: 100%; font-size: 13px; color: #1a1a2e;">
                                {{range .Change}}
                                <tr><td style="padding: 2px 0;">{{.Value}} &times; {{.Count}}</td></tr>
                                {{end}}
                            </table>
                            {{end}}
                        </td>
                    </tr>
                    <tr>
                        <td style="background-color: #f8fafc; padding: 24px; text-align: center; border-top: 1px solid #e2e8f0;">
                            <p style="color: #a0aec0; font-size: 13px; margin: 0;">Thank you for shopping with {{.StoreName}}</p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`
