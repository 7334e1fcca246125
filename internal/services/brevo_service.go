package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"storefront-api/internal/config"
)

// BrevoService sends transactional email via the Brevo API. Delivery is
// best-effort; a failed receipt never fails the purchase flow.
type BrevoService struct {
	APIKey    string
	FromEmail string
	FromName  string

	httpClient *http.Client
}

// NewBrevoService creates a new Brevo service instance
func NewBrevoService() *BrevoService {
	return &BrevoService{
		APIKey:    config.AppConfig.BrevoAPIKey,
		FromEmail: config.AppConfig.BrevoFromEmail,
		FromName:  config.AppConfig.BrevoFromName,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// EmailRequest represents Brevo email request structure
type EmailRequest struct {
	Sender      EmailSender `json:"sender"`
	To          []EmailTo   `json:"to"`
	Subject     string      `json:"subject"`
	HTMLContent string      `json:"htmlContent"`
	TextContent string      `json:"textContent"`
}

type EmailSender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type EmailTo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// SendPurchaseReceipt sends a receipt email for a recorded purchase
func (s *BrevoService) SendPurchaseReceipt(to, name, productID, reference string, amount int64, currency string) error {
	serviceName := config.AppConfig.ServiceName
	displayAmount := fmt.Sprintf("%s %.2f", currency, float64(amount)/100)

	subject := fmt.Sprintf("Your receipt from %s", serviceName)
	htmlContent := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<title>Receipt</title>
		</head>
		<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<div style="background-color: #f8f9fa; padding: 30px; border-radius: 10px;">
				<h1 style="color: #333;">Thank you for your purchase, %s!</h1>
				<p style="color: #666; font-size: 16px;">Your payment has been confirmed.</p>
				<table style="width: 100%%; margin: 20px 0; color: #333;">
					<tr><td>Product</td><td style="text-align: right;">%s</td></tr>
					<tr><td>Amount</td><td style="text-align: right;">%s</td></tr>
					<tr><td>Reference</td><td style="text-align: right;">%s</td></tr>
				</table>
				<p style="color: #999; font-size: 14px;">Confirm your email address to unlock your course in the dashboard.</p>
			</div>
		</body>
		</html>
	`, name, productID, displayAmount, reference)

	textContent := fmt.Sprintf(`
		Thank you for your purchase, %s!

		Product: %s
		Amount: %s
		Reference: %s

		Confirm your email address to unlock your course in the dashboard.
	`, name, productID, displayAmount, reference)

	emailReq := EmailRequest{
		Sender: EmailSender{
			Name:  s.FromName,
			Email: s.FromEmail,
		},
		To: []EmailTo{
			{Email: to, Name: name},
		},
		Subject:     subject,
		HTMLContent: htmlContent,
		TextContent: textContent,
	}

	return s.sendEmail(emailReq)
}

// sendEmail sends email via Brevo API
func (s *BrevoService) sendEmail(req EmailRequest) error {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	httpReq, err := http.NewRequest("POST", "https://api.brevo.com/v3/smtp/email", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", s.APIKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("brevo API error: status %d", resp.StatusCode)
	}

	return nil
}
