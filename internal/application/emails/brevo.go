package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

// BrevoSendRequest is the Brevo v3 transactional email body.
type BrevoSendRequest struct {
	Sender      BrevoContact   `json:"sender"`
	To          []BrevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

type BrevoContact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Sender delivers marketplace notifications.
type Sender interface {
	SendWelcome(ctx context.Context, toEmail, name, role string) error
	SendApplicationReceived(ctx context.Context, n ApplicationNotice) error
}

// ApplicationNotice tells a landlord someone applied for one of their listings.
type ApplicationNotice struct {
	OwnerEmail    string
	OwnerName     string
	ListingTitle  string
	ApplicantName string
	Type          string
	Message       string
}

// BrevoClient sends via the Brevo API. An empty APIKey turns every send into a no-op.
type BrevoClient struct {
	APIKey   string
	MailFrom string
	Endpoint string
	Client   *http.Client
}

func (c *BrevoClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "noreply@propertyhub.app"
}

func (c *BrevoClient) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return brevoAPI
}

func (c *BrevoClient) send(ctx context.Context, toEmail, toName, subject, html string) error {
	if c.APIKey == "" || toEmail == "" {
		return nil
	}
	body, err := json.Marshal(BrevoSendRequest{
		Sender:      BrevoContact{Email: c.from(), Name: "PropertyHub"},
		To:          []BrevoContact{{Email: toEmail, Name: toName}},
		Subject:     subject,
		HTMLContent: html,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return nil
}

func (c *BrevoClient) SendWelcome(ctx context.Context, toEmail, name, role string) error {
	if name == "" {
		name = "there"
	}
	return c.send(ctx, toEmail, name, "Welcome to PropertyHub", Layout(welcomeContent(name, role)))
}

func (c *BrevoClient) SendApplicationReceived(ctx context.Context, n ApplicationNotice) error {
	subject := fmt.Sprintf("New %s application for %s", n.Type, n.ListingTitle)
	return c.send(ctx, n.OwnerEmail, n.OwnerName, subject, Layout(applicationContent(n)))
}

func welcomeContent(name, role string) string {
	var next string
	switch role {
	case "LANDLORD", "AGENT":
		next = "You can now publish listings, upload photos and follow how they perform on your dashboard."
	default:
		next = "You can now browse listings, save favorites and apply to rent or buy."
	}
	return fmt.Sprintf(`
    <h1>Welcome, %s!</h1>
    <p>Your PropertyHub account is ready.</p>
    <p>%s</p>
`, EscapeHTML(name), next)
}

func applicationContent(n ApplicationNotice) string {
	owner := n.OwnerName
	if owner == "" {
		owner = "there"
	}
	msg := ""
	if n.Message != "" {
		msg = fmt.Sprintf("<p><em>&ldquo;%s&rdquo;</em></p>", EscapeHTML(n.Message))
	}
	return fmt.Sprintf(`
    <h1>New application</h1>
    <p>Hi %s,</p>
    <p><strong>%s</strong> applied to %s <strong>%s</strong>.</p>
    %s
`, EscapeHTML(owner), EscapeHTML(n.ApplicantName), EscapeHTML(n.Type), EscapeHTML(n.ListingTitle), msg)
}
