package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Html is optional; Text is recommended as fallback.
// You can also use a template by specifying Template and Data.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "user_activation", "reset_password", "order_confirmation"
	Data     map[string]any `json:"data,omitempty"`
}

// Valid reports whether the job has a recipient and something to render.
func (j EmailJob) Valid() bool {
	if j.To == "" {
		return false
	}
	return j.Template != "" || j.Text != "" || j.HTML != ""
}
