// Package ses provides email notification services via AWS SES
package ses

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	"tavara-care/internal/models"
	"tavara-care/internal/utils"
)

// EmailSender is the subset of the SES client the notifier uses.
type EmailSender interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Notifier emails a family when a caregiver has been assigned to them.
type Notifier struct {
	client       EmailSender
	fromEmail    string
	dashboardURL string
}

// EmailParams represents parameters for sending an email
type EmailParams struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// AssignmentNotificationParams contains data for the assignment email.
type AssignmentNotificationParams struct {
	FamilyName    string
	FamilyEmail   string
	CaregiverName string
	Specialties   string
	Experience    float64
	HourlyRate    float64
	MatchPercent  int
	Explanation   string
	DashboardURL  string
}

// SendEmailResult contains the result of sending an email
type SendEmailResult struct {
	MessageID string
	SentAt    time.Time
}

// NewNotifier creates a notifier using the default AWS credential chain.
func NewNotifier(ctx context.Context, region, fromEmail, dashboardURL string) (*Notifier, error) {
	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewNotifierWithClient(ses.NewFromConfig(cfg), fromEmail, dashboardURL), nil
}

// NewNotifierWithClient creates a notifier over an existing client.
func NewNotifierWithClient(client EmailSender, fromEmail, dashboardURL string) *Notifier {
	return &Notifier{
		client:       client,
		fromEmail:    fromEmail,
		dashboardURL: dashboardURL,
	}
}

// Name identifies the hook in logs and metrics.
func (n *Notifier) Name() string {
	return "ses_notification"
}

// AfterAssignment emails the family about their new caregiver. Families
// without an email address are skipped.
func (n *Notifier) AfterAssignment(ctx context.Context, event *models.AssignmentEvent) error {
	if event == nil || event.Family == nil || event.Family.Email == "" || n.fromEmail == "" {
		return nil
	}

	params := BuildAssignmentNotificationParams(event, n.dashboardURL)
	_, err := n.SendAssignmentNotification(ctx, params)
	return err
}

// SendEmail sends a basic email
func (n *Notifier) SendEmail(ctx context.Context, params EmailParams) (*SendEmailResult, error) {
	input := &ses.SendEmailInput{
		Source: aws.String(n.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{params.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(params.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}

	if params.HTMLBody != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(params.HTMLBody),
			Charset: aws.String("UTF-8"),
		}
	}

	if params.TextBody != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(params.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}

	result, err := n.client.SendEmail(ctx, input)
	if err != nil {
		utils.GetLogger().Error("Failed to send email",
			zap.String("to", params.To),
			zap.String("subject", params.Subject),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	messageID := aws.ToString(result.MessageId)
	utils.GetLogger().Info("Email sent successfully",
		zap.String("to", params.To),
		zap.String("subject", params.Subject),
		zap.String("messageId", messageID),
	)

	return &SendEmailResult{
		MessageID: messageID,
		SentAt:    time.Now(),
	}, nil
}

// SendAssignmentNotification sends the caregiver assignment email.
func (n *Notifier) SendAssignmentNotification(ctx context.Context, params AssignmentNotificationParams) (*SendEmailResult, error) {
	htmlBody, err := renderAssignmentHTML(params)
	if err != nil {
		return nil, fmt.Errorf("failed to render email template: %w", err)
	}

	return n.SendEmail(ctx, EmailParams{
		To:       params.FamilyEmail,
		Subject:  fmt.Sprintf("We found a caregiver for you, %s", params.FamilyName),
		HTMLBody: htmlBody,
		TextBody: renderAssignmentText(params),
	})
}

// BuildAssignmentNotificationParams creates notification params from an assignment event.
func BuildAssignmentNotificationParams(event *models.AssignmentEvent, dashboardURL string) AssignmentNotificationParams {
	params := AssignmentNotificationParams{
		FamilyName:   event.Family.FullName,
		FamilyEmail:  event.Family.Email,
		MatchPercent: int(event.Top.MatchScore*100 + 0.5),
		Explanation:  event.Top.Explanation,
		DashboardURL: dashboardURL,
	}
	if params.FamilyName == "" {
		params.FamilyName = "there"
	}

	if c := event.Caregiver; c != nil {
		params.CaregiverName = c.FullName
		params.Specialties = strings.Join(c.Specialties, ", ")
		params.Experience = c.YearsOfExperience
		params.HourlyRate = c.HourlyRate
	}
	if params.CaregiverName == "" {
		params.CaregiverName = "Your caregiver"
	}

	return params
}

var assignmentTemplate = template.Must(template.New("assignment_notification").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2f6f62; color: white; padding: 30px; border-radius: 10px 10px 0 0; text-align: center; }
        .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
        .card { background: white; border-radius: 8px; padding: 20px; margin: 15px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .score-badge { display: inline-block; background: #28a745; color: white; padding: 5px 12px; border-radius: 20px; font-weight: bold; }
        .cta-button { display: inline-block; background: #2f6f62; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; font-weight: bold; margin-top: 20px; }
        .footer { text-align: center; margin-top: 30px; color: #999; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Your caregiver match is ready</h1>
        <p>Hi {{.FamilyName}}, we have assigned a caregiver based on your care needs.</p>
    </div>
    <div class="content">
        <div class="card">
            <h3>{{.CaregiverName}}</h3>
            {{if .Specialties}}<p>Specialties: {{.Specialties}}</p>{{end}}
            <p>Experience: {{printf "%.1f" .Experience}} years</p>
            <p>Hourly rate: ${{printf "%.2f" .HourlyRate}}</p>
            <p><span class="score-badge">{{.MatchPercent}}% match</span></p>
            <p>{{.Explanation}}</p>
        </div>
        {{if .DashboardURL}}
        <div style="text-align: center;">
            <a href="{{.DashboardURL}}" class="cta-button">View your care team</a>
        </div>
        {{end}}
    </div>
    <div class="footer">
        <p>This email was sent by Tavara.care</p>
    </div>
</body>
</html>`))

func renderAssignmentHTML(params AssignmentNotificationParams) (string, error) {
	var buf bytes.Buffer
	if err := assignmentTemplate.Execute(&buf, params); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderAssignmentText(params AssignmentNotificationParams) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Hi %s,\n\n", params.FamilyName)
	fmt.Fprintf(&buf, "We have assigned %s to your care team (%d%% match).\n\n", params.CaregiverName, params.MatchPercent)
	if params.Specialties != "" {
		fmt.Fprintf(&buf, "Specialties: %s\n", params.Specialties)
	}
	fmt.Fprintf(&buf, "Experience: %.1f years\n", params.Experience)
	fmt.Fprintf(&buf, "Hourly rate: $%.2f\n\n", params.HourlyRate)
	fmt.Fprintf(&buf, "%s\n\n", params.Explanation)

	if params.DashboardURL != "" {
		fmt.Fprintf(&buf, "View your care team: %s\n\n", params.DashboardURL)
	}

	buf.WriteString("Best regards,\nThe Tavara.care Team\n")

	return buf.String()
}
