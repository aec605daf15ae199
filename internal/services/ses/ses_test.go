package ses

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tavara-care/internal/models"
)

type fakeSender struct {
	sent []*ses.SendEmailInput
	err  error
}

func (f *fakeSender) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func assignmentEvent() *models.AssignmentEvent {
	return &models.AssignmentEvent{
		AssignmentID: "asg-1",
		Family:       &models.FamilyNeedsProfile{UserID: "family-1", FullName: "Maria Santos", Email: "maria@example.com"},
		Caregiver: &models.CaregiverProfile{
			UserID:            "cg-1",
			FullName:          "Amara Okafor",
			Specialties:       []string{"Dementia Care", "Wound Care"},
			YearsOfExperience: 6,
			HourlyRate:        24,
		},
		Top: models.MatchResult{
			CaregiverID: "cg-1",
			MatchScore:  0.876,
			Explanation: "Care type match: 100%, Experience match: 100%, Budget match: 50%, Schedule match: 100%",
		},
		TriggerType: models.TriggerRegistration,
	}
}

func TestBuildAssignmentNotificationParams(t *testing.T) {
	params := BuildAssignmentNotificationParams(assignmentEvent(), "https://tavara.care/dashboard")

	assert.Equal(t, AssignmentNotificationParams{
		FamilyName:    "Maria Santos",
		FamilyEmail:   "maria@example.com",
		CaregiverName: "Amara Okafor",
		Specialties:   "Dementia Care, Wound Care",
		Experience:    6,
		HourlyRate:    24,
		MatchPercent:  88,
		Explanation:   assignmentEvent().Top.Explanation,
		DashboardURL:  "https://tavara.care/dashboard",
	}, params)
}

func TestBuildAssignmentNotificationParams_Defaults(t *testing.T) {
	event := assignmentEvent()
	event.Family.FullName = ""
	event.Caregiver = nil

	params := BuildAssignmentNotificationParams(event, "")

	assert.Equal(t, "there", params.FamilyName)
	assert.Equal(t, "Your caregiver", params.CaregiverName)
	assert.Empty(t, params.Specialties)
}

func TestNotifier_AfterAssignment(t *testing.T) {
	sender := &fakeSender{}
	notifier := NewNotifierWithClient(sender, "care@tavara.care", "https://tavara.care/dashboard")

	require.NoError(t, notifier.AfterAssignment(context.Background(), assignmentEvent()))
	require.Len(t, sender.sent, 1)

	input := sender.sent[0]
	assert.Equal(t, "care@tavara.care", aws.ToString(input.Source))
	assert.Equal(t, []string{"maria@example.com"}, input.Destination.ToAddresses)
	assert.Equal(t, "We found a caregiver for you, Maria Santos", aws.ToString(input.Message.Subject.Data))

	html := aws.ToString(input.Message.Body.Html.Data)
	assert.Contains(t, html, "Amara Okafor")
	assert.Contains(t, html, "88% match")
	assert.Contains(t, html, `href="https://tavara.care/dashboard"`)

	text := aws.ToString(input.Message.Body.Text.Data)
	assert.Contains(t, text, "Hi Maria Santos,")
	assert.Contains(t, text, "We have assigned Amara Okafor to your care team (88% match).")
	assert.Contains(t, text, "Hourly rate: $24.00")
	assert.Contains(t, text, "View your care team: https://tavara.care/dashboard")
}

func TestNotifier_EscapesHTML(t *testing.T) {
	event := assignmentEvent()
	event.Caregiver.FullName = "<script>alert(1)</script>"
	params := BuildAssignmentNotificationParams(event, "")

	html, err := renderAssignmentHTML(params)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "cta-button\">View")
}

func TestNotifier_SkipsWithoutRecipient(t *testing.T) {
	sender := &fakeSender{}
	ctx := context.Background()

	event := assignmentEvent()
	event.Family.Email = ""
	assert.NoError(t, NewNotifierWithClient(sender, "care@tavara.care", "").AfterAssignment(ctx, event))
	assert.NoError(t, NewNotifierWithClient(sender, "care@tavara.care", "").AfterAssignment(ctx, nil))
	assert.NoError(t, NewNotifierWithClient(sender, "", "").AfterAssignment(ctx, assignmentEvent()))

	assert.Empty(t, sender.sent)
}

func TestNotifier_SendFailure(t *testing.T) {
	notifier := NewNotifierWithClient(&fakeSender{err: errors.New("MessageRejected")}, "care@tavara.care", "")

	err := notifier.AfterAssignment(context.Background(), assignmentEvent())

	assert.ErrorContains(t, err, "failed to send email")
	assert.Equal(t, "ses_notification", notifier.Name())
}
