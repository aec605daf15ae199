// Package sns publishes assignment events to an SNS topic so downstream
// systems (scheduling, CRM sync) can react to new care assignments.
package sns

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"

	"tavara-care/internal/models"
	"tavara-care/internal/utils"
)

// EventAssignmentCreated is the event_type attribute of every published message.
const EventAssignmentCreated = "assignment.created"

// Publisher is the subset of the SNS client the event publisher uses.
type Publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// EventPublisher announces each automatic assignment on a topic.
type EventPublisher struct {
	client   Publisher
	topicARN string
}

// AssignmentMessage is the JSON body published for an assignment.
type AssignmentMessage struct {
	Event                   string    `json:"event"`
	AssignmentID            string    `json:"assignment_id"`
	FamilyUserID            string    `json:"family_user_id"`
	CaregiverID             string    `json:"caregiver_id"`
	MatchScore              float64   `json:"match_score"`
	ShiftCompatibilityScore float64   `json:"shift_compatibility_score"`
	TriggerType             string    `json:"trigger_type"`
	TotalMatchesEvaluated   int       `json:"total_matches_evaluated"`
	CreatedAt               time.Time `json:"created_at"`
}

// NewEventPublisher creates a publisher using the default AWS credential chain.
func NewEventPublisher(ctx context.Context, region, topicARN string) (*EventPublisher, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewEventPublisherWithClient(sns.NewFromConfig(cfg), topicARN), nil
}

// NewEventPublisherWithClient creates a publisher over an existing client.
func NewEventPublisherWithClient(client Publisher, topicARN string) *EventPublisher {
	return &EventPublisher{client: client, topicARN: topicARN}
}

// Name identifies the hook in logs and metrics.
func (p *EventPublisher) Name() string {
	return "sns_event"
}

// AfterAssignment publishes the assignment. The family id is the message
// group so FIFO topics keep a family's events in order.
func (p *EventPublisher) AfterAssignment(ctx context.Context, event *models.AssignmentEvent) error {
	if event == nil || event.Family == nil {
		return fmt.Errorf("publish requires an assignment event with a family")
	}

	msg := NewAssignmentMessage(event)
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode assignment event: %w", err)
	}

	input := &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(EventAssignmentCreated),
			},
			"trigger_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(msg.TriggerType),
			},
		},
	}
	if strings.HasSuffix(p.topicARN, ".fifo") {
		input.MessageGroupId = aws.String(msg.FamilyUserID)
		input.MessageDeduplicationId = aws.String(msg.AssignmentID)
	}

	out, err := p.client.Publish(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to publish assignment event: %w", err)
	}

	utils.GetLogger().Info("Published assignment event",
		zap.String("assignment_id", msg.AssignmentID),
		zap.String("message_id", aws.ToString(out.MessageId)),
	)
	return nil
}

// NewAssignmentMessage builds the published body for an event.
func NewAssignmentMessage(event *models.AssignmentEvent) AssignmentMessage {
	return AssignmentMessage{
		Event:                   EventAssignmentCreated,
		AssignmentID:            event.AssignmentID,
		FamilyUserID:            event.Family.UserID,
		CaregiverID:             event.Top.CaregiverID,
		MatchScore:              event.Top.MatchScore,
		ShiftCompatibilityScore: event.Top.ShiftCompatibilityScore,
		TriggerType:             string(event.TriggerType),
		TotalMatchesEvaluated:   event.Evaluated,
		CreatedAt:               event.CreatedAt,
	}
}

