package sns

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tavara-care/internal/models"
)

type fakePublisher struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, params)
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func assignmentEvent() *models.AssignmentEvent {
	return &models.AssignmentEvent{
		AssignmentID: "asg-42",
		Family:       &models.FamilyNeedsProfile{UserID: "family-1"},
		Top:          models.MatchResult{CaregiverID: "cg-7", MatchScore: 0.83, ShiftCompatibilityScore: 0.5},
		Evaluated:    6,
		TriggerType:  models.TriggerRegistration,
		CreatedAt:    time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	}
}

func TestEventPublisher_Publishes(t *testing.T) {
	client := &fakePublisher{}
	publisher := NewEventPublisherWithClient(client, "arn:aws:sns:us-east-1:123456789012:tavara-assignments")

	require.NoError(t, publisher.AfterAssignment(context.Background(), assignmentEvent()))
	require.Len(t, client.inputs, 1)

	input := client.inputs[0]
	assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:tavara-assignments", aws.ToString(input.TopicArn))
	assert.Equal(t, EventAssignmentCreated, aws.ToString(input.MessageAttributes["event_type"].StringValue))
	assert.Equal(t, "registration", aws.ToString(input.MessageAttributes["trigger_type"].StringValue))
	assert.Nil(t, input.MessageGroupId)

	var msg AssignmentMessage
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(input.Message)), &msg))
	assert.Equal(t, NewAssignmentMessage(assignmentEvent()), msg)
	assert.Equal(t, "cg-7", msg.CaregiverID)
	assert.Equal(t, 6, msg.TotalMatchesEvaluated)
}

func TestEventPublisher_FIFOTopic(t *testing.T) {
	client := &fakePublisher{}
	publisher := NewEventPublisherWithClient(client, "arn:aws:sns:us-east-1:123456789012:tavara-assignments.fifo")

	require.NoError(t, publisher.AfterAssignment(context.Background(), assignmentEvent()))

	input := client.inputs[0]
	assert.Equal(t, "family-1", aws.ToString(input.MessageGroupId))
	assert.Equal(t, "asg-42", aws.ToString(input.MessageDeduplicationId))
}

func TestEventPublisher_Errors(t *testing.T) {
	publisher := NewEventPublisherWithClient(&fakePublisher{err: errors.New("AuthorizationError")}, "arn:aws:sns:us-east-1:1:t")

	assert.ErrorContains(t, publisher.AfterAssignment(context.Background(), assignmentEvent()), "failed to publish assignment event")
	assert.Error(t, publisher.AfterAssignment(context.Background(), &models.AssignmentEvent{}))
	assert.Equal(t, "sns_event", publisher.Name())
}
