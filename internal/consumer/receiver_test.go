package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
)

const testQueueURL = "http://localhost:9324/000000000000/delivery-events"

// MockQueueConsumer is a mock implementation of queue.QueueConsumer
type MockQueueConsumer struct {
	mock.Mock
}

func (m *MockQueueConsumer) ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.ReceiveMessageOutput), args.Error(1)
}

func (m *MockQueueConsumer) DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.DeleteMessageOutput), args.Error(1)
}

func (m *MockQueueConsumer) ChangeMessageVisibility(ctx context.Context, input *sqs.ChangeMessageVisibilityInput) (*sqs.ChangeMessageVisibilityOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.ChangeMessageVisibilityOutput), args.Error(1)
}

func (m *MockQueueConsumer) QueueURL() string {
	args := m.Called()
	return args.String(0)
}

var testReceiverConfig = ReceiverConfig{
	MaxMessages:     10,
	WaitTimeSeconds: 20,
	BufferSize:      100,
	ErrorBackoff:    10 * time.Millisecond,
}

func queueMessage(t *testing.T, id string, payload interface{}) types.Message {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return types.Message{
		MessageId:     aws.String(id),
		ReceiptHandle: aws.String("receipt-" + id),
		Body:          aws.String(string(body)),
	}
}

func outboundMessage(i int) *domain.OutboundMessage {
	return &domain.OutboundMessage{
		LogID:    fmt.Sprintf("log-%d", i),
		AlertID:  "alert-1",
		AgencyID: "agency-1",
		Phone:    fmt.Sprintf("+1555123000%d", i),
		Message:  "Flood warning: move to higher ground",
		Priority: domain.PriorityCritical,
	}
}

// drain reads out until it is closed or wait elapses
func drain(out <-chan types.Message, wait time.Duration) []types.Message {
	var got []types.Message
	timeout := time.After(wait)
	for {
		select {
		case msg, ok := <-out:
			if !ok {
				return got
			}
			got = append(got, msg)
		case <-timeout:
			return got
		}
	}
}

func TestReceiver_Start_ForwardsOutboundMessages(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	receiver := NewReceiver(mockConsumer, testReceiverConfig, zap.NewNop())

	mockConsumer.On("QueueURL").Return("http://localhost:9324/000000000000/outbound-sms")
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.MatchedBy(func(in *sqs.ReceiveMessageInput) bool {
		return aws.ToString(in.QueueUrl) == "http://localhost:9324/000000000000/outbound-sms" &&
			in.MaxNumberOfMessages == 10 &&
			in.WaitTimeSeconds == 20
	})).Return(&sqs.ReceiveMessageOutput{Messages: []types.Message{
		queueMessage(t, "msg-1", outboundMessage(1)),
		queueMessage(t, "msg-2", outboundMessage(2)),
	}}, nil).Once()
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.Anything).
		Return(&sqs.ReceiveMessageOutput{Messages: []types.Message{}}, nil).Maybe()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	out := make(chan types.Message, 10)
	go receiver.Start(ctx, out)

	received := drain(out, 200*time.Millisecond)

	require.Len(t, received, 2)
	parser := NewOutboundParser()
	for i, msg := range received {
		sms, err := parser.Parse([]byte(aws.ToString(msg.Body)))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("log-%d", i+1), sms.LogID)
		assert.Equal(t, domain.PriorityCritical, sms.Priority)
	}
}

func TestReceiver_Start_ForwardsDeliveryEvents(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	receiver := NewReceiver(mockConsumer, testReceiverConfig, zap.NewNop())

	at := time.Date(2024, 8, 12, 14, 3, 11, 0, time.UTC)
	mockConsumer.On("QueueURL").Return(testQueueURL)
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.Anything).
		Return(&sqs.ReceiveMessageOutput{Messages: []types.Message{
			queueMessage(t, "msg-1", domain.DeliveryEvent{
				EventID: "evt-1", Kind: domain.EventKindReceipt, AlertLogID: "log-1",
				Status: domain.LogStatusDelivered, OccurredAt: at,
			}),
			queueMessage(t, "msg-2", domain.DeliveryEvent{
				EventID: "evt-2", Kind: domain.EventKindReply, AlertLogID: "log-1",
				Reply: "SAFE", OccurredAt: at.Add(time.Minute),
			}),
		}}, nil).Once()
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.Anything).
		Return(&sqs.ReceiveMessageOutput{Messages: []types.Message{}}, nil).Maybe()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	out := make(chan types.Message, 10)
	go receiver.Start(ctx, out)

	received := drain(out, 200*time.Millisecond)

	require.Len(t, received, 2)
	parser := NewDeliveryEventParser()
	receipt, err := parser.Parse([]byte(aws.ToString(received[0].Body)))
	require.NoError(t, err)
	assert.Equal(t, domain.LogStatusDelivered, receipt.Status)
	reply, err := parser.Parse([]byte(aws.ToString(received[1].Body)))
	require.NoError(t, err)
	assert.Equal(t, "SAFE", reply.Reply)
	assert.Greater(t, reply.Version, receipt.Version)
}

func TestReceiver_Start_RetriesAfterReceiveError(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	receiver := NewReceiver(mockConsumer, testReceiverConfig, zap.NewNop())

	mockConsumer.On("QueueURL").Return(testQueueURL)
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.Anything).
		Return(nil, errors.New("SQS connection error")).Once()
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.Anything).
		Return(&sqs.ReceiveMessageOutput{Messages: []types.Message{
			queueMessage(t, "msg-1", domain.DeliveryEvent{Kind: domain.EventKindReply, AlertLogID: "log-7", Reply: "HELP"}),
		}}, nil).Once()
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.Anything).
		Return(&sqs.ReceiveMessageOutput{Messages: []types.Message{}}, nil).Maybe()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	out := make(chan types.Message, 10)
	go receiver.Start(ctx, out)

	received := drain(out, 300*time.Millisecond)

	require.Len(t, received, 1)
	assert.Equal(t, "msg-1", aws.ToString(received[0].MessageId))
}

func TestReceiver_Start_ContextCancellation(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	receiver := NewReceiver(mockConsumer, testReceiverConfig, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan types.Message, 10)
	receiver.Start(ctx, out)

	_, ok := <-out
	assert.False(t, ok, "out should be closed after cancellation")
	mockConsumer.AssertNotCalled(t, "ReceiveMessages", mock.Anything, mock.Anything)
}

func TestReceiver_Start_EmptyQueue(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	receiver := NewReceiver(mockConsumer, testReceiverConfig, zap.NewNop())

	mockConsumer.On("QueueURL").Return(testQueueURL)
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.Anything).
		Return(&sqs.ReceiveMessageOutput{Messages: []types.Message{}}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	out := make(chan types.Message, 10)
	go receiver.Start(ctx, out)

	assert.Empty(t, drain(out, 200*time.Millisecond))
	mockConsumer.AssertCalled(t, "ReceiveMessages", mock.Anything, mock.Anything)
}

func TestReceiver_Start_BlockedSendStopsOnCancel(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	receiver := NewReceiver(mockConsumer, testReceiverConfig, zap.NewNop())

	batch := make([]types.Message, 5)
	for i := range batch {
		batch[i] = queueMessage(t, fmt.Sprintf("msg-%d", i), outboundMessage(i))
	}
	mockConsumer.On("QueueURL").Return(testQueueURL)
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.Anything).
		Return(&sqs.ReceiveMessageOutput{Messages: batch}, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan types.Message, 2)
	done := make(chan struct{})
	go func() {
		receiver.Start(ctx, out)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(out) == 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("receiver stayed blocked on a full channel after cancellation")
	}
	assert.Len(t, drain(out, 50*time.Millisecond), 2)
}

func TestReceiver_Start_ErrorBackoffStopsOnCancel(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	config := testReceiverConfig
	config.ErrorBackoff = time.Minute
	receiver := NewReceiver(mockConsumer, config, zap.NewNop())

	mockConsumer.On("QueueURL").Return(testQueueURL)
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.Anything).
		Return(nil, errors.New("SQS connection error"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	out := make(chan types.Message, 1)
	done := make(chan struct{})
	go func() {
		receiver.Start(ctx, out)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("receiver kept sleeping after cancellation")
	}
	mockConsumer.AssertNumberOfCalls(t, "ReceiveMessages", 1)
}
