package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSES struct {
	sesiface.SESAPI
	mock.Mock
}

func (m *MockSES) SendRawEmailWithContext(ctx aws.Context, input *ses.SendRawEmailInput, _ ...request.Option) (*ses.SendRawEmailOutput, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(*ses.SendRawEmailOutput), args.Error(1)
}

func TestSESMailerSend(t *testing.T) {
	client := &MockSES{}
	var sent *ses.SendRawEmailInput
	client.On("SendRawEmailWithContext", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*ses.SendRawEmailInput) }).
		Return(&ses.SendRawEmailOutput{MessageId: aws.String("id-1")}, nil)

	mailer := NewSESMailer(client, "hr@example.com, principal@example.com", "noreply@example.com")
	err := mailer.Send(context.Background(), Message{
		Subject:     "Report: Attendance",
		Body:        "see attached",
		Attachments: []Attachment{{Filename: "attendance_report.xlsx", Data: []byte("PK-workbook")}},
	})
	require.NoError(t, err)
	client.AssertExpectations(t)

	require.NotNil(t, sent)
	assert.Equal(t, "noreply@example.com", aws.StringValue(sent.Source))
	require.Len(t, sent.Destinations, 2)
	assert.Equal(t, "principal@example.com", aws.StringValue(sent.Destinations[1]))

	raw := string(sent.RawMessage.Data)
	assert.Contains(t, raw, "Subject: Report: Attendance")
	assert.Contains(t, raw, `filename="attendance_report.xlsx"`)
	assert.Contains(t, raw, "see attached")
}

func TestSESMailerSendError(t *testing.T) {
	client := &MockSES{}
	client.On("SendRawEmailWithContext", mock.Anything, mock.Anything).
		Return((*ses.SendRawEmailOutput)(nil), errors.New("throttled"))

	mailer := NewSESMailer(client, "hr@example.com", "noreply@example.com")
	err := mailer.Send(context.Background(), Message{Subject: "s", Body: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}
