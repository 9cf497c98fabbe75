package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
}

func TestSESSenderBuildsSimpleMessage(t *testing.T) {
	client := &fakeSES{}
	s := NewSESSender(client, "noreply@notes.example")

	receipt, err := s.Send(context.Background(), Message{To: "a@x.com", Subject: "Hi", Body: "code"})
	require.NoError(t, err)

	assert.Equal(t, "ses-1", receipt.MessageID)
	assert.Equal(t, []string{"a@x.com"}, receipt.Accepted)
	require.NotNil(t, client.input)
	assert.Equal(t, "noreply@notes.example", aws.ToString(client.input.FromEmailAddress))
	assert.Equal(t, []string{"a@x.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Hi", aws.ToString(client.input.Content.Simple.Subject.Data))
	assert.Equal(t, "code", aws.ToString(client.input.Content.Simple.Body.Text.Data))
}

func TestSESSenderPropagatesErrors(t *testing.T) {
	boom := errors.New("throttled")
	s := NewSESSender(&fakeSES{err: boom}, "noreply@notes.example")

	_, err := s.Send(context.Background(), Message{To: "a@x.com"})
	assert.ErrorIs(t, err, boom)

	_, err = s.Send(context.Background(), Message{})
	assert.ErrorIs(t, err, ErrNoRecipient)
}
