package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	input *sns.PublishInput
	err   error
}

func (f *fakePublisher) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, nil
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "9876543210", want: "+919876543210"},
		{in: "098765 43210", want: "+919876543210"},
		{in: "91-98765-43210", want: "+919876543210"},
		{in: "+1 415 555 0100", want: "+14155550100"},
		{in: "12345", wantErr: true},
		{in: "ravi@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizePhone(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSNSSenderSendSMS(t *testing.T) {
	pub := &fakePublisher{}
	s := NewSNSSenderWithClient(pub, "LEGALD")

	require.NoError(t, s.SendSMS(context.Background(), "9876543210", "Your case LDA-2026-000001 is ready."))

	require.NotNil(t, pub.input)
	assert.Equal(t, "+919876543210", aws.ToString(pub.input.PhoneNumber))
	assert.Equal(t, "Your case LDA-2026-000001 is ready.", aws.ToString(pub.input.Message))
	assert.Equal(t, "Transactional", aws.ToString(pub.input.MessageAttributes["AWS.SNS.SMS.SMSType"].StringValue))
	assert.Equal(t, "LEGALD", aws.ToString(pub.input.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue))
}

func TestSNSSenderErrors(t *testing.T) {
	t.Run("invalid phone never reaches sns", func(t *testing.T) {
		pub := &fakePublisher{}
		err := NewSNSSenderWithClient(pub, "").SendSMS(context.Background(), "n/a", "hi")
		assert.Error(t, err)
		assert.Nil(t, pub.input)
	})

	t.Run("publish failure is wrapped", func(t *testing.T) {
		boom := errors.New("throttled")
		err := NewSNSSenderWithClient(&fakePublisher{err: boom}, "").SendSMS(context.Background(), "9876543210", "hi")
		assert.ErrorIs(t, err, boom)
	})
}
