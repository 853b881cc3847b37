// Package notify sends short text notifications to a principal's phone.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SMSSender delivers one message to one phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// Publisher is the part of the SNS client used here.
type Publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSSender struct {
	client   Publisher
	senderID string
}

func NewSNSSender(ctx context.Context, region, senderID string) (*SNSSender, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewSNSSenderWithClient(sns.NewFromConfig(cfg), senderID), nil
}

func NewSNSSenderWithClient(client Publisher, senderID string) *SNSSender {
	return &SNSSender{client: client, senderID: senderID}
}

func (s *SNSSender) SendSMS(ctx context.Context, phone, message string) error {
	number, err := NormalizePhone(phone)
	if err != nil {
		return err
	}

	attrs := map[string]types.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {DataType: aws.String("String"), StringValue: aws.String("Transactional")},
	}
	if s.senderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(s.senderID)}
	}

	_, err = s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(number),
		Message:           aws.String(message),
		MessageAttributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("publish sms: %w", err)
	}
	return nil
}

// NormalizePhone turns a local 10 digit Indian mobile number or an E.164
// number into E.164.
func NormalizePhone(phone string) (string, error) {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	switch {
	case strings.HasPrefix(strings.TrimSpace(phone), "+") && len(d) >= 10 && len(d) <= 15:
		return "+" + d, nil
	case len(d) == 10:
		return "+91" + d, nil
	case len(d) == 12 && strings.HasPrefix(d, "91"):
		return "+" + d, nil
	case len(d) == 11 && strings.HasPrefix(d, "0"):
		return "+91" + d[1:], nil
	}
	return "", fmt.Errorf("not a phone number: %q", phone)
}

// NopSender drops every message. Used when SMS is disabled.
type NopSender struct{}

func (NopSender) SendSMS(ctx context.Context, phone, message string) error {
	return nil
}
