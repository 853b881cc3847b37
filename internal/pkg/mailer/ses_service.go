package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the part of the SES client the mailer uses.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type sesEmailService struct {
	client SESAPI
	sender string
}

func NewSESEmailService(ctx context.Context, region, sender string) (IEmailService, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewSESEmailServiceWithClient(ses.NewFromConfig(cfg), sender), nil
}

func NewSESEmailServiceWithClient(client SESAPI, sender string) IEmailService {
	return &sesEmailService{client: client, sender: sender}
}

func (s *sesEmailService) SendCaseReady(ctx context.Context, toEmail string, mail CaseReadyMail) error {
	subject, htmlBody, textBody := RenderCaseReady(mail)
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(textBody)},
				Html: &types.Content{Data: aws.String(htmlBody)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send to %s: %w", toEmail, err)
	}
	return nil
}
