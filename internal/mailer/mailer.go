// Package mailer renders and delivers the waitlist's transactional
// emails through AWS SES.
package mailer

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/osteele/liquid"

	"github.com/ignite/waitlist-api/internal/config"
	"github.com/ignite/waitlist-api/internal/pkg/logger"
)

// sesAPI is the slice of the SES v2 client the sender uses.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender implements the waitlist email contract on top of AWS SES.
type SESSender struct {
	client sesAPI
	cfg    config.EmailConfig

	baseURL             string
	unsubscribeErrorURL string

	templates *compiledSet
}

// NewSESSender builds a sender for the configured template style.
// Static credentials are used when configured; otherwise the default
// credential chain applies (IAM role on ECS).
func NewSESSender(ctx context.Context, emailCfg config.EmailConfig, appCfg config.AppConfig) (*SESSender, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(emailCfg.Region),
	}
	if emailCfg.AccessKey != "" && emailCfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(emailCfg.AccessKey, emailCfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return newSender(sesv2.NewFromConfig(awsCfg), emailCfg, appCfg)
}

func newSender(client sesAPI, emailCfg config.EmailConfig, appCfg config.AppConfig) (*SESSender, error) {
	templates, err := compileStyle(liquid.NewEngine(), emailCfg.TemplateStyle)
	if err != nil {
		return nil, fmt.Errorf("compiling email templates: %w", err)
	}

	return &SESSender{
		client:              client,
		cfg:                 emailCfg,
		baseURL:             appCfg.BaseURL,
		unsubscribeErrorURL: appCfg.BaseURL + appCfg.UnsubscribeErrorURL,
		templates:           templates,
	}, nil
}

// SendConfirmation delivers the double opt-in confirmation email.
func (s *SESSender) SendConfirmation(ctx context.Context, email, confirmationToken string) error {
	confirmURL := fmt.Sprintf("%s/api/confirm?token=%s", s.baseURL, url.QueryEscape(confirmationToken))

	bindings := s.bindings()
	bindings["confirm_url"] = confirmURL

	return s.send(ctx, email, confirmationSubject,
		render(s.templates.confirmationHTML, bindings, confirmURL),
		render(s.templates.confirmationText, bindings, confirmURL),
	)
}

// SendWelcome delivers the welcome email. The unsubscribe link prefers
// the contact's token; without one it falls back to an email-based
// link, and with neither it points at the unsubscribe error page.
func (s *SESSender) SendWelcome(ctx context.Context, email, unsubscribeToken string) error {
	unsubscribeURL := s.unsubscribeErrorURL
	if unsubscribeToken != "" {
		unsubscribeURL = fmt.Sprintf("%s/api/unsubscribe?token=%s", s.baseURL, url.QueryEscape(unsubscribeToken))
	} else if email != "" {
		unsubscribeURL = fmt.Sprintf("%s/api/unsubscribe?email=%s", s.baseURL, url.QueryEscape(email))
	}

	bindings := s.bindings()
	bindings["unsubscribe_url"] = unsubscribeURL

	return s.send(ctx, email, welcomeSubject,
		render(s.templates.welcomeHTML, bindings, unsubscribeURL),
		render(s.templates.welcomeText, bindings, unsubscribeURL),
	)
}

func (s *SESSender) bindings() map[string]any {
	return map[string]any{
		"project_name":  s.cfg.ProjectName,
		"primary_color": s.cfg.PrimaryColor,
		"logo_url":      s.cfg.LogoURL,
	}
}

func (s *SESSender) send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	from := s.cfg.FromEmail
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
					Text: &types.Content{Data: aws.String(textBody), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("ses send to %s: %w", logger.RedactEmail(to), err)
	}

	messageID := ""
	if result.MessageId != nil {
		messageID = *result.MessageId
	}
	logger.Info("Email sent", "to", to, "subject", subject, "message_id", messageID)

	return nil
}
