// internal/notify/notifier.go
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"

	"recruitment-backend/internal/common/config"
	"recruitment-backend/internal/common/errors"
	"recruitment-backend/internal/common/logger"
)

// EmailAPI is the slice of the SES client the notifier uses.
type EmailAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SMSAPI is the slice of the SNS client the notifier uses.
type SMSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier delivers interview notifications over email and SMS. Channels are
// individually gated by config; a disabled channel is a silent no-op.
type Notifier struct {
	email  EmailAPI
	sms    SMSAPI
	cfg    config.NotificationConfig
	logger logger.Logger
}

func New(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*Notifier, error) {
	n := &Notifier{
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"service": "notify"}),
	}
	if !cfg.Email.Enabled && !cfg.SMS.Enabled {
		return n, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	if cfg.Email.Enabled {
		n.email = ses.NewFromConfig(awsCfg)
	}
	if cfg.SMS.Enabled {
		n.sms = sns.NewFromConfig(awsCfg)
	}
	return n, nil
}

// NewWithClients wires explicit clients; tests use it to inject fakes.
func NewWithClients(email EmailAPI, sms SMSAPI, cfg config.NotificationConfig, log logger.Logger) *Notifier {
	return &Notifier{
		email:  email,
		sms:    sms,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"service": "notify"}),
	}
}

// InterviewScheduled describes the event the notifier announces.
type InterviewScheduled struct {
	ApplicantName  string
	ApplicantEmail string
	ApplicantPhone string
	JobTitle       string
	CompanyName    string
	ScheduledTime  time.Time
	LocationURL    string
}

// SendInterviewScheduled fans the event out to every enabled channel. Each
// channel failure is logged and returned, but one channel failing does not
// stop the other.
func (n *Notifier) SendInterviewScheduled(ctx context.Context, ev InterviewScheduled) error {
	var failures []string

	if n.cfg.Email.Enabled && n.email != nil && ev.ApplicantEmail != "" {
		if err := n.sendEmail(ctx, ev); err != nil {
			n.logger.WithError(err).Error("interview email failed", map[string]interface{}{
				"to": ev.ApplicantEmail,
			})
			failures = append(failures, "email")
		}
	}
	if n.cfg.SMS.Enabled && n.sms != nil && ev.ApplicantPhone != "" {
		if err := n.sendSMS(ctx, ev); err != nil {
			n.logger.WithError(err).Error("interview sms failed", map[string]interface{}{
				"to": ev.ApplicantPhone,
			})
			failures = append(failures, "sms")
		}
	}

	if len(failures) > 0 {
		return errors.NewNotificationSendFailedError(strings.Join(failures, ","), nil)
	}
	return nil
}

func (n *Notifier) sendEmail(ctx context.Context, ev InterviewScheduled) error {
	messageID := uuid.New().String()
	subject := fmt.Sprintf("Interview scheduled: %s at %s", ev.JobTitle, ev.CompanyName)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour interview for %s at %s is scheduled for %s.",
		ev.ApplicantName, ev.JobTitle, ev.CompanyName,
		ev.ScheduledTime.Format(time.RFC1123),
	)
	if ev.LocationURL != "" {
		body += fmt.Sprintf("\nJoin here: %s", ev.LocationURL)
	}

	_, err := n.email.SendEmail(ctx, &ses.SendEmailInput{
		Source:      strPtr(n.cfg.Email.FromEmail),
		Destination: &sestypes.Destination{ToAddresses: []string{ev.ApplicantEmail}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: strPtr(subject)},
			Body:    &sestypes.Body{Text: &sestypes.Content{Data: strPtr(body)}},
		},
	})
	if err != nil {
		return err
	}

	n.logger.Info("interview email sent", map[string]interface{}{
		"to":        ev.ApplicantEmail,
		"messageId": messageID,
	})
	return nil
}

func (n *Notifier) sendSMS(ctx context.Context, ev InterviewScheduled) error {
	messageID := uuid.New().String()
	text := fmt.Sprintf("Interview for %s at %s on %s",
		ev.JobTitle, ev.CompanyName, ev.ScheduledTime.Format("Jan 2 15:04 MST"))

	input := &sns.PublishInput{
		Message:     strPtr(text),
		PhoneNumber: strPtr(ev.ApplicantPhone),
	}
	if n.cfg.SMS.SenderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    strPtr("String"),
				StringValue: strPtr(n.cfg.SMS.SenderID),
			},
		}
	}

	if _, err := n.sms.Publish(ctx, input); err != nil {
		return err
	}

	n.logger.Info("interview sms sent", map[string]interface{}{
		"to":        ev.ApplicantPhone,
		"messageId": messageID,
	})
	return nil
}

func strPtr(s string) *string { return &s }
