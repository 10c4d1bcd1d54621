// internal/actions/application/send-notification/handler.go
package sendnotification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/google/uuid"

	apperrors "application-tracker/internal/common/errors"
	"application-tracker/internal/common/logger"
	"application-tracker/internal/common/metrics"
)

const (
	ActionName = "send-notification"
)

// SESService is the part of the SES client the handler calls.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type Handler struct {
	config      *Config
	logger      logger.Logger
	sesClient   SESService
	templateMap map[string]map[string]string
}

// NewHandler builds the notifier. sesClient may be nil when email is
// disabled; every call then reports StatusDisabled.
func NewHandler(config *Config, sesClient SESService, log logger.Logger) *Handler {
	return &Handler{
		config:      config,
		logger:      log.WithFields(map[string]interface{}{"action": ActionName}),
		sesClient:   sesClient,
		templateMap: loadTemplates(),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	notificationID := uuid.New().String()
	sentAt := time.Now().UTC().Format(time.RFC3339)

	if !h.config.EmailEnabled || h.sesClient == nil {
		return h.result(notificationID, StatusDisabled, sentAt), nil
	}

	if input.RecipientEmail == "" {
		h.logger.Debug("no recipient email, notification skipped", map[string]interface{}{
			"applicationId": input.ApplicationID,
		})
		return h.result(notificationID, StatusSkipped, sentAt), nil
	}

	template, exists := h.templateMap[input.NotificationType]
	if !exists {
		return nil, fmt.Errorf("template not found for type: %s", input.NotificationType)
	}

	data := map[string]interface{}{
		"applicationId":  input.ApplicationID,
		"name":           input.RecipientName,
		"previousStatus": input.PreviousStatus,
		"status":         input.Status,
	}

	subject := renderTemplate(template["subject"], data)
	body := renderTemplate(template["body"], data)

	sendCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	if err := h.sendEmail(sendCtx, input.RecipientEmail, subject, body); err != nil {
		sendErr := apperrors.NewNotificationSendFailedError("email", err)
		h.logger.Error("email send failed", map[string]interface{}{
			"error":         sendErr,
			"applicationId": input.ApplicationID,
			"email":         input.RecipientEmail,
		})
		return h.result(notificationID, StatusFailed, sentAt), nil
	}

	h.logger.Info("notification sent", map[string]interface{}{
		"notificationId":   notificationID,
		"applicationId":    input.ApplicationID,
		"notificationType": input.NotificationType,
	})
	return h.result(notificationID, StatusSent, sentAt), nil
}

func (h *Handler) result(id, status, sentAt string) *Output {
	metrics.NotificationsSent.WithLabelValues(status).Inc()
	return &Output{NotificationID: id, Status: status, SentAt: sentAt}
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

// renderTemplate replaces {{key}} placeholders; unknown placeholders are
// removed.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl
	for k, v := range data {
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, "{{"+k+"}}", value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}
	return result
}

func loadTemplates() map[string]map[string]string {
	return map[string]map[string]string{
		TypeStatusChanged: {
			"subject": "Your application {{applicationId}} is now {{status}}",
			"body":    "Hello {{name}}, the status of your application {{applicationId}} changed from {{previousStatus}} to {{status}}.",
		},
		TypeApplicationReceived: {
			"subject": "Application {{applicationId}} received",
			"body":    "Hello {{name}}, we have received your application {{applicationId}}. Current status: {{status}}.",
		},
	}
}
