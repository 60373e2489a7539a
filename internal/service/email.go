package service

import (
	"context"
	"fmt"
	"strings"

	"landivo/internal/apperr"
	"landivo/internal/batch"
	"landivo/internal/mail"
	"landivo/internal/model"
)

// sendLimit bounds concurrent sends of one campaign.
const sendLimit = 4

// SendEmailInput is a bulk email request.
type SendEmailInput struct {
	BuyerIDs            []string `json:"buyerIds"`
	Subject             string   `json:"subject"`
	Content             string   `json:"content"`
	IncludeUnsubscribed bool     `json:"includeUnsubscribed"`
}

// EmailSent describes one delivered email.
type EmailSent struct {
	BuyerID string `json:"buyerId"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Status  string `json:"status"`
}

// SendEmailResult summarizes a bulk send.
type SendEmailResult struct {
	Message     string      `json:"message"`
	EmailsSent  []EmailSent `json:"emailsSent"`
	FailedCount int         `json:"failedCount"`
}

// SendEmail personalizes content for each eligible buyer and sends it.
// Each send is independent; failures only raise the failed count.
func (s *BuyerService) SendEmail(ctx context.Context, in SendEmailInput) (*SendEmailResult, error) {
	if len(in.BuyerIDs) == 0 {
		return nil, apperr.Validation("At least one buyer ID is required")
	}
	if strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, apperr.Validation("Email subject and content are required")
	}

	buyers, err := s.Buyers.ListByIDs(ctx, in.BuyerIDs, in.IncludeUnsubscribed)
	if err != nil {
		return nil, apperr.Internal("An error occurred while sending emails", err)
	}
	if len(buyers) == 0 {
		return nil, apperr.NotFound("No eligible buyers found with the provided IDs")
	}

	outcomes, err := batch.Concurrent(ctx, buyers, sendLimit, func(ctx context.Context, b model.Buyer) (EmailSent, error) {
		msg := mail.Message{
			To:      b.Email,
			Name:    b.FullName(),
			Subject: Personalize(in.Subject, &b),
			Text:    Personalize(in.Content, &b),
		}
		if err := s.Mailer.Send(ctx, msg); err != nil {
			return EmailSent{}, err
		}
		return EmailSent{BuyerID: b.ID, Email: b.Email, Name: msg.Name, Status: "sent"}, nil
	})
	if err != nil {
		return nil, apperr.Internal("An error occurred while sending emails", err)
	}

	res := &SendEmailResult{EmailsSent: []EmailSent{}}
	for _, o := range outcomes {
		if !o.OK() {
			s.log.Warning("email send failed", "buyer", o.Item.ID, "error", o.Err.Error())
			continue
		}
		res.EmailsSent = append(res.EmailsSent, o.Value)
	}
	res.FailedCount = len(in.BuyerIDs) - len(res.EmailsSent)
	res.Message = fmt.Sprintf("Successfully sent emails to %d buyers", len(res.EmailsSent))
	s.log.Info("bulk email sent", "sent", len(res.EmailsSent), "failed", res.FailedCount)
	return res, nil
}

// Personalize substitutes the {firstName}, {lastName}, {email} and
// {preferredAreas} placeholders with the buyer's values.
func Personalize(text string, b *model.Buyer) string {
	return strings.NewReplacer(
		"{firstName}", model.Deref(b.FirstName),
		"{lastName}", model.Deref(b.LastName),
		"{email}", b.Email,
		"{preferredAreas}", strings.Join(b.PreferredAreas, ", "),
	).Replace(text)
}
