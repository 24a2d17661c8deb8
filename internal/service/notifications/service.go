package notifications

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/internal/integrations/email"
	"github.com/m04kA/HTM-BookingService/internal/integrations/profileservice"
	"github.com/m04kA/HTM-BookingService/pkg/ptr"
)

// Service рендерит и отправляет письма о бронированиях.
// Все методы, кроме напоминаний, best-effort: ошибки только логируются.
type Service struct {
	sender        Sender
	profileClient ProfileServiceClient
	renderer      *renderer
	baseURL       string
	logger        Logger
}

// NewService создает сервис уведомлений
func NewService(sender Sender, profileClient ProfileServiceClient, cfg Config, logger Logger) (*Service, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}

	return &Service{
		sender:        sender,
		profileClient: profileClient,
		renderer:      r,
		baseURL:       strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// SendVerification отправляет посетителю ссылку подтверждения email
func (s *Service) SendVerification(ctx context.Context, b *domain.Booking, settings *domain.BookingSettings, token string) {
	therapist := s.therapist(ctx, b.TherapistProfileID)
	data := s.baseData(b, settings, therapist)
	data.VerifyURL = s.link("/bookings/verify", token)

	if err := s.deliver(ctx, tmplVerification, b.VisitorEmail, b.VisitorName, "Confirm your booking request", data); err != nil {
		s.logger.Warn("SendVerification: booking id=%d: %v", b.ID, err)
	}
}

// NotifyNewRequest сообщает терапевту о новом подтвержденном посетителем бронировании
func (s *Service) NotifyNewRequest(ctx context.Context, b *domain.Booking, settings *domain.BookingSettings) {
	therapist := s.therapist(ctx, b.TherapistProfileID)
	if therapist == nil {
		s.logger.Warn("NotifyNewRequest: booking id=%d: therapist profile unavailable, skipping", b.ID)
		return
	}

	data := s.baseData(b, settings, therapist)
	data.Pending = b.Status == domain.StatusPending

	subject := "New booking request"
	if !data.Pending {
		subject = "New booking"
	}

	if err := s.deliver(ctx, tmplNewRequest, therapist.Email, therapist.DisplayName, subject, data); err != nil {
		s.logger.Warn("NotifyNewRequest: booking id=%d: %v", b.ID, err)
	}
}

// SendConfirmation сообщает посетителю о подтверждении бронирования
func (s *Service) SendConfirmation(ctx context.Context, b *domain.Booking, settings *domain.BookingSettings) {
	therapist := s.therapist(ctx, b.TherapistProfileID)
	data := s.baseData(b, settings, therapist)
	data.ManageURL = s.link("/bookings/lookup", b.VisitorToken)

	if err := s.deliver(ctx, tmplConfirmation, b.VisitorEmail, b.VisitorName, "Your session is confirmed", data); err != nil {
		s.logger.Warn("SendConfirmation: booking id=%d: %v", b.ID, err)
	}
}

// SendCancellation сообщает об отмене стороне, которая не инициировала отмену
func (s *Service) SendCancellation(ctx context.Context, b *domain.Booking, settings *domain.BookingSettings) {
	therapist := s.therapist(ctx, b.TherapistProfileID)
	data := s.baseData(b, settings, therapist)
	data.Reason = ptr.Value(b.CancellationReason)

	by := ptr.Value(b.CancelledBy)
	data.CancelledBy = string(by)

	var err error
	if by == domain.CancelledByVisitor {
		if therapist == nil {
			s.logger.Warn("SendCancellation: booking id=%d: therapist profile unavailable, skipping", b.ID)
			return
		}
		data.CounterpartName = b.VisitorName
		err = s.deliver(ctx, tmplCancellation, therapist.Email, therapist.DisplayName, "Booking cancelled", data)
	} else {
		err = s.deliver(ctx, tmplCancellation, b.VisitorEmail, b.VisitorName, "Your session was cancelled", data)
	}

	if err != nil {
		s.logger.Warn("SendCancellation: booking id=%d: %v", b.ID, err)
	}
}

// SendVisitorReminder отправляет напоминание посетителю
func (s *Service) SendVisitorReminder(ctx context.Context, b *domain.Booking, settings *domain.BookingSettings, threshold domain.ReminderThreshold) error {
	therapist := s.therapist(ctx, b.TherapistProfileID)
	data := s.baseData(b, settings, therapist)
	data.Threshold = string(threshold)
	data.ManageURL = s.link("/bookings/lookup", b.VisitorToken)

	return s.deliver(ctx, tmplReminder, b.VisitorEmail, b.VisitorName, reminderSubject(threshold), data)
}

// SendTherapistReminder отправляет напоминание терапевту
func (s *Service) SendTherapistReminder(ctx context.Context, b *domain.Booking, settings *domain.BookingSettings, threshold domain.ReminderThreshold) error {
	therapist := s.therapist(ctx, b.TherapistProfileID)
	if therapist == nil || therapist.Email == "" {
		return fmt.Errorf("%w: therapist profile=%d", ErrNoRecipient, b.TherapistProfileID)
	}

	data := s.baseData(b, settings, therapist)
	data.CounterpartName = b.VisitorName
	data.Threshold = string(threshold)

	return s.deliver(ctx, tmplReminder, therapist.Email, therapist.DisplayName, reminderSubject(threshold), data)
}

// Вспомогательные методы

func (s *Service) deliver(ctx context.Context, tmpl, to, toName, subject string, data templateData) error {
	if to == "" {
		return ErrNoRecipient
	}

	html, err := s.renderer.render(tmpl, data)
	if err != nil {
		return err
	}

	result, err := s.sender.Send(ctx, email.Message{
		To:      to,
		ToName:  toName,
		Subject: subject,
		HTML:    html,
		Text:    plainText(subject, data),
	})
	if err != nil {
		return fmt.Errorf("%w: %s to=%s: %v", ErrSend, tmpl, to, err)
	}

	s.logger.Info("deliver: sent %s to=%s, message_id=%s", tmpl, to, result.ProviderMessageID)
	return nil
}

// therapist возвращает профиль или nil, если ProfileService недоступен
func (s *Service) therapist(ctx context.Context, therapistID int64) *profileservice.TherapistProfile {
	profile, err := s.profileClient.GetTherapistWithGracefulDegradation(ctx, therapistID)
	if err != nil {
		s.logger.Warn("therapist: profile=%d unavailable: %v", therapistID, err)
		return nil
	}
	return profile
}

func (s *Service) baseData(b *domain.Booking, settings *domain.BookingSettings, therapist *profileservice.TherapistProfile) templateData {
	data := templateData{
		VisitorName:   b.VisitorName,
		VisitorEmail:  b.VisitorEmail,
		TherapistName: "your therapist",
		Date:          b.BookingDate.Format(domain.DateFormat),
		StartTime:     b.StartTime.String(),
		EndTime:       b.EndTime.String(),
		Timezone:      settings.Timezone,
		Format:        string(b.SessionFormat),
		Notes:         ptr.Value(b.VisitorNotes),
	}
	if therapist != nil && therapist.DisplayName != "" {
		data.TherapistName = therapist.DisplayName
	}
	data.CounterpartName = data.TherapistName
	return data
}

func (s *Service) link(path, token string) string {
	return s.baseURL + path + "?token=" + url.QueryEscape(token)
}

func reminderSubject(threshold domain.ReminderThreshold) string {
	if threshold == domain.Reminder24h {
		return "Your session is tomorrow"
	}
	return "Your session starts soon"
}

func plainText(subject string, data templateData) string {
	return fmt.Sprintf("%s\n%s %s-%s (%s)", subject, data.Date, data.StartTime, data.EndTime, data.Timezone)
}
