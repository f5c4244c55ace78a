package service

import (
	"encoding/json"
	"time"

	"crave/internal/models"
	"crave/internal/repository"

	"github.com/sirupsen/logrus"
)

// EventPublisher enqueues an event for out-of-process delivery. The AMQP
// publisher in internal/queue satisfies it; delivery itself is someone
// else's job.
type EventPublisher interface {
	Publish(event interface{}) error
}

// TransactionEvent is the wire shape of an enqueued billing notification.
type TransactionEvent struct {
	UserID    uint                   `json:"user_id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// NotificationService records a notification row and enqueues the event.
// Both steps are best-effort: a notification failure never fails the billing
// operation that triggered it.
type NotificationService struct {
	repo      *repository.NotificationRepository
	publisher EventPublisher
	log       *logrus.Logger
}

func NewNotificationService(repo *repository.NotificationRepository, publisher EventPublisher, log *logrus.Logger) *NotificationService {
	return &NotificationService{repo: repo, publisher: publisher, log: log}
}

func (s *NotificationService) Notify(userID uint, eventType, title, body string, data map[string]interface{}) {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	if err := s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   eventType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	}); err != nil {
		s.log.WithFields(logrus.Fields{"user_id": userID, "type": eventType}).
			WithError(err).Error("failed to record notification")
	}

	if s.publisher == nil {
		return
	}
	event := TransactionEvent{
		UserID:    userID,
		Type:      eventType,
		Title:     title,
		Body:      body,
		Data:      data,
		CreatedAt: time.Now(),
	}
	if err := s.publisher.Publish(event); err != nil {
		s.log.WithFields(logrus.Fields{"user_id": userID, "type": eventType}).
			WithError(err).Error("failed to enqueue notification event")
	}
}
