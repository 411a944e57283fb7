package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"trait-attendance-backend/internal/model"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool fans attendance-change notifications out to member subscribers.
// The engine dispatches a member id whenever a transition is actually logged;
// no-op marks never arrive here.
type WorkerPool struct {
	size    int
	jobs    chan int64
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int64, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("notification worker %d started", id)
	for {
		select {
		case memberID := <-wp.jobs:
			wp.notifyForMember(ctx, memberID)
		case <-ctx.Done():
			log.Printf("notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a status-change notification job for a member.
func (wp *WorkerPool) Dispatch(memberID int64) {
	wp.jobs <- memberID
}

// notifyForMember fetches the member's subscribers and pushes their new
// status to each of them.
func (wp *WorkerPool) notifyForMember(ctx context.Context, memberID int64) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_member_mapping smm ON smm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("smm.member_id = ?", memberID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("error fetching subscriptions for member %d: %v", memberID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	var member model.Member
	if err := wp.db.WithContext(ctx).First(&member, memberID).Error; err != nil {
		log.Printf("error fetching member %d: %v", memberID, err)
		return
	}

	var latest model.AttendanceEvent
	statusWord := "outside"
	err = wp.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("recorded_at DESC, id DESC").
		Take(&latest).Error
	if err != nil {
		log.Printf("error fetching latest event for member %d: %v", memberID, err)
	} else if latest.Status == model.StatusInside {
		statusWord = "inside"
	}

	log.Printf("sending %d notifications for member %d", len(subscriptions), memberID)
	message := fmt.Sprintf("%s is now %s.", member.Name, statusWord)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Expired subscriptions are pruned on 410.
	if resp.StatusCode == http.StatusGone {
		log.Printf("subscription for endpoint %s is expired, deleting", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
