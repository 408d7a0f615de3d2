package alert

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/google/uuid"

	"certitrack-backend/internal/model"
	"certitrack-backend/internal/store"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real implementation using the webpush library.
type WebPushSender struct{}

func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Job is one expiry alert to deliver: which asset, and how many days
// until its certificate expires (negative when already expired).
type Job struct {
	AssetID uuid.UUID
	Days    int
}

// WorkerPool manages a pool of workers delivering expiry alerts to the
// owning company's push subscriptions.
type WorkerPool struct {
	size    int
	jobs    chan Job
	store   store.Store
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, s store.Store, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Job, size),
		store:   s,
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
	log.Printf("Alert worker %d started", id)
	for {
		select {
		case job := <-wp.jobs:
			wp.deliver(ctx, job)
		case <-ctx.Done():
			log.Printf("Alert worker %d shutting down", id)
			return
		}
	}
}

// Dispatch sends a job to the worker pool.
func (wp *WorkerPool) Dispatch(job Job) {
	wp.jobs <- job
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Job {
	return wp.jobs
}

// deliver fans the alert out to every subscription of the asset's
// company.
func (wp *WorkerPool) deliver(ctx context.Context, job Job) {
	asset, err := wp.store.GetAsset(ctx, job.AssetID)
	if err != nil {
		log.Printf("Error fetching asset %s for alert: %v", job.AssetID, err)
		return
	}

	subscriptions, err := wp.store.SubscriptionsForCompany(ctx, asset.CompanyID)
	if err != nil {
		log.Printf("Error fetching subscriptions for company %s: %v", asset.CompanyID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(payloadFor(asset, job.Days))
	if err != nil {
		log.Printf("Error marshaling alert payload for asset %s: %v", asset.ID, err)
		return
	}

	log.Printf("Sending %d expiry alerts for asset %s", len(subscriptions), asset.AssetCode)
	for _, sub := range subscriptions {
		wp.send(ctx, sub, payload)
	}
}

type alertPayload struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	AssetID   string `json:"asset_id"`
	AssetCode string `json:"asset_code"`
	Days      int    `json:"days_until_expiry"`
}

func payloadFor(asset *model.Asset, days int) alertPayload {
	p := alertPayload{
		AssetID:   asset.ID.String(),
		AssetCode: asset.AssetCode,
		Days:      days,
	}
	switch {
	case days < 0:
		p.Title = "Certificate expired"
		p.Body = asset.Name + " (" + asset.AssetCode + ") has an expired certificate"
	case days == 1:
		p.Title = "Certificate expires tomorrow"
		p.Body = asset.Name + " (" + asset.AssetCode + ") must be re-certified by tomorrow"
	default:
		p.Title = "Certificate expiring soon"
		p.Body = asset.Name + " (" + asset.AssetCode + ") expires in " + strconv.Itoa(days) + " days"
	}
	return p
}

// send delivers one web push notification, dropping the subscription
// when the push service reports it gone.
func (wp *WorkerPool) send(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending alert to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
