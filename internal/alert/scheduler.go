package alert

import (
	"context"
	"log"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"certitrack-backend/config"
	"certitrack-backend/internal/expiry"
	"certitrack-backend/internal/store"
)

// Scheduler periodically scans for assets whose certificate expiry has
// crossed an alerting threshold and dispatches push alerts for them.
//
// The threshold list ({30, 14, 7} by default) is the alerting policy;
// it is independent of the warning/critical tiers shown in the UI. An
// alert fires on the day the remaining time hits a threshold, and on
// every cycle once the certificate has expired.
type Scheduler struct {
	cfg        *config.Config
	store      store.Store
	workerPool *WorkerPool
}

// NewScheduler creates and initializes a new alert scheduler.
func NewScheduler(cfg *config.Config, s store.Store) *Scheduler {
	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	return &Scheduler{
		cfg:        cfg,
		store:      s,
		workerPool: NewWorkerPool(cfg.WorkerPool.Size, s, &webpushOptions),
	}
}

// Run starts the scan loop.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.cfg.Alerts.Enabled {
		log.Println("Alert scheduler is disabled. Not starting.")
		return
	}
	log.Println("Starting alert scheduler...")

	s.workerPool.Start(ctx)

	s.RunOnce(ctx)

	timer := time.NewTimer(s.cfg.Alerts.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Alert scheduler shutting down.")
			return
		case <-timer.C:
			s.RunOnce(ctx)
			timer.Reset(s.cfg.Alerts.Interval)
		}
	}
}

// RunOnce performs a single scan cycle and dispatches alert jobs for
// every asset at a threshold. It returns the number of jobs dispatched.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	log.Println("Executing alert scan cycle...")
	now := time.Now().UTC()

	window := maxThreshold(s.cfg.Alerts.ThresholdDays)
	assets, err := s.store.ExpiringAssets(ctx, now, window)
	if err != nil {
		log.Printf("Error scanning for expiring assets: %v", err)
		return 0
	}

	dispatched := 0
	for _, asset := range assets {
		if asset.CertificateExpiryDate == nil {
			continue
		}
		days := expiry.DaysUntil(*asset.CertificateExpiryDate, now)
		if !s.shouldAlert(days) {
			continue
		}
		s.workerPool.Dispatch(Job{AssetID: asset.ID, Days: days})
		dispatched++
	}

	log.Printf("Alert scan cycle finished: %d alerts dispatched.", dispatched)
	return dispatched
}

// shouldAlert reports whether a remaining-days count is at an alerting
// threshold. Expired certificates alert on every cycle.
func (s *Scheduler) shouldAlert(days int) bool {
	if days < 0 {
		return true
	}
	for _, t := range s.cfg.Alerts.ThresholdDays {
		if days == t {
			return true
		}
	}
	return false
}

func maxThreshold(thresholds []int) int {
	m := 0
	for _, t := range thresholds {
		if t > m {
			m = t
		}
	}
	return m
}
