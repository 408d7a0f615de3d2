package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"certitrack-backend/internal/db"
	"certitrack-backend/internal/model"
	"certitrack-backend/internal/store"
)

// mockSender is a mock implementation of the Sender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

var testDBSeq int

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	testDBSeq++
	dsn := fmt.Sprintf("file:alerttest%d?mode=memory&cache=shared", testDBSeq)

	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := gormDB.DB()
		sqlDB.Close()
	})

	require.NoError(t, db.Migrate(gormDB))
	return store.NewGormStore(gormDB)
}

func seedAssetWithSubscription(t *testing.T, s store.Store) *model.Asset {
	t.Helper()
	ctx := context.Background()

	company := &model.Company{ID: uuid.New(), Name: "Acme", Slug: "acme", Email: "ops@acme.example"}
	require.NoError(t, s.CreateCompany(ctx, company))

	asset := &model.Asset{
		ID:        uuid.New(),
		CompanyID: company.ID,
		AssetCode: "CRN-001",
		Name:      "Tower Crane 1",
	}
	require.NoError(t, s.CreateAsset(ctx, asset))

	require.NoError(t, s.UpsertSubscription(ctx, &model.PushSubscription{
		Endpoint:  "https://example.com/push",
		CompanyID: company.ID,
		P256DH:    "test_p256dh",
		Auth:      "test_auth",
	}))
	return asset
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, newTestStore(t), &webpush.Options{})

	assetID := uuid.New()
	wp.Dispatch(Job{AssetID: assetID, Days: 7})

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, assetID, job.AssetID)
		assert.Equal(t, 7, job.Days)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DeliversAlert(t *testing.T) {
	s := newTestStore(t)
	asset := seedAssetWithSubscription(t, s)

	wp := NewWorkerPool(1, s, &webpush.Options{})

	var wg sync.WaitGroup
	wg.Add(1)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			defer wg.Done()
			assert.Equal(t, "https://example.com/push", sub.Endpoint)

			var p alertPayload
			require.NoError(t, json.Unmarshal(payload, &p))
			assert.Equal(t, "CRN-001", p.AssetCode)
			assert.Equal(t, 7, p.Days)
			assert.Equal(t, "Certificate expiring soon", p.Title)

			return &http.Response{
				StatusCode: http.StatusCreated,
				Body:       io.NopCloser(bytes.NewBufferString("")),
			}, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(Job{AssetID: asset.ID, Days: 7})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for alert delivery")
	}
}

func TestWorkerPool_DeletesGoneSubscription(t *testing.T) {
	s := newTestStore(t)
	asset := seedAssetWithSubscription(t, s)

	wp := NewWorkerPool(1, s, &webpush.Options{})

	var wg sync.WaitGroup
	wg.Add(1)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			defer wg.Done()
			return &http.Response{
				StatusCode: http.StatusGone,
				Body:       io.NopCloser(bytes.NewBufferString("")),
			}, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(Job{AssetID: asset.ID, Days: -1})
	wg.Wait()

	// The expired subscription eventually disappears; poll briefly
	// since deletion happens after the sender returns.
	assert.Eventually(t, func() bool {
		subs, err := s.SubscriptionsForCompany(context.Background(), asset.CompanyID)
		return err == nil && len(subs) == 0
	}, 2*time.Second, 20*time.Millisecond)
}
