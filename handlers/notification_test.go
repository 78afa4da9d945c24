package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"carbooking/models"
	"carbooking/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeScheduler struct {
	payload models.NotificationPayload
	fireAt  time.Time
	err     error
}

func (f *fakeScheduler) Schedule(_ context.Context, payload models.NotificationPayload, fireAt time.Time) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.payload, f.fireAt = payload, fireAt
	return "task-1", nil
}

func newNotificationRouter(t *testing.T, d notification.Deliverer, scheduler *fakeScheduler) *gin.Engine {
	t.Helper()
	svc, err := notification.NewDefaultNotificationService(notification.NewMemoryRegistry(), d, time.Second, zap.NewNop())
	require.NoError(t, err)

	h := NewNotificationHandler(svc, nil)
	if scheduler != nil {
		h.Scheduler = scheduler
	}

	r := gin.New()
	r.POST("/api/subscribe", h.Subscribe)
	r.POST("/api/notify", h.Notify)
	return r
}

func okDeliverer() notification.Deliverer {
	return notification.DelivererFunc(func(context.Context, models.NotificationPayload, models.DeliveryTarget) error {
		return nil
	})
}

func TestSubscribe(t *testing.T) {
	var mu sync.Mutex
	var delivered []string
	r := newNotificationRouter(t, notification.DelivererFunc(func(_ context.Context, _ models.NotificationPayload, tg models.DeliveryTarget) error {
		mu.Lock()
		delivered = append(delivered, string(tg))
		mu.Unlock()
		return nil
	}), nil)

	w := doJSON(t, r, http.MethodPost, "/api/subscribe", `{"endpoint":"https://push.example/1","keys":{"p256dh":"x","auth":"y"}}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"Subscription received."}`, w.Body.String())

	// Shape is not checked at registration time.
	for _, body := range []string{``, `"just a string"`, `[{"endpoint":"x"}]`} {
		w = doJSON(t, r, http.MethodPost, "/api/subscribe", body)
		assert.Equal(t, http.StatusCreated, w.Code, body)
	}

	w = doJSON(t, r, http.MethodPost, "/api/subscribe", `{broken`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/notify", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, decodeNotify(t, w.Body.Bytes()).Report.Total)
	assert.Contains(t, delivered, `{}`, "empty body registers an empty object")
	assert.Contains(t, delivered, `"just a string"`)
}

type notifyResponse struct {
	Message string                 `json:"message"`
	Report  models.BroadcastReport `json:"report"`
	TaskID  string                 `json:"taskId"`
}

func decodeNotify(t *testing.T, body []byte) notifyResponse {
	t.Helper()
	var resp notifyResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestNotify(t *testing.T) {
	t.Run("no subscribers", func(t *testing.T) {
		r := newNotificationRouter(t, okDeliverer(), nil)
		w := doJSON(t, r, http.MethodPost, "/api/notify", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeNotify(t, w.Body.Bytes())
		assert.Equal(t, "Notifications sent.", resp.Message)
		assert.Equal(t, 0, resp.Report.Total)
	})

	t.Run("empty body sends the default payload", func(t *testing.T) {
		var got models.NotificationPayload
		r := newNotificationRouter(t, notification.DelivererFunc(func(_ context.Context, p models.NotificationPayload, _ models.DeliveryTarget) error {
			got = p
			return nil
		}), nil)
		require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/api/subscribe", `{"token":"a"}`).Code)

		w := doJSON(t, r, http.MethodPost, "/api/notify", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, notification.DefaultPayload(), got)
		assert.Equal(t, 1, decodeNotify(t, w.Body.Bytes()).Report.Delivered)
	})

	t.Run("custom payload", func(t *testing.T) {
		var got models.NotificationPayload
		r := newNotificationRouter(t, notification.DelivererFunc(func(_ context.Context, p models.NotificationPayload, _ models.DeliveryTarget) error {
			got = p
			return nil
		}), nil)
		doJSON(t, r, http.MethodPost, "/api/subscribe", `{"token":"a"}`)

		w := doJSON(t, r, http.MethodPost, "/api/notify", models.NotifyRequest{Title: "SedanX", Body: "Back at depot"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "SedanX", got.Title)
		assert.Equal(t, "Back at depot", got.Body)
	})

	t.Run("any failed delivery is a 500 with report", func(t *testing.T) {
		r := newNotificationRouter(t, notification.DelivererFunc(func(_ context.Context, _ models.NotificationPayload, tg models.DeliveryTarget) error {
			if string(tg) == `{"token":"dead"}` {
				return errors.New("unregistered")
			}
			return nil
		}), nil)
		doJSON(t, r, http.MethodPost, "/api/subscribe", `{"token":"live"}`)
		doJSON(t, r, http.MethodPost, "/api/subscribe", `{"token":"dead"}`)

		w := doJSON(t, r, http.MethodPost, "/api/notify", nil)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeNotify(t, w.Body.Bytes())
		assert.Equal(t, "Error sending notification", resp.Message)
		assert.Equal(t, 2, resp.Report.Total)
		assert.Equal(t, 1, resp.Report.Delivered)
		assert.Equal(t, 1, resp.Report.Failed)
	})

	t.Run("malformed body", func(t *testing.T) {
		r := newNotificationRouter(t, okDeliverer(), nil)
		w := doJSON(t, r, http.MethodPost, "/api/notify", `{"title":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestNotifyScheduled(t *testing.T) {
	sendAt := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	req := models.NotifyRequest{Title: "Reminder", Body: "Pickup at 10:00", SendAt: &sendAt}

	t.Run("queued", func(t *testing.T) {
		scheduler := &fakeScheduler{}
		r := newNotificationRouter(t, okDeliverer(), scheduler)
		w := doJSON(t, r, http.MethodPost, "/api/notify", req)
		require.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, "task-1", decodeNotify(t, w.Body.Bytes()).TaskID)
		assert.Equal(t, "Reminder", scheduler.payload.Title)
		assert.True(t, scheduler.fireAt.Equal(sendAt))
	})

	t.Run("queue disabled", func(t *testing.T) {
		r := newNotificationRouter(t, okDeliverer(), nil)
		w := doJSON(t, r, http.MethodPost, "/api/notify", req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("enqueue failure", func(t *testing.T) {
		r := newNotificationRouter(t, okDeliverer(), &fakeScheduler{err: errors.New("redis down")})
		w := doJSON(t, r, http.MethodPost, "/api/notify", req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("past sendAt broadcasts now", func(t *testing.T) {
		past := time.Now().Add(-time.Minute)
		scheduler := &fakeScheduler{}
		r := newNotificationRouter(t, okDeliverer(), scheduler)
		w := doJSON(t, r, http.MethodPost, "/api/notify", models.NotifyRequest{Title: "Now", SendAt: &past})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, scheduler.payload.Title)
	})
}
