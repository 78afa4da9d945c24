package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"carbooking/models"
	"carbooking/services/notification"
	"carbooking/services/tasks"
	"carbooking/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler exposes push subscription and broadcast endpoints.
type NotificationHandler struct {
	Service   notification.NotificationService
	Scheduler tasks.BroadcastScheduler // nil when scheduled broadcasts are disabled
}

func NewNotificationHandler(svc notification.NotificationService, scheduler tasks.BroadcastScheduler) *NotificationHandler {
	return &NotificationHandler{Service: svc, Scheduler: scheduler}
}

// Subscribe registers the request body as a delivery target. Any JSON value is accepted
// and an empty body registers an empty object.
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid subscription", err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	if err := h.Service.Subscribe(c.Request.Context(), models.DeliveryTarget(body)); err != nil {
		if errors.Is(err, notification.ErrInvalidTarget) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid subscription", err.Error())
			return
		}
		getLogger(c).Error("Failed to store subscription", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Error saving subscription", "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Subscription received."})
}

// Notify broadcasts to every subscriber now, or schedules the broadcast when sendAt is in
// the future.
func (h *NotificationHandler) Notify(c *gin.Context) {
	req, err := bindNotifyRequest(c)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid notification request", err.Error())
		return
	}

	payload := notification.DefaultPayload()
	if req.Title != "" || req.Body != "" {
		payload = models.NotificationPayload{Title: req.Title, Body: req.Body, Data: req.Data}
	}

	if req.SendAt != nil && req.SendAt.After(time.Now()) {
		h.schedule(c, payload, *req.SendAt)
		return
	}

	report, err := h.Service.Broadcast(c.Request.Context(), payload)
	if err != nil {
		var deliveryErr *notification.DeliveryError
		if errors.As(err, &deliveryErr) {
			getLogger(c).Error("Error sending notification", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error sending notification", "report": report})
			return
		}
		getLogger(c).Error("Failed to load subscriptions", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Error sending notification", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notifications sent.", "report": report})
}

func (h *NotificationHandler) schedule(c *gin.Context, payload models.NotificationPayload, sendAt time.Time) {
	if h.Scheduler == nil {
		utils.JSONError(c, http.StatusBadRequest, "Scheduled broadcasts are not enabled", "")
		return
	}
	taskID, err := h.Scheduler.Schedule(c.Request.Context(), payload, sendAt)
	if err != nil {
		getLogger(c).Error("Failed to schedule broadcast", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Error scheduling notification", "")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Notification scheduled.", "taskId": taskID, "sendAt": sendAt})
}

// bindNotifyRequest accepts an empty body, which triggers the default broadcast.
func bindNotifyRequest(c *gin.Context) (models.NotifyRequest, error) {
	var req models.NotifyRequest
	body, err := c.GetRawData()
	if err != nil {
		return req, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, err
	}
	return req, nil
}
