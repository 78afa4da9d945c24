package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	bookingRepo "carbooking/database/repository/booking"
	"carbooking/handlers"
	"carbooking/services/booking"
	"carbooking/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bookingSvc := booking.NewDefaultBookingService(bookingRepo.NewMemoryBookingRepo(), nil, bcrypt.MinCost, zap.NewNop())
	notifSvc, err := notification.NewDefaultNotificationService(
		notification.NewMemoryRegistry(),
		&notification.LogDeliverer{Logger: zap.NewNop()},
		time.Second,
		zap.NewNop(),
	)
	require.NoError(t, err)

	r := gin.New()
	RegisterRoutes(r, handlers.NewHandlerBundle(
		handlers.NewBookingHandler(bookingSvc),
		handlers.NewNotificationHandler(notifSvc, nil),
		handlers.HealthHandler,
	))
	return r
}

func TestRegisterRoutes(t *testing.T) {
	r := newTestRouter(t)

	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/api/bookings", "", http.StatusOK},
		{http.MethodPost, "/api/bookings", `{}`, http.StatusBadRequest},
		{http.MethodPost, "/api/cancel-booking", `{"bookingId":"nope","passkey":"k"}`, http.StatusNotFound},
		{http.MethodPost, "/api/subscribe", `{"token":"a"}`, http.StatusCreated},
		{http.MethodPost, "/api/notify", ``, http.StatusOK},
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodDelete, "/api/bookings", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestCORS(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
