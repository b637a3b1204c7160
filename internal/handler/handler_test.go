package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SoundHire-Cloud/service-booking/internal/application"
	bookingDomain "github.com/SoundHire-Cloud/service-booking/internal/domain/booking"
	"github.com/SoundHire-Cloud/service-booking/internal/domain/catalog"
	"github.com/SoundHire-Cloud/service-booking/internal/domain/money"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/middleware"
	"github.com/SoundHire-Cloud/service-booking/internal/repository/memory"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type testServer struct {
	router *gin.Engine
	pkg    *catalog.Package
}

func newTestServer(t *testing.T, stock int) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore(money.CurrencyUSD)
	pkg, err := catalog.NewPackage("Basic Sound", "Two speakers and a mixer", money.Must(7500, money.CurrencyUSD), stock, nil)
	require.NoError(t, err)
	require.NoError(t, store.Packages().Save(context.Background(), pkg))

	log := zap.NewNop()
	bookingSvc := application.NewBookingService(
		store.Bookings(), store.Packages(), store.Settings(), store.Transactor(),
		bookingDomain.RangePolicy{}, bookingDomain.NewDailyRatePricing(), nil, log,
	)
	catalogSvc := application.NewCatalogService(store.Packages(), store.Gear(), money.CurrencyUSD, log)
	settingsSvc := application.NewSettingsService(store.Settings(), money.CurrencyUSD, log)

	r := gin.New()
	r.Use(middleware.RecoveryMiddleware(log), middleware.RequestIDMiddleware())
	root := r.Group("")
	NewBookingHandler(bookingSvc).RegisterRoutes(root)
	NewCatalogHandler(catalogSvc).RegisterRoutes(root)
	NewAdminHandler(bookingSvc, catalogSvc, settingsSvc).RegisterRoutes(root)

	return &testServer{router: r, pkg: pkg}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func bookingBody(pkgID string, start, end string, qty int) gin.H {
	return gin.H{
		"package_id":    pkgID,
		"start_date":    start,
		"end_date":      end,
		"qty":           qty,
		"include_addon": true,
		"customer":      gin.H{"name": "Sam Ortiz", "phone": "555-0100"},
	}
}

func TestCreateBooking_Created(t *testing.T) {
	s := newTestServer(t, 5)

	code, env := s.do(t, http.MethodPost, "/api/v1/bookings", bookingBody(s.pkg.ID().String(), "2025-11-10", "2025-11-12", 1))
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Success)

	var dto application.BookingDTO
	require.NoError(t, json.Unmarshal(env.Data, &dto))
	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, "675.00", dto.TotalPrice)
	assert.Contains(t, dto.BookingNumber, "SH-")

	code, env = s.do(t, http.MethodGet, "/api/v1/bookings/"+dto.ID.String(), nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
}

func TestCreateBooking_RejectionStatusCodes(t *testing.T) {
	s := newTestServer(t, 2)
	pkgID := s.pkg.ID().String()

	code, env := s.do(t, http.MethodPost, "/api/v1/bookings", bookingBody(pkgID, "2025-11-12", "2025-11-10", 1))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	code, env = s.do(t, http.MethodPost, "/api/v1/bookings", bookingBody(pkgID, "2025-11-10", "2025-11-12", 0))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_quantity", env.Error.Details["reason"])

	code, env = s.do(t, http.MethodPost, "/api/v1/bookings", bookingBody("6f1c1f5e-0000-4000-8000-000000000000", "2025-11-10", "2025-11-12", 1))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "package_not_found", env.Error.Details["reason"])

	code, env = s.do(t, http.MethodPost, "/api/v1/bookings", bookingBody(pkgID, "2025-11-10", "2025-11-12", 3))
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "insufficient_stock", env.Error.Details["reason"])
	assert.EqualValues(t, 2, env.Error.Details["available"])

	code, _ = s.do(t, http.MethodPost, "/api/v1/bookings", gin.H{"package_id": pkgID})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAvailabilityAndQuote(t *testing.T) {
	s := newTestServer(t, 5)
	pkgID := s.pkg.ID().String()

	code, _ := s.do(t, http.MethodPost, "/api/v1/bookings", bookingBody(pkgID, "2025-11-10", "2025-11-12", 2))
	require.Equal(t, http.StatusCreated, code)

	code, env := s.do(t, http.MethodPost, "/api/v1/bookings/availability", gin.H{
		"package_id": pkgID, "start_date": "2025-11-11", "end_date": "2025-11-11", "qty": 4,
	})
	require.Equal(t, http.StatusOK, code)
	var avail application.AvailabilityDTO
	require.NoError(t, json.Unmarshal(env.Data, &avail))
	assert.False(t, avail.IsAvailable)
	assert.Equal(t, 3, avail.Available)

	code, env = s.do(t, http.MethodPost, "/api/v1/bookings/quote", gin.H{
		"package_id": pkgID, "start_date": "2025-11-20", "end_date": "2025-11-22", "qty": 1, "include_addon": true,
	})
	require.Equal(t, http.StatusOK, code)
	var quote application.QuoteDTO
	require.NoError(t, json.Unmarshal(env.Data, &quote))
	require.NotNil(t, quote.Price)
	assert.Equal(t, "675.00", quote.Price.Total)
}

func TestConfirmAndCancelRoutes(t *testing.T) {
	s := newTestServer(t, 5)

	_, env := s.do(t, http.MethodPost, "/api/v1/bookings", bookingBody(s.pkg.ID().String(), "2025-11-10", "2025-11-10", 1))
	var dto application.BookingDTO
	require.NoError(t, json.Unmarshal(env.Data, &dto))
	base := "/api/v1/bookings/" + dto.ID.String()

	code, _ := s.do(t, http.MethodPost, base+"/confirm", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodPost, base+"/confirm", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, env = s.do(t, http.MethodPost, base+"/cancel", gin.H{"reason": "event moved"})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &dto))
	assert.Equal(t, "cancelled", dto.Status)
	assert.Equal(t, "event moved", dto.CancelNote)

	code, _ = s.do(t, http.MethodGet, "/api/v1/bookings/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCancelBooking_Body(t *testing.T) {
	s := newTestServer(t, 5)

	_, env := s.do(t, http.MethodPost, "/api/v1/bookings", bookingBody(s.pkg.ID().String(), "2025-11-10", "2025-11-10", 1))
	var dto application.BookingDTO
	require.NoError(t, json.Unmarshal(env.Data, &dto))
	path := "/api/v1/bookings/" + dto.ID.String() + "/cancel"

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"reason":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The rejected request must not have cancelled anything.
	code, env := s.do(t, http.MethodGet, "/api/v1/bookings/"+dto.ID.String(), nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &dto))
	assert.Equal(t, "pending", dto.Status)

	code, env = s.do(t, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &dto))
	assert.Equal(t, "cancelled", dto.Status)
	assert.Empty(t, dto.CancelNote)
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t, 5)

	code, env := s.do(t, http.MethodGet, "/api/v1/packages", nil)
	require.Equal(t, http.StatusOK, code)
	var pkgs []application.PackageDTO
	require.NoError(t, json.Unmarshal(env.Data, &pkgs))
	require.Len(t, pkgs, 1)
	assert.Equal(t, "75.00", pkgs[0].DailyRate)

	code, _ = s.do(t, http.MethodGet, "/api/v1/packages/"+s.pkg.ID().String(), nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/gear", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t, 5)

	code, env := s.do(t, http.MethodPost, "/api/v1/admin/packages", gin.H{
		"name": "Club Night", "daily_rate": "250", "stock": 2,
	})
	require.Equal(t, http.StatusCreated, code)
	var created application.PackageDTO
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "250.00", created.DailyRate)

	code, env = s.do(t, http.MethodPatch, "/api/v1/admin/packages/"+created.ID.String(), gin.H{"stock": 4})
	require.Equal(t, http.StatusOK, code)
	var updated application.PackageDTO
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, 4, updated.Stock)

	code, _ = s.do(t, http.MethodDelete, "/api/v1/admin/packages/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, env = s.do(t, http.MethodPut, "/api/v1/admin/settings/addon-rate", gin.H{"daily_rate": "125.50"})
	require.Equal(t, http.StatusOK, code)
	var rate application.AddonRateDTO
	require.NoError(t, json.Unmarshal(env.Data, &rate))
	assert.Equal(t, "125.50", rate.DailyRate)

	code, _ = s.do(t, http.MethodPut, "/api/v1/admin/settings/addon-rate", gin.H{"daily_rate": "abc"})
	assert.Equal(t, http.StatusBadRequest, code)

	_, _ = s.do(t, http.MethodPost, "/api/v1/bookings", bookingBody(s.pkg.ID().String(), "2025-11-10", "2025-11-10", 1))

	code, env = s.do(t, http.MethodGet, "/api/v1/admin/bookings?page=1&limit=10", nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Items []application.BookingDTO `json:"items"`
		Total int64                    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(1), page.Total)
	assert.Len(t, page.Items, 1)

	code, env = s.do(t, http.MethodGet, "/api/v1/admin/stats/bookings", nil)
	require.Equal(t, http.StatusOK, code)
	var stats application.BookingStatsDTO
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(1), stats.TotalBookings)
}
