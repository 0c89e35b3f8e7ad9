package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/baliblissed-backend/internal/config"
	"github.com/deppfellow/baliblissed-backend/internal/errs"
	"github.com/deppfellow/baliblissed-backend/internal/handler"
	"github.com/deppfellow/baliblissed-backend/internal/middleware"
	"github.com/deppfellow/baliblissed-backend/internal/model"
	"github.com/deppfellow/baliblissed-backend/internal/server"
	"github.com/deppfellow/baliblissed-backend/internal/service"
	"github.com/deppfellow/baliblissed-backend/static"
)

type brokenAssistant struct{}

func (brokenAssistant) SuggestItinerary(context.Context, model.ItineraryRequest) (model.ItineraryResponse, error) {
	var interests map[string]int
	interests["beaches"]++ // panics: assignment to entry in nil map
	return model.ItineraryResponse{}, nil
}

func (brokenAssistant) AnswerQuery(context.Context, model.QueryRequest) (model.QueryResponse, error) {
	return model.QueryResponse{}, errors.New("dial tcp 10.0.0.12:443: connection refused")
}

func (brokenAssistant) AnalyzeInquiry(context.Context, model.ContactInquiryRequest) (model.ContactAnalysisResponse, error) {
	return model.ContactAnalysisResponse{}, errors.New("dial tcp 10.0.0.12:443: connection refused")
}

func newTestRouter(t *testing.T, mutate func(cfg *config.Config), assistant service.Assistant) (*echo.Echo, *server.Server) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Integration.GeminiAPIKey = "test-key"
	if mutate != nil {
		mutate(cfg)
	}

	s, err := server.New(cfg, nil, nil)
	require.NoError(t, err)

	services := service.NewServices(s)
	if assistant != nil {
		services.Assistant = assistant
	}

	r := NewRouter(s, handler.NewHandlers(s, services, static.FS), middleware.NewMiddlewares(s))
	return r, s
}

func do(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.ErrorResponse {
	t.Helper()

	var body errs.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	require.NotNil(t, body.Detail)

	_, err := time.Parse(time.RFC3339Nano, body.Timestamp)
	require.NoError(t, err)

	return body
}

func TestScenarioA_ItinerarySuccess(t *testing.T) {
	r, _ := newTestRouter(t, nil, nil)

	rec := do(r, http.MethodPost, "/api/suggest-itinerary",
		`{"destination":"Bali, Indonesia","duration":7,"interests":["beaches","temples"]}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body model.ItineraryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Itinerary, "Bali, Indonesia")
	assert.Contains(t, body.Itinerary, "7")
	assert.Contains(t, body.Itinerary, "beaches")
	assert.Contains(t, body.Itinerary, "temples")
}

func TestScenarioB_DurationOutOfRange(t *testing.T) {
	r, _ := newTestRouter(t, nil, nil)

	rec := do(r, http.MethodPost, "/api/suggest-itinerary",
		`{"destination":"Bali, Indonesia","duration":400,"interests":["beaches"]}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, "Validation Error", body.Error)
	assert.Contains(t, *body.Detail, "Duration")
	assert.Contains(t, *body.Detail, "365")
}

func TestItineraryDurationMustBeWholeNumber(t *testing.T) {
	r, _ := newTestRouter(t, nil, nil)

	post := func(duration string) *httptest.ResponseRecorder {
		return do(r, http.MethodPost, "/api/suggest-itinerary",
			`{"destination":"Ubud","duration":`+duration+`,"interests":["yoga"]}`, nil)
	}

	for _, duration := range []string{`7.5`, `"7.5"`, `"a week"`, `true`, `[7]`} {
		rec := post(duration)
		require.Equal(t, http.StatusBadRequest, rec.Code, duration)

		body := decodeError(t, rec)
		assert.Equal(t, "Validation Error", body.Error, duration)
		assert.Equal(t, "Duration must be a whole number", *body.Detail, duration)
	}

	for _, duration := range []string{`7`, `7.0`, `"7"`} {
		rec := post(duration)
		require.Equal(t, http.StatusOK, rec.Code, duration)

		var body model.ItineraryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body.Itinerary, "**Duration:** 7 days", duration)
	}
}

func TestScenarioC_MessageTooShort(t *testing.T) {
	r, _ := newTestRouter(t, nil, nil)

	rec := do(r, http.MethodPost, "/api/handle-contact-inquiry",
		`{"name":"Komang","email":"komang@example.com","message":"hi"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, "Validation Error", body.Error)
	assert.Equal(t, "Message must be at least 10 characters long", *body.Detail)
}

func TestScenarioD_EmptyHistory(t *testing.T) {
	r, _ := newTestRouter(t, nil, nil)

	rec := do(r, http.MethodPost, "/api/answer-query", `{"query":"Is tap water safe?","history":[]}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body model.QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Answer, "The chat history has 0 messages.")
}

func TestScenarioE_InternalFault(t *testing.T) {
	r, _ := newTestRouter(t, nil, brokenAssistant{})

	t.Run("panic", func(t *testing.T) {
		rec := do(r, http.MethodPost, "/api/suggest-itinerary",
			`{"destination":"Bali","duration":2,"interests":["beaches"]}`, nil)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "nil map")

		body := decodeError(t, rec)
		assert.Equal(t, "Internal Server Error", body.Error)
		assert.Equal(t, errs.DefaultErrorMessage, *body.Detail)
	})

	t.Run("error", func(t *testing.T) {
		rec := do(r, http.MethodPost, "/api/answer-query", `{"query":"Ferry times?"}`, nil)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "10.0.0.12")

		body := decodeError(t, rec)
		assert.Equal(t, "Failed to process query.", *body.Detail)
	})
}

func TestSystemRoutes(t *testing.T) {
	r, s := newTestRouter(t, nil, nil)

	rec := do(r, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","message":"Welcome to the BaliBlissed AI Backend!"}`, rec.Body.String())

	rec = do(r, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodGet, "/ready", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, s.Shutdown(context.Background()))

	rec = do(r, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	r, _ := newTestRouter(t, nil, nil)

	for _, path := range []string{"/unknown", "/api/unknown"} {
		rec := do(r, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusNotFound, rec.Code, path)

		body := decodeError(t, rec)
		assert.Equal(t, "HTTP 404 Error", body.Error)
		assert.Equal(t, "Not Found", *body.Detail)
	}
}

func TestRequestIDAndSecurityHeaders(t *testing.T) {
	r, _ := newTestRouter(t, nil, nil)

	rec := do(r, http.MethodGet, "/health", "", map[string]string{middleware.RequestIDHeader: "abc-123"})

	assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))
	assert.Equal(t, "DENY", rec.Header().Get(echo.HeaderXFrameOptions))
	assert.Equal(t, "1; mode=block", rec.Header().Get(echo.HeaderXXSSProtection))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get(echo.HeaderReferrerPolicy))
}

func TestCORS(t *testing.T) {
	r, _ := newTestRouter(t, func(cfg *config.Config) {
		cfg.Server.ProductionOrigin = "https://baliblissed.example.com"
	}, nil)

	preflight := map[string]string{
		echo.HeaderOrigin:                      "https://baliblissed.example.com",
		echo.HeaderAccessControlRequestMethod:  http.MethodPost,
		echo.HeaderAccessControlRequestHeaders: "content-type",
	}
	rec := do(r, http.MethodOptions, "/api/answer-query", "", preflight)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://baliblissed.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodPost)

	rec = do(r, http.MethodGet, "/health", "", map[string]string{echo.HeaderOrigin: "http://localhost:3000"})
	assert.Equal(t, "http://localhost:3000", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, middleware.RequestIDHeader, rec.Header().Get(echo.HeaderAccessControlExposeHeaders))

	rec = do(r, http.MethodGet, "/health", "", map[string]string{echo.HeaderOrigin: "https://evil.example.com"})
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestDocsOnlyOutsideProduction(t *testing.T) {
	r, _ := newTestRouter(t, nil, nil)

	rec := do(r, http.MethodGet, "/docs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/static/openapi.json")

	rec = do(r, http.MethodGet, "/static/openapi.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, json.Valid(rec.Body.Bytes()))

	prod, _ := newTestRouter(t, func(cfg *config.Config) {
		cfg.Primary.Env = "production"
	}, nil)

	assert.Equal(t, http.StatusNotFound, do(prod, http.MethodGet, "/docs", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(prod, http.MethodGet, "/static/openapi.json", "", nil).Code)
}

func TestAPIRateLimit(t *testing.T) {
	r, _ := newTestRouter(t, func(cfg *config.Config) {
		cfg.RateLimit.Requests = 1
	}, nil)

	body := `{"query":"Best time for Mount Batur sunrise?"}`

	rec := do(r, http.MethodPost, "/api/answer-query", body, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodPost, "/api/answer-query", body, nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "HTTP 429 Error", decodeError(t, rec).Error)

	// System routes are not limited.
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", "", nil).Code)
}

func TestAPIRateLimit_IgnoresForwardedForFromUntrustedPeers(t *testing.T) {
	r, _ := newTestRouter(t, func(cfg *config.Config) {
		cfg.RateLimit.Requests = 2
	}, nil)

	body := `{"query":"Where to surf in Uluwatu?"}`
	forwardedFor := []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"}

	var codes []int
	for _, ip := range forwardedFor {
		rec := do(r, http.MethodPost, "/api/answer-query", body, map[string]string{
			echo.HeaderXForwardedFor: ip,
			echo.HeaderXRealIP:       ip,
		})
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestAPIRateLimit_TrustedProxyForwardsClientIP(t *testing.T) {
	r, _ := newTestRouter(t, func(cfg *config.Config) {
		cfg.RateLimit.Requests = 1
		// httptest requests arrive from 192.0.2.1.
		cfg.Server.TrustedProxies = []string{"192.0.2.0/24"}
	}, nil)

	body := `{"query":"Is Nusa Penida worth a day trip?"}`
	from := func(ip string) int {
		return do(r, http.MethodPost, "/api/answer-query", body, map[string]string{
			echo.HeaderXForwardedFor: ip,
		}).Code
	}

	assert.Equal(t, http.StatusOK, from("203.0.113.1"))
	assert.Equal(t, http.StatusOK, from("203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, from("203.0.113.1"))
}

func TestIPExtractor(t *testing.T) {
	request := func(remoteAddr, forwardedFor string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remoteAddr
		req.Header.Set(echo.HeaderXForwardedFor, forwardedFor)
		return req
	}

	direct := ipExtractor(config.ServerConfig{})
	assert.Equal(t, "10.1.2.3", direct(request("10.1.2.3:5000", "203.0.113.9")))

	proxied := ipExtractor(config.ServerConfig{TrustedProxies: []string{"10.0.0.0/8"}})
	assert.Equal(t, "203.0.113.9", proxied(request("10.1.2.3:5000", "203.0.113.9")))
	assert.Equal(t, "203.0.113.9", proxied(request("10.1.2.3:5000", "198.51.100.4, 203.0.113.9")))
	assert.Equal(t, "172.16.0.5", proxied(request("172.16.0.5:5000", "203.0.113.9")))
}

func TestGzipLargeResponses(t *testing.T) {
	r, _ := newTestRouter(t, nil, nil)

	rec := do(r, http.MethodGet, "/static/openapi.json", "", map[string]string{echo.HeaderAcceptEncoding: "gzip"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get(echo.HeaderContentEncoding))

	rec = do(r, http.MethodGet, "/health", "", map[string]string{echo.HeaderAcceptEncoding: "gzip"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderContentEncoding))
}
