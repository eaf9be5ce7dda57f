package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"storefront-service/clients"
	apperrors "storefront-service/common/errors"
	"storefront-service/controllers"
	"storefront-service/database"
	"storefront-service/middleware"
	"storefront-service/routes"
	"storefront-service/services"
	"storefront-service/templates"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// fakeBackend stands in for the orders/payment backend.
type fakeBackend struct {
	initiate http.HandlerFunc
	verify   http.HandlerFunc
	orders   http.HandlerFunc
	calls    int32
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&f.calls, 1)
	var h http.HandlerFunc
	switch r.URL.Path {
	case "/initiate-payment":
		h = f.initiate
	case "/verify-payment":
		h = f.verify
	case "/orders":
		h = f.orders
	}
	if h == nil {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

type testApp struct {
	router  *gin.Engine
	backend *fakeBackend
	cookies []*http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := &fakeBackend{}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	catalog, err := services.LoadCatalog("")
	require.NoError(t, err)
	client := clients.NewBackendClient(srv.URL, 2*time.Second, nil)
	carts := services.NewCartService(database.NewMemoryCartRepository(time.Hour), catalog)
	checkout := services.NewCheckoutService(client, nil)
	verification := services.NewVerificationService(client, nil)
	orders := services.NewOrderService(client, nil)

	tmpl, err := templates.Load()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(apperrors.ErrorMiddleware())
	r.Use(middleware.Session("session_id", time.Hour, false))
	routes.RegisterRoutes(r,
		controllers.NewStorefrontController(catalog, carts, checkout, verification, orders),
		controllers.NewAPIController(catalog, carts, checkout, verification, orders),
	)
	return &testApp{router: r, backend: backend}
}

func (a *testApp) do(method, target, body, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range a.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		a.cookies = cookies
	}
	return w
}

func (a *testApp) form(target string, values url.Values) *httptest.ResponseRecorder {
	return a.do(http.MethodPost, target, values.Encode(), "application/x-www-form-urlencoded")
}

func (a *testApp) sendJSON(method, target, body string) *httptest.ResponseRecorder {
	return a.do(method, target, body, "application/json")
}

func (a *testApp) backendCalls() int {
	return int(atomic.LoadInt32(&a.backend.calls))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.Error {
	t.Helper()
	var e apperrors.Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}
