package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/filedesk/backend/internal/documents"
	"github.com/filedesk/backend/internal/events"
	"github.com/filedesk/backend/internal/models"
	"github.com/filedesk/backend/internal/testutil"
	"github.com/filedesk/backend/internal/upload"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	e       *echo.Echo
	store   *testutil.MockStore
	uploads *upload.Manager
	docs    *documents.Service
	events  *events.Broadcaster
	h       *Handler
}

func newTestServer(t *testing.T, records ...models.FileRecord) *testServer {
	t.Helper()
	if records == nil {
		records = testutil.SampleRecords()
	}

	bus := events.NewBroadcaster()
	uploads := upload.NewManager(upload.Options{
		TickInterval: 2 * time.Millisecond,
		Deadline:     time.Second,
		Increment:    func() float64 { return 50 },
		Publisher:    bus,
	})
	t.Cleanup(uploads.Close)

	seed, err := documents.DefaultSeed()
	require.NoError(t, err)
	docs := documents.NewService(seed, uploads, bus)

	store := testutil.NewMockStore(records...)
	deps := &Dependencies{
		Store:      store,
		Uploads:    uploads,
		Documents:  docs,
		Publisher:  bus,
		Events:     bus,
		QuotaBytes: 1 << 30,
		Version:    "test",
	}

	e := echo.New()
	SetupMiddleware(e, MiddlewareOptions{EnableMetrics: true})
	handlers := NewHandlers(deps)
	RegisterRoutes(e, handlers)
	RegisterWebSocketRoutes(e, handlers)

	return &testServer{
		e:       e,
		store:   store,
		uploads: uploads,
		docs:    docs,
		events:  bus,
		h:       handlers.Files.(*Handler),
	}
}

// do runs a request through the full router.
func (s *testServer) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requireAPIError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	apiErr := decode[APIError](t, rec)
	require.Equal(t, code, apiErr.Code)
}
