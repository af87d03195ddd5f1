package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kova98/redditsentiment.api/enums"
	"github.com/kova98/redditsentiment.api/models"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func request(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	} else {
		r = http.NoBody
	}
	return httptest.NewRequest(method, target, r)
}

type fakeAggregator struct {
	dashboard models.DashboardResponse
	recent    models.RecentMentionsResponse
	err       error
}

func (f *fakeAggregator) Dashboard(context.Context) (models.DashboardResponse, error) {
	return f.dashboard, f.err
}

func (f *fakeAggregator) RecentMentions(context.Context) (models.RecentMentionsResponse, error) {
	return f.recent, f.err
}

func TestGetDashboard_Degrades(t *testing.T) {
	h := NewDashboardHandler(discardLogger, &fakeAggregator{err: errors.New("search r/SaaS: status 503")})

	res := h.GetDashboard(httptest.NewRecorder(), request(http.MethodGet, "/dashboard-data", ""))

	assert.Equal(t, http.StatusOK, res.Code)
	body := res.Body.(models.DashboardResponse)
	assert.Equal(t, "search r/SaaS: status 503", body.Error)
	assert.Empty(t, body.Posts)
	assert.NotNil(t, body.Posts)
	assert.Equal(t, models.DashboardStats{}, body.Stats)
	assert.Equal(t, 0.0, body.AverageSentiment)
}

func TestGetDashboard_Ok(t *testing.T) {
	want := models.DashboardResponse{Posts: []models.Post{{ID: "a"}}, AverageSentiment: 0.4}
	h := NewDashboardHandler(discardLogger, &fakeAggregator{dashboard: want})

	res := h.GetDashboard(httptest.NewRecorder(), request(http.MethodGet, "/dashboard-data", ""))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, want, res.Body)
}

func TestGetRecentMentions_Error(t *testing.T) {
	h := NewDashboardHandler(discardLogger, &fakeAggregator{err: errors.New("boom")})

	res := h.GetRecentMentions(httptest.NewRecorder(), request(http.MethodGet, "/recent-mentions", ""))

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.ErrorContains(t, res.Error, "boom")
}

type fakeTriageStore struct {
	ids     []string
	added   []string
	removed []string
	err     error
}

func (s *fakeTriageStore) Add(_ context.Context, id string) error {
	s.added = append(s.added, id)
	return s.err
}

func (s *fakeTriageStore) Remove(_ context.Context, id string) error {
	s.removed = append(s.removed, id)
	return s.err
}

func (s *fakeTriageStore) List(context.Context) ([]string, error) {
	return s.ids, s.err
}

func newTriageHandler() (*TriageHandler, map[enums.TriageSet]*fakeTriageStore) {
	fakes := map[enums.TriageSet]*fakeTriageStore{}
	stores := map[enums.TriageSet]TriageStore{}
	for _, set := range enums.TriageSets {
		fakes[set] = &fakeTriageStore{}
		stores[set] = fakes[set]
	}
	return NewTriageHandler(stores), fakes
}

func TestTriage_AddAndRemove(t *testing.T) {
	h, fakes := newTriageHandler()

	res := h.Add(enums.TriageFlagged)(httptest.NewRecorder(), request(http.MethodPost, "/flag", `{"id":"abc"}`))
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, models.SuccessResponse{Success: true}, res.Body)

	res = h.Remove(enums.TriageEngaged)(httptest.NewRecorder(), request(http.MethodPost, "/unengage", `{"id":"t3_xyz"}`))
	assert.Equal(t, models.SuccessResponse{Success: true}, res.Body)

	assert.Equal(t, []string{"abc"}, fakes[enums.TriageFlagged].added)
	assert.Equal(t, []string{"xyz"}, fakes[enums.TriageEngaged].removed)
	assert.Empty(t, fakes[enums.TriageIgnored].added)
}

func TestTriage_MissingID(t *testing.T) {
	h, fakes := newTriageHandler()

	res := h.Add(enums.TriageIgnored)(httptest.NewRecorder(), request(http.MethodPost, "/ignore", `{}`))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, models.SuccessResponse{Success: false, Error: "Missing id"}, res.Body)
	assert.Empty(t, fakes[enums.TriageIgnored].added)
}

func TestTriage_InvalidJSON(t *testing.T) {
	h, _ := newTriageHandler()

	res := h.Add(enums.TriageFlagged)(httptest.NewRecorder(), request(http.MethodPost, "/flag", `{"id":`))
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestTriage_ListAndStoreError(t *testing.T) {
	h, fakes := newTriageHandler()
	fakes[enums.TriageFlagged].ids = []string{"a", "b"}

	res := h.List(enums.TriageFlagged)(httptest.NewRecorder(), request(http.MethodGet, "/flagged", ""))
	assert.Equal(t, []string{"a", "b"}, res.Body)

	fakes[enums.TriageFlagged].err = errors.New("db down")
	res = h.Add(enums.TriageFlagged)(httptest.NewRecorder(), request(http.MethodPost, "/flag", `{"id":"a"}`))
	assert.Equal(t, http.StatusInternalServerError, res.Code)
}

type fakeMonitorStore struct {
	added   []string
	removed []string
	err     error
}

func (s *fakeMonitorStore) Add(_ context.Context, name string) (bool, error) {
	s.added = append(s.added, name)
	return true, s.err
}

func (s *fakeMonitorStore) Remove(_ context.Context, name string) error {
	s.removed = append(s.removed, name)
	return s.err
}

type fakeCache struct {
	subreddits    []string
	keywords      []string
	invalidations int
}

func (c *fakeCache) Subreddits(context.Context) ([]string, error) { return c.subreddits, nil }
func (c *fakeCache) Keywords(context.Context) ([]string, error)   { return c.keywords, nil }
func (c *fakeCache) Invalidate()                                  { c.invalidations++ }

func TestMonitor_AddSubredditNormalizesAndInvalidates(t *testing.T) {
	subreddits, cache := &fakeMonitorStore{}, &fakeCache{}
	h := NewMonitorHandler(subreddits, &fakeMonitorStore{}, cache)

	res := h.AddSubreddit(httptest.NewRecorder(), request(http.MethodPost, "/monitored-subreddits", `{"subreddit":" r/SaaS "}`))

	assert.Equal(t, models.SuccessResponse{Success: true}, res.Body)
	assert.Equal(t, []string{"SaaS"}, subreddits.added)
	assert.Equal(t, 1, cache.invalidations)
}

func TestMonitor_MissingFields(t *testing.T) {
	subreddits, keywords, cache := &fakeMonitorStore{}, &fakeMonitorStore{}, &fakeCache{}
	h := NewMonitorHandler(subreddits, keywords, cache)

	res := h.AddSubreddit(httptest.NewRecorder(), request(http.MethodPost, "/monitored-subreddits", `{"subreddit":""}`))
	assert.Equal(t, models.SuccessResponse{Success: false, Error: "Missing subreddit"}, res.Body)

	res = h.AddKeyword(httptest.NewRecorder(), request(http.MethodPost, "/keywords", `{"keyword":"  "}`))
	assert.Equal(t, models.SuccessResponse{Success: false, Error: "Missing keyword"}, res.Body)

	assert.Empty(t, subreddits.added)
	assert.Empty(t, keywords.added)
	assert.Equal(t, 0, cache.invalidations)
}

func TestMonitor_RemoveUsesPathValue(t *testing.T) {
	subreddits, keywords, cache := &fakeMonitorStore{}, &fakeMonitorStore{}, &fakeCache{}
	h := NewMonitorHandler(subreddits, keywords, cache)

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /monitored-subreddits/{name}", func(w http.ResponseWriter, r *http.Request) {
		res := h.RemoveSubreddit(w, r)
		assert.Equal(t, models.SuccessResponse{Success: true}, res.Body)
	})
	mux.HandleFunc("DELETE /keywords/{name}", func(w http.ResponseWriter, r *http.Request) {
		res := h.RemoveKeyword(w, r)
		assert.Equal(t, models.SuccessResponse{Success: true}, res.Body)
	})

	mux.ServeHTTP(httptest.NewRecorder(), request(http.MethodDelete, "/monitored-subreddits/SAAS", ""))
	mux.ServeHTTP(httptest.NewRecorder(), request(http.MethodDelete, "/keywords/"+url.PathEscape("Merchant of Record"), ""))

	assert.Equal(t, []string{"SAAS"}, subreddits.removed)
	assert.Equal(t, []string{"Merchant of Record"}, keywords.removed)
	assert.Equal(t, 2, cache.invalidations)
}

func TestMonitor_ReadsAndClear(t *testing.T) {
	cache := &fakeCache{subreddits: []string{"SaaS"}, keywords: []string{"MoR"}}
	h := NewMonitorHandler(&fakeMonitorStore{}, &fakeMonitorStore{}, cache)

	assert.Equal(t, []string{"SaaS"}, h.GetSubreddits(httptest.NewRecorder(), request(http.MethodGet, "/monitored-subreddits", "")).Body)
	assert.Equal(t, []string{"MoR"}, h.GetKeywords(httptest.NewRecorder(), request(http.MethodGet, "/keywords", "")).Body)

	res := h.ClearCache(httptest.NewRecorder(), request(http.MethodPost, "/cache/clear", ""))
	assert.Equal(t, models.MessageResponse{Message: "Cache cleared"}, res.Body)
	assert.Equal(t, 1, cache.invalidations)
}

func TestMonitor_StoreErrorStillInvalidates(t *testing.T) {
	cache := &fakeCache{}
	h := NewMonitorHandler(&fakeMonitorStore{}, &fakeMonitorStore{err: errors.New("db down")}, cache)

	res := h.AddKeyword(httptest.NewRecorder(), request(http.MethodPost, "/keywords", `{"keyword":"MoR"}`))
	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, 1, cache.invalidations)
}

func TestSession_Login(t *testing.T) {
	h := NewSessionHandler("admin", "reddit123", "secret", false)

	w := httptest.NewRecorder()
	res := h.Login(w, request(http.MethodPost, "/api/login", `{"username":"admin","password":"reddit123"}`))
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, models.SuccessResponse{Success: true}, res.Body)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	r := request(http.MethodGet, "/dashboard-data", "")
	r.AddCookie(cookies[0])
	auth := h.Authenticate(r)
	assert.Equal(t, http.StatusOK, auth.Code)
	assert.Equal(t, "admin", auth.Body)
}

func TestSession_LoginFailures(t *testing.T) {
	h := NewSessionHandler("admin", "reddit123", "secret", false)
	res := h.Login(httptest.NewRecorder(), request(http.MethodPost, "/api/login", `{"username":"admin","password":"nope"}`))
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	unset := NewSessionHandler("admin", "reddit123", "", false)
	res = unset.Login(httptest.NewRecorder(), request(http.MethodPost, "/api/login", `{"username":"admin","password":"reddit123"}`))
	assert.Equal(t, http.StatusInternalServerError, res.Code)
}

func TestSession_Authenticate(t *testing.T) {
	h := NewSessionHandler("admin", "reddit123", "secret", false)

	assert.Equal(t, http.StatusUnauthorized, h.Authenticate(request(http.MethodGet, "/", "")).Code)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "admin"}).SignedString([]byte("other"))
	require.NoError(t, err)
	r := request(http.MethodGet, "/", "")
	r.AddCookie(&http.Cookie{Name: "session", Value: forged})
	assert.Equal(t, http.StatusUnauthorized, h.Authenticate(r).Code)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	r = request(http.MethodGet, "/", "")
	r.AddCookie(&http.Cookie{Name: "session", Value: expired})
	assert.Equal(t, http.StatusUnauthorized, h.Authenticate(r).Code)
}

func TestSession_GetConfig(t *testing.T) {
	h := NewSessionHandler("admin", "reddit123", "secret", false)

	res := h.GetConfig(httptest.NewRecorder(), request(http.MethodGet, "/api/config", ""))

	body := res.Body.(models.FrontendConfigResponse)
	assert.Equal(t, "admin", body.Auth.Username)
	assert.Equal(t, "reddit123", body.Auth.Password)
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	res := NewHealthHandler(fakePinger{}).Health(httptest.NewRecorder(), request(http.MethodGet, "/healthz", ""))
	assert.Equal(t, http.StatusOK, res.Code)

	res = NewHealthHandler(fakePinger{err: errors.New("down")}).Health(httptest.NewRecorder(), request(http.MethodGet, "/healthz", ""))
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
}
