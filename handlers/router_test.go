package handlers_test

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vectormag-cms/config"
	"vectormag-cms/editor"
	"vectormag-cms/handlers"
	"vectormag-cms/helper"
	"vectormag-cms/models"
	"vectormag-cms/services"
)

type envelope struct {
	Code        int             `json:"code"`
	CodeType    string          `json:"code_type"`
	CodeMessage json.RawMessage `json:"code_message"`
	Data        json.RawMessage `json:"data"`
}

type testServer struct {
	router     *gin.Engine
	auth       *mockAuthService
	articles   *mockArticleService
	categories *mockCategoryService
	media      *mockMediaService
	analytics  *mockAnalyticsService
}

var writerActor = services.Actor{UserID: 3, Role: models.RoleWriter}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := &testServer{
		auth:       new(mockAuthService),
		articles:   new(mockArticleService),
		categories: new(mockCategoryService),
		media:      new(mockMediaService),
		analytics:  new(mockAnalyticsService),
	}
	ts.auth.On("ParseToken", "writer-token").Return(&services.Claims{UserID: 3, Username: "w", Role: "writer"}, nil)
	ts.auth.On("ParseToken", "editor-token").Return(&services.Claims{UserID: 1, Username: "e", Role: "editor"}, nil)
	ts.auth.On("ParseToken", mock.Anything).Return(nil, services.ErrUnauthorized)

	ts.router = handlers.NewRouter(handlers.Services{
		Auth:       ts.auth,
		Articles:   ts.articles,
		Categories: ts.categories,
		Media:      ts.media,
		Analytics:  ts.analytics,
	}, helper.NewHTTPHelper(zerolog.Nop()), config.ServerConfig{AllowedOrigins: []string{"*"}}, config.UploadConfig{
		Dir: t.TempDir(), BaseURL: "/uploads", MaxSizeMB: 1,
	})
	return ts
}

func (ts *testServer) do(method, path, token string, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/api/v1/articles", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodGet, "/api/v1/articles", "bogus", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unAuthorized", decode(t, w).CodeType)
}

func TestCreateArticle_Validation(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/api/v1/articles", "writer-token", `{"subtitle":"no title"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validationError", decode(t, w).CodeType)
	ts.articles.AssertNotCalled(t, "CreateArticle", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateArticle(t *testing.T) {
	ts := newTestServer(t)
	ts.articles.On("CreateArticle", mock.Anything, mock.MatchedBy(func(r models.CreateArticleRequest) bool {
		return r.Title == "Hello" && strings.Contains(string(r.Content), "paragraph")
	}), writerActor).Return(&models.ArticleDetail{Article: models.Article{ID: 1, Title: "Hello", Slug: "hello"}}, nil)

	w := ts.do(http.MethodPost, "/api/v1/articles", "writer-token",
		`{"title":"Hello","content":{"blocks":[{"type":"paragraph","data":{"text":"hi"}}]}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var detail models.ArticleDetail
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &detail))
	assert.Equal(t, "hello", detail.Slug)
}

func TestGetArticle_ErrorStatuses(t *testing.T) {
	ts := newTestServer(t)
	ts.articles.On("GetArticle", mock.Anything, uint(1), writerActor).Return(nil, services.ErrForbidden)
	ts.articles.On("GetArticle", mock.Anything, uint(2), writerActor).Return(nil, fmt.Errorf("article %w", services.ErrNotFound))

	assert.Equal(t, http.StatusForbidden, ts.do(http.MethodGet, "/api/v1/articles/1", "writer-token", "").Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/api/v1/articles/2", "writer-token", "").Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodGet, "/api/v1/articles/abc", "writer-token", "").Code)
}

func TestApplyBlockOps(t *testing.T) {
	ts := newTestServer(t)
	ts.articles.On("ApplyBlockOps", mock.Anything, uint(1), mock.MatchedBy(func(ops []editor.Op) bool {
		return len(ops) == 2 && ops[0].Op == editor.OpMove && ops[1].Block != nil
	}), writerActor).Return(&models.ArticleDetail{Article: models.Article{ID: 1}}, nil)
	ts.articles.On("ApplyBlockOps", mock.Anything, uint(2), mock.Anything, writerActor).
		Return(nil, &editor.OpError{Position: 0, Op: editor.OpRemove, Err: editor.ErrOutOfRange})

	w := ts.do(http.MethodPost, "/api/v1/articles/1/blocks", "writer-token",
		`{"ops":[{"op":"move","from":0,"to":1},{"op":"insert","index":0,"block":{"type":"delimiter","data":{}}}]}`)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(http.MethodPost, "/api/v1/articles/2/blocks", "writer-token", `{"ops":[{"op":"remove","index":7}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "out of range")

	w = ts.do(http.MethodPost, "/api/v1/articles/2/blocks", "writer-token", `{"ops":[{"op":"explode"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validationError", decode(t, w).CodeType)

	w = ts.do(http.MethodPost, "/api/v1/articles/2/blocks", "writer-token", `{"ops":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewArticle(t *testing.T) {
	ts := newTestServer(t)
	ts.articles.On("GetArticle", mock.Anything, uint(1), writerActor).
		Return(&models.ArticleDetail{HTML: "<p>hi</p>"}, nil)
	ts.articles.On("GetArticle", mock.Anything, uint(2), writerActor).
		Return(&models.ArticleDetail{ContentError: services.ErrContentUnavailable.Error()}, nil)

	w := ts.do(http.MethodGet, "/api/v1/articles/1/preview", "writer-token", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "<p>hi</p>", w.Body.String())

	w = ts.do(http.MethodGet, "/api/v1/articles/2/preview", "writer-token", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestExportArticle(t *testing.T) {
	ts := newTestServer(t)
	ts.articles.On("ExportArticle", mock.Anything, uint(1), writerActor).
		Return([]byte("+++\ntitle = 'x'\n+++\n"), "x.md", nil)

	w := ts.do(http.MethodGet, "/api/v1/articles/1/export", "writer-token", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="x.md"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "+++"))
}

func TestRestoreRevision_BadNumber(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(http.MethodPost, "/api/v1/articles/1/revisions/zero/restore", "writer-token", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicArticles(t *testing.T) {
	ts := newTestServer(t)
	ts.articles.On("GetArticles", mock.Anything, mock.Anything, services.Actor{}, true).
		Return([]models.Article{{ID: 1}}, int64(1), nil)
	ts.articles.On("GetPublishedArticle", mock.Anything, "missing").
		Return(nil, fmt.Errorf("article %w", services.ErrNotFound))

	w := ts.do(http.MethodGet, "/api/v1/public/articles?page=1&limit=5", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Articles   []models.Article       `json:"articles"`
		Pagination map[string]interface{} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Len(t, data.Articles, 1)
	assert.EqualValues(t, 1, data.Pagination["total_records"])

	w = ts.do(http.MethodGet, "/api/v1/public/articles/missing", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCategories_RequireManager(t *testing.T) {
	ts := newTestServer(t)
	ts.categories.On("CreateCategory", mock.Anything, models.CreateCategoryRequest{Name: "Essays"}).
		Return(&models.Category{ID: 1, Name: "Essays", Slug: "essays"}, nil)

	w := ts.do(http.MethodPost, "/api/v1/categories", "writer-token", `{"name":"Essays"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/categories", "editor-token", `{"name":"Essays"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestTrack(t *testing.T) {
	ts := newTestServer(t)
	ts.analytics.On("Track", mock.MatchedBy(func(v services.Visit) bool {
		return v.Path == "/articles/x" && v.ClientIP != "" && v.UserAgent == "reader/1.0"
	})).Return(true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/track", strings.NewReader(`{"path":"/articles/x","event_type":"view"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "reader/1.0")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/public/track", "", `{"path":"/x","event_type":"click"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboard(t *testing.T) {
	ts := newTestServer(t)
	ts.analytics.On("Dashboard", mock.Anything, 7).Return(&models.DashboardStats{Period: "7d"}, nil)

	w := ts.do(http.MethodGet, "/api/v1/analytics/dashboard?days=7", "editor-token", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"7d"`)

	w = ts.do(http.MethodGet, "/api/v1/analytics/dashboard?days=7", "writer-token", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUploadImage(t *testing.T) {
	ts := newTestServer(t)
	ts.media.On("Upload", mock.Anything, "cover.png", "pixels").
		Return(&models.UploadResponse{Success: 1, File: models.UploadFile{URL: "/uploads/cover-1.png"}}, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "cover.png")
	require.NoError(t, err)
	part.Write([]byte("pixels"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer writer-token")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "/uploads/cover-1.png")

	w = ts.do(http.MethodPost, "/api/v1/uploads", "writer-token", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreview_Post(t *testing.T) {
	ts := newTestServer(t)
	ts.articles.On("Preview", mock.Anything).Return(nil, errors.New("unused")).Maybe()

	w := ts.do(http.MethodPost, "/api/v1/preview", "writer-token", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLivePreview(t *testing.T) {
	ts := newTestServer(t)
	ts.articles.On("Preview", []byte(`{"blocks":[]}`)).
		Return(&models.PreviewResponse{HTML: "", Issues: []string{}}, nil)
	ts.articles.On("Preview", []byte(`nope`)).
		Return(nil, errors.New("malformed document"))

	server := httptest.NewServer(ts.router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/preview/live?token=writer-token"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	read := func() map[string]json.RawMessage {
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	}

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"blocks":[]}`)))
	assert.Contains(t, read(), "preview")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`nope`)))
	msg := read()
	assert.JSONEq(t, `"malformed document"`, string(msg["error"]))
}

func TestLivePreview_RequiresToken(t *testing.T) {
	ts := newTestServer(t)
	server := httptest.NewServer(ts.router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/preview/live"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
