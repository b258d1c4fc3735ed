package blog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/neuralspace/internal/cache"
	"github.com/2beens/neuralspace/internal/telemetry/metrics"
)

var testNow = time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)

func getTestBlogRepo(t *testing.T) *TestRepo {
	t.Helper()

	blogRepo := NewTestRepo()
	blogRepo.Now = func() time.Time { return testNow }
	for i := 0; i < 5; i++ {
		summary := fmt.Sprintf("summary %d", i)
		require.NoError(t, blogRepo.Create(context.Background(), &Blog{
			Title:     fmt.Sprintf("blog%dtitle", i),
			Slug:      fmt.Sprintf("blog-%d", i),
			Content:   fmt.Sprintf("blog %d content", i),
			Summary:   &summary,
			Published: i%2 == 0,
			PositionX: float64(i),
			CreatedAt: testNow.Add(time.Minute * time.Duration(i)),
		}))
	}
	return blogRepo
}

func newTestRouter(t *testing.T) (*mux.Router, *TestRepo, *metrics.Manager) {
	t.Helper()
	blogRepo := getTestBlogRepo(t)
	metricsManager := metrics.NewTestManager()

	r := mux.NewRouter()
	handler := NewBlogHandler(blogRepo, cache.NewContentCache(0, 0, nil), metricsManager)
	handler.Now = func() time.Time { return testNow }
	handler.SetupRoutes(r.PathPrefix("/api").Subrouter())
	handler.SetupAdminRoutes(r.PathPrefix("/api/admin").Subrouter())
	return r, blogRepo, metricsManager
}

func doRequest(t *testing.T, r *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestNewBlogHandler(t *testing.T) {
	r, _, _ := newTestRouter(t)

	for caseName, route := range map[string]struct {
		name   string
		path   string
		method string
	}{
		"blogs":                  {name: "blogs", path: "/api/blogs", method: "GET"},
		"blog-by-slug":           {name: "blog-by-slug", path: "/api/blogs/blog-1", method: "GET"},
		"admin-blogs":            {name: "admin-blogs", path: "/api/admin/blogs", method: "GET"},
		"admin-blogs-options":    {name: "admin-blogs", path: "/api/admin/blogs", method: "OPTIONS"},
		"admin-new-blog":         {name: "admin-new-blog", path: "/api/admin/blogs", method: "POST"},
		"admin-update-blog":      {name: "admin-update-blog", path: "/api/admin/blogs/1", method: "PUT"},
		"admin-update-blog-opts": {name: "admin-update-blog", path: "/api/admin/blogs/1", method: "OPTIONS"},
		"admin-delete-blog":      {name: "admin-delete-blog", path: "/api/admin/blogs/1", method: "DELETE"},
	} {
		t.Run(caseName, func(t *testing.T) {
			t.Parallel()
			req, err := http.NewRequest(route.method, route.path, nil)
			require.NoError(t, err)

			routeMatch := &mux.RouteMatch{}
			route := r.Get(route.name)
			require.NotNil(t, route)
			isMatch := route.Match(req, routeMatch)
			assert.True(t, isMatch, caseName)
		})
	}
}

func TestBlogHandler_handleAll(t *testing.T) {
	r, blogRepo, _ := newTestRouter(t)

	rr := doRequest(t, r, "GET", "/api/blogs", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var blogPosts []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &blogPosts))

	// drafts included, newest first, public fields only
	require.Len(t, blogPosts, blogRepo.PostsCount())
	assert.Equal(t, "blog-4", blogPosts[0]["slug"])
	assert.Equal(t, "blog-0", blogPosts[4]["slug"])
	for _, post := range blogPosts {
		assert.NotContains(t, post, "published")
		assert.NotContains(t, post, "author")
		assert.NotEmpty(t, post["content"])
		assert.NotEmpty(t, post["summary"])
	}
}

func TestBlogHandler_handleBySlug(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rr := doRequest(t, r, "GET", "/api/blogs/blog-3", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var post Public
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &post))
	assert.Equal(t, "blog3title", post.Title)
	assert.Equal(t, 3.0, post.PositionX)

	rr = doRequest(t, r, "GET", "/api/blogs/nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"detail": "Blog with slug 'nope' not found"}`, rr.Body.String())
}

func TestBlogHandler_handleNewBlog(t *testing.T) {
	r, blogRepo, metricsManager := newTestRouter(t)

	rr := doRequest(t, r, "POST", "/api/admin/blogs", `{
		"title": "Backprop by hand",
		"slug": "backprop",
		"content": "gradients all the way down",
		"tags": ["ml", "math"],
		"position_x": 1, "position_y": 2, "position_z": 3
	}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created Admin
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, DefaultAuthor, created.Author)
	assert.False(t, created.Published)
	assert.Nil(t, created.PublishedAt)
	assert.Equal(t, []string{"ml", "math"}, []string(created.Tags))
	assert.Equal(t, 6, blogRepo.PostsCount())
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterContentWrites.WithLabelValues("blog", "create")))

	rr = doRequest(t, r, "POST", "/api/admin/blogs", `{
		"title": "dup", "slug": "backprop", "content": "x",
		"position_x": 0, "position_y": 0, "position_z": 0
	}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.JSONEq(t, `{"detail": "Blog with slug 'backprop' already exists"}`, rr.Body.String())

	rr = doRequest(t, r, "POST", "/api/admin/blogs", `{"title": "no body", "slug": "x"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), `"content":"required"`)

	rr = doRequest(t, r, "POST", "/api/admin/blogs", `[]`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestBlogHandler_handleNewBlog_Published(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rr := doRequest(t, r, "POST", "/api/admin/blogs", `{
		"title": "Live", "slug": "live", "content": "now", "published": true, "author": "Guest",
		"position_x": 0, "position_y": 0, "position_z": 0
	}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created Admin
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.True(t, created.Published)
	assert.Equal(t, "Guest", created.Author)
	require.NotNil(t, created.PublishedAt)
	assert.True(t, testNow.Equal(*created.PublishedAt))
}

func TestBlogHandler_handleUpdateBlog(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rr := doRequest(t, r, "PUT", "/api/admin/blogs/2", `{"published": true, "summary": ""}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated Admin
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.True(t, updated.Published)
	assert.Nil(t, updated.Summary)
	assert.Equal(t, "blog1title", updated.Title)
	require.NotNil(t, updated.PublishedAt)

	rr = doRequest(t, r, "PUT", "/api/admin/blogs/2", `{"slug": "blog-0"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doRequest(t, r, "PUT", "/api/admin/blogs/77", `{"title": "x"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"detail": "Blog with ID 77 not found"}`, rr.Body.String())

	rr = doRequest(t, r, "PUT", "/api/admin/blogs/2", `{"title": ""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestBlogHandler_handleDeleteBlog(t *testing.T) {
	r, blogRepo, _ := newTestRouter(t)

	// warm the public cache first
	require.Equal(t, http.StatusOK, doRequest(t, r, "GET", "/api/blogs/blog-0", "").Code)

	rr := doRequest(t, r, "DELETE", "/api/admin/blogs/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success": true, "message": "Blog 'blog-0' deleted successfully"}`, rr.Body.String())
	assert.Equal(t, 4, blogRepo.PostsCount())

	rr = doRequest(t, r, "GET", "/api/blogs/blog-0", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, r, "DELETE", "/api/admin/blogs/1", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestBlogHandler_StoreDown(t *testing.T) {
	r, blogRepo, _ := newTestRouter(t)
	blogRepo.Err = fmt.Errorf("dial tcp 10.0.0.5:5432: connect: connection refused")

	for _, path := range []string{"/api/blogs", "/api/blogs/blog-1", "/api/admin/blogs"} {
		rr := doRequest(t, r, "GET", path, "")
		assert.Equal(t, http.StatusInternalServerError, rr.Code, path)
		assert.JSONEq(t, `{"detail": "internal server error"}`, rr.Body.String())
	}
}
