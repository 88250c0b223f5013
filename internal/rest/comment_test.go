package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/shop-comments/domain"
	"github.com/Guyuepp/shop-comments/internal/repository/memory"
	"github.com/Guyuepp/shop-comments/internal/rest"
	"github.com/Guyuepp/shop-comments/internal/rest/response"
	"github.com/Guyuepp/shop-comments/internal/usecase/comment"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, svc domain.CommentUsecase) *gin.Engine {
	t.Helper()
	log, _ := test.NewNullLogger()
	r := gin.New()
	rest.NewCommentHandler(svc, log).Register(r)
	return r
}

func newMemoryRouter(t *testing.T) *gin.Engine {
	t.Helper()
	log, _ := test.NewNullLogger()
	return newRouter(t, comment.NewService(memory.NewCommentRepository(), log))
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func create(t *testing.T, r http.Handler, productID string, body map[string]any) response.Comment {
	t.Helper()
	rec := do(t, r, http.MethodPost, "/products/"+productID+"/comments", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[response.Comment](t, rec)
}

func TestCreateAndGetComment(t *testing.T) {
	r := newMemoryRouter(t)

	created := create(t, r, "p1", map[string]any{"userId": "u1", "username": "alice", "content": "Great", "rating": 5})
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "p1", created.ProductID)
	require.NotNil(t, created.Rating)
	assert.Equal(t, 5, *created.Rating)
	assert.Nil(t, created.ParentID)

	rec := do(t, r, http.MethodGet, "/comments/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[response.Comment](t, rec)
	assert.Equal(t, created, got)
}

func TestCreateComment_BadInput(t *testing.T) {
	r := newMemoryRouter(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing content", body: map[string]any{"userId": "u1"}},
		{name: "blank content", body: map[string]any{"userId": "u1", "content": "   "}},
		{name: "missing user", body: map[string]any{"content": "hi"}},
		{name: "rating out of range", body: map[string]any{"userId": "u1", "content": "hi", "rating": 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, http.MethodPost, "/products/p1/comments", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[rest.ResponseError](t, rec).Error)
		})
	}
}

func TestCreateReply_MissingParent(t *testing.T) {
	r := newMemoryRouter(t)

	rec := do(t, r, http.MethodPost, "/products/p1/comments", map[string]any{"userId": "u1", "content": "hi", "parentId": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListProductComments(t *testing.T) {
	r := newMemoryRouter(t)
	for range 15 {
		create(t, r, "p1", map[string]any{"userId": "u1", "content": "hi"})
	}

	rec := do(t, r, http.MethodGet, "/products/p1/comments?page=2&pageSize=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[response.CommentPage](t, rec)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, int64(15), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrevious)

	rec = do(t, r, http.MethodGet, "/products/empty/comments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}

func TestListProductComments_BadPagination(t *testing.T) {
	r := newMemoryRouter(t)

	for _, query := range []string{"page=abc", "pageSize=0", "pageSize=101", "sortBy=username", "sortOrder=up"} {
		rec := do(t, r, http.MethodGet, "/products/p1/comments?"+query, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestRepliesAndCount(t *testing.T) {
	r := newMemoryRouter(t)
	parent := create(t, r, "p1", map[string]any{"userId": "u1", "content": "question"})
	reply := create(t, r, "p1", map[string]any{"userId": "u2", "content": "answer", "parentId": parent.ID})
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, parent.ID, *reply.ParentID)

	rec := do(t, r, http.MethodGet, "/comments/"+parent.ID+"/replies", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[response.CommentPage](t, rec)
	require.Len(t, page.Items, 1)
	assert.Equal(t, reply.ID, page.Items[0].ID)

	rec = do(t, r, http.MethodGet, "/comments/"+parent.ID+"/replies/count", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/products/p1/comments", nil)
	assert.Equal(t, int64(1), decode[response.CommentPage](t, rec).Total)

	rec = do(t, r, http.MethodPost, "/products/p1/comments", map[string]any{"userId": "u2", "content": "rated reply", "parentId": parent.ID, "rating": 3})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetThread(t *testing.T) {
	r := newMemoryRouter(t)
	parent := create(t, r, "p1", map[string]any{"userId": "u1", "content": "question"})
	reply := create(t, r, "p1", map[string]any{"userId": "u2", "content": "answer", "parentId": parent.ID})
	rec := do(t, r, http.MethodPost, "/comments/"+parent.ID+"/like", map[string]any{"userId": "u3"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodGet, "/comments/"+parent.ID+"/thread?pageSize=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	thread := decode[response.CommentThread](t, rec)
	assert.Equal(t, parent.ID, thread.Comment.ID)
	require.Len(t, thread.Replies.Items, 1)
	assert.Equal(t, reply.ID, thread.Replies.Items[0].ID)
	assert.Equal(t, 5, thread.Replies.PageSize)
	assert.Equal(t, int64(1), thread.ReplyCount)
	assert.Equal(t, []string{"u3"}, thread.Likes)

	rec = do(t, r, http.MethodGet, "/comments/missing/thread", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLikeUnlike(t *testing.T) {
	r := newMemoryRouter(t)
	c := create(t, r, "p1", map[string]any{"userId": "u1", "content": "like me"})

	for range 2 {
		rec := do(t, r, http.MethodPost, "/comments/"+c.ID+"/like", map[string]any{"userId": "u2"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Comment liked"}`, rec.Body.String())
	}

	rec := do(t, r, http.MethodGet, "/comments/"+c.ID, nil)
	assert.Equal(t, int64(1), decode[response.Comment](t, rec).LikeCount)

	rec = do(t, r, http.MethodGet, "/comments/"+c.ID+"/likes", nil)
	assert.JSONEq(t, `{"likes":["u2"]}`, rec.Body.String())

	rec = do(t, r, http.MethodPost, "/comments/"+c.ID+"/unlike", map[string]any{"userId": "u2"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Comment unliked"}`, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/comments/"+c.ID+"/likes", nil)
	assert.JSONEq(t, `{"likes":[]}`, rec.Body.String())

	rec = do(t, r, http.MethodPost, "/comments/missing/like", map[string]any{"userId": "u2"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodPost, "/comments/"+c.ID+"/like", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateAndDelete(t *testing.T) {
	r := newMemoryRouter(t)
	c := create(t, r, "p1", map[string]any{"userId": "u1", "content": "first", "rating": 2})

	rec := do(t, r, http.MethodPut, "/comments/"+c.ID, map[string]any{"userId": "u2", "content": "hijack"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, r, http.MethodPut, "/comments/"+c.ID, map[string]any{"userId": "u1", "rating": 4})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[response.Comment](t, rec)
	assert.Equal(t, "first", updated.Content)
	require.NotNil(t, updated.Rating)
	assert.Equal(t, 4, *updated.Rating)

	rec = do(t, r, http.MethodGet, "/products/p1/rating", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"average":4,"count":1}`, rec.Body.String())

	rec = do(t, r, http.MethodDelete, "/comments/"+c.ID+"?userId=u2", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, r, http.MethodDelete, "/comments/"+c.ID+"?userId=u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Comment deleted successfully"}`, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/comments/"+c.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserComments(t *testing.T) {
	r := newMemoryRouter(t)
	create(t, r, "p1", map[string]any{"userId": "u1", "content": "a"})
	create(t, r, "p2", map[string]any{"userId": "u1", "content": "b"})
	create(t, r, "p2", map[string]any{"userId": "u2", "content": "c"})

	rec := do(t, r, http.MethodGet, "/users/u1/comments?sortOrder=asc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[response.CommentPage](t, rec)
	assert.Equal(t, int64(2), page.Total)
}

type failingUsecase struct {
	domain.CommentUsecase
}

func (failingUsecase) GetComment(context.Context, string) (*domain.Comment, error) {
	return nil, domain.NewRepositoryError("find comment", assert.AnError)
}

func TestInternalErrorIsHidden(t *testing.T) {
	r := newRouter(t, failingUsecase{})

	rec := do(t, r, http.MethodGet, "/comments/c1", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, domain.ErrInternalServerError.Error(), decode[rest.ResponseError](t, rec).Error)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}
