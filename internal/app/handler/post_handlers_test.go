package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/atinyakov/bearlink/internal/app/service"
	"github.com/atinyakov/bearlink/internal/middleware"
	"github.com/atinyakov/bearlink/internal/mocks"
	"github.com/atinyakov/bearlink/internal/models"
	"github.com/atinyakov/bearlink/internal/storage"
)

// withParam attaches a chi route parameter to req.
func withParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestPostHandler_CategoryLink(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockLinkServiceIface(ctrl)
	h := NewPost(mockService, zap.NewNop())

	tests := []struct {
		name         string
		body         string
		contentType  string
		setup        func()
		expectedCode int
	}{
		{
			name:        "created",
			body:        `{"url":"https://youtu.be/XYZ987"}`,
			contentType: "application/json",
			setup: func() {
				mockService.EXPECT().
					CreateCategoryLink(gomock.Any(), "user-1", "cat-1", models.CreateLinkRequest{URL: "https://youtu.be/XYZ987"}).
					Return(&models.Link{ID: "L1", URL: "https://youtu.be/XYZ987", Status: models.StatusPending}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:        "invalid url",
			body:        `{"url":"not a url"}`,
			contentType: "application/json",
			setup: func() {
				mockService.EXPECT().
					CreateCategoryLink(gomock.Any(), "user-1", "cat-1", gomock.Any()).
					Return(nil, service.ErrInvalidURL)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:        "unknown category",
			body:        `{"url":"https://example.com"}`,
			contentType: "application/json",
			setup: func() {
				mockService.EXPECT().
					CreateCategoryLink(gomock.Any(), "user-1", "cat-1", gomock.Any()).
					Return(nil, storage.ErrContainerNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:        "storage failure",
			body:        `{"url":"https://example.com"}`,
			contentType: "application/json",
			setup: func() {
				mockService.EXPECT().
					CreateCategoryLink(gomock.Any(), "user-1", "cat-1", gomock.Any()).
					Return(nil, errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:         "malformed json",
			body:         `{"url":`,
			contentType:  "application/json",
			setup:        func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "unknown field",
			body:         `{"link":"https://example.com"}`,
			contentType:  "application/json",
			setup:        func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "wrong content type",
			body:         `https://example.com`,
			contentType:  "text/plain",
			setup:        func() {},
			expectedCode: http.StatusUnsupportedMediaType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			req := httptest.NewRequest(http.MethodPost, "/api/categories/cat-1/links", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			req = withParam(middleware.InjectUserID(req, "user-1"), "categoryID", "cat-1")
			rr := httptest.NewRecorder()

			h.CategoryLink(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}

func TestPostHandler_CategoryLinkBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockLinkServiceIface(ctrl)
	h := NewPost(mockService, zap.NewNop())

	title := "Read later"
	mockService.EXPECT().
		CreateCategoryLink(gomock.Any(), "user-1", "cat-1", models.CreateLinkRequest{URL: "https://example.com", Title: title}).
		Return(&models.Link{ID: "L1", CategoryID: "cat-1", URL: "https://example.com", Title: &title, Status: models.StatusPending}, nil)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"url":"https://example.com","title":"Read later"}`))
	req = withParam(middleware.InjectUserID(req, "user-1"), "categoryID", "cat-1")
	rr := httptest.NewRecorder()

	h.CategoryLink(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "PENDING", got["preview_status"])
	assert.Equal(t, "Read later", got["title"])
}

func TestPostHandler_RoomLink(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockLinkServiceIface(ctrl)
	h := NewPost(mockService, zap.NewNop())

	mockService.EXPECT().
		CreateRoomLink(gomock.Any(), "user-1", "room-1", models.CreateLinkRequest{URL: "https://example.com"}).
		Return(&models.Link{ID: "L1", RoomID: "room-1", Status: models.StatusPending}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/rooms/room-1/links", bytes.NewBufferString(`{"url":"https://example.com"}`))
	req = withParam(middleware.InjectUserID(req, "user-1"), "roomID", "room-1")
	rr := httptest.NewRecorder()

	h.RoomLink(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestPostHandler_RequiresUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPost(mocks.NewMockLinkServiceIface(ctrl), zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"url":"https://example.com"}`))
	rr := httptest.NewRecorder()

	h.CategoryLink(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPostHandler_Containers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockLinkServiceIface(ctrl)
	h := NewPost(mockService, zap.NewNop())

	mockService.EXPECT().CreateCategory(gomock.Any(), "user-1", "reading").
		Return(&models.Category{ID: "cat-1", UserID: "user-1", Name: "reading"}, nil)
	mockService.EXPECT().CreateRoom(gomock.Any(), "user-1", "").
		Return(nil, service.ErrInvalidName)

	req := httptest.NewRequest(http.MethodPost, "/api/categories", bytes.NewBufferString(`{"name":"reading"}`))
	rr := httptest.NewRecorder()
	h.Category(rr, middleware.InjectUserID(req, "user-1"))
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"cat-1"`)

	req = httptest.NewRequest(http.MethodPost, "/api/rooms", bytes.NewBufferString(`{"name":""}`))
	rr = httptest.NewRecorder()
	h.Room(rr, middleware.InjectUserID(req, "user-1"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
