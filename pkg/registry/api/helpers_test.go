package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/registrylabs/content-registry/pkg/registry"
	"github.com/registrylabs/content-registry/pkg/registry/auth"
	repomemory "github.com/registrylabs/content-registry/pkg/registry/repo/memory"
	storagememory "github.com/registrylabs/content-registry/pkg/registry/storage/memory"
)

type testEnv struct {
	router  http.Handler
	service registry.Service
	tokens  *auth.TokenService
	store   *storagememory.Backend
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := storagememory.New()
	svc, err := registry.New(
		registry.WithRepository(repomemory.New()),
		registry.WithBlobStore(store),
	)
	require.NoError(t, err)

	tokens := auth.NewTokenService("test-secret", time.Hour)

	router := NewRouter(Config{
		Service:   svc,
		Tokens:    tokens,
		BlobStore: store,
	})

	return &testEnv{router: router, service: svc, tokens: tokens, store: store}
}

// registerUser creates an account directly through the service and returns
// the user with a valid token.
func (e *testEnv) registerUser(t *testing.T, email, username string) (*registry.User, string) {
	t.Helper()

	user, err := e.service.RegisterUser(context.Background(), registry.RegisterUserRequest{
		Email:    email,
		Username: username,
		Password: "secret123",
	})
	require.NoError(t, err)

	token, err := e.tokens.Issue(user.ID)
	require.NoError(t, err)

	return user, token
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// multipartBody builds a multipart form with string fields and an optional
// file part named "file".
func multipartBody(t *testing.T, fields map[string]string, fileName string, fileBytes []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(fileBytes)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func (e *testEnv) doMultipart(t *testing.T, method, path, token string, fields map[string]string, fileName string, fileBytes []byte) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, fields, fileName, fileBytes)

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
