package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type trackingBody struct {
	io.Reader
	read   int
	closed bool
}

func (b *trackingBody) Read(p []byte) (int, error) {
	n, err := b.Reader.Read(p)
	b.read += n
	return n, err
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

func TestDrainAndCloseRequest(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader(`{"weekStartDay": 0}`)}
	handler := DrainAndCloseRequest()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPatch, "/api/settings", nil)
	req.Body = body
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, body.closed)
	assert.Equal(t, len(`{"weekStartDay": 0}`), body.read)
}

func TestDrainAndCloseRequest_BigBody(t *testing.T) {
	body := &trackingBody{Reader: bytes.NewReader(make([]byte, 2*maxDrainBytes))}
	handler := DrainAndCloseRequest()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/import", nil)
	req.Body = body
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, body.closed)
	assert.Equal(t, maxDrainBytes, body.read)
}
