package cache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// Entry is a stored response.
type Entry struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// NewEntry reads the whole response body and restores it, so the response
// can still be handed to the caller after being stored.
func NewEntry(resp *http.Response) (*Entry, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if err := resp.Body.Close(); err != nil {
		return nil, fmt.Errorf("close response body: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return &Entry{
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   body,
	}, nil
}

func (e *Entry) Clone() *Entry {
	return &Entry{
		Status: e.Status,
		Header: e.Header.Clone(),
		Body:   append([]byte(nil), e.Body...),
	}
}

// Response builds a fresh response for req from the stored entry.
func (e *Entry) Response(req *http.Request) *http.Response {
	header := e.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	header.Set("Content-Length", strconv.Itoa(len(e.Body)))
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status)),
		StatusCode:    e.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}
