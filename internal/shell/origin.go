package shell

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	_ http.RoundTripper = (*DirOrigin)(nil)
	_ http.RoundTripper = (*RemoteOrigin)(nil)
)

// DirOrigin serves the app assets from a local directory.
// Directories resolve to their index.html, without redirects.
type DirOrigin struct {
	root string
}

func NewDirOrigin(root string) (*DirOrigin, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("web dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("web dir [%s] is not a directory", root)
	}
	return &DirOrigin{
		root: root,
	}, nil
}

func (o *DirOrigin) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		defer req.Body.Close()
	}
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return newResponse(req, http.StatusMethodNotAllowed, http.Header{
			"Allow": []string{"GET, HEAD"},
		}, nil), nil
	}

	cleanPath := path.Clean("/" + req.URL.Path)
	fullPath := filepath.Join(o.root, filepath.FromSlash(cleanPath))
	info, err := os.Stat(fullPath)
	if err == nil && info.IsDir() {
		fullPath = filepath.Join(fullPath, "index.html")
		info, err = os.Stat(fullPath)
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newResponse(req, http.StatusNotFound, nil, []byte("404 page not found\n")), nil
		}
		return nil, fmt.Errorf("stat [%s]: %w", cleanPath, err)
	}
	if info.IsDir() {
		return newResponse(req, http.StatusNotFound, nil, []byte("404 page not found\n")), nil
	}

	body, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("read [%s]: %w", cleanPath, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(fullPath))
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	header := http.Header{
		"Content-Type":  []string{contentType},
		"Last-Modified": []string{info.ModTime().UTC().Format(http.TimeFormat)},
	}
	if req.Method == http.MethodHead {
		resp := newResponse(req, http.StatusOK, header, nil)
		resp.ContentLength = int64(len(body))
		resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
		return resp, nil
	}
	return newResponse(req, http.StatusOK, header, body), nil
}

// RemoteOrigin forwards requests to a remote base URL, keeping path and query.
type RemoteOrigin struct {
	base      *url.URL
	transport http.RoundTripper
}

// NewRemoteOrigin uses an otelhttp instrumented default transport when transport is nil.
func NewRemoteOrigin(baseURL string, transport http.RoundTripper) (*RemoteOrigin, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse origin url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("origin url [%s] must be http(s)", baseURL)
	}
	if transport == nil {
		transport = otelhttp.NewTransport(http.DefaultTransport)
	}
	return &RemoteOrigin{
		base:      base,
		transport: transport,
	}, nil
}

func (o *RemoteOrigin) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.RequestURI = ""
	out.URL.Scheme = o.base.Scheme
	out.URL.Host = o.base.Host
	out.URL.Path = strings.TrimSuffix(o.base.Path, "/") + "/" + strings.TrimPrefix(req.URL.Path, "/")
	out.URL.RawPath = ""
	out.Host = o.base.Host
	return o.transport.RoundTrip(out)
}

func newResponse(req *http.Request, status int, header http.Header, body []byte) *http.Response {
	if header == nil {
		header = make(http.Header)
	}
	if header.Get("Content-Type") == "" && body != nil {
		header.Set("Content-Type", "text/plain; charset=utf-8")
	}
	if body != nil {
		header.Set("Content-Length", strconv.Itoa(len(body)))
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
