package shell

import (
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var _ http.RoundTripper = (*Transport)(nil)

// Transport lets http clients fetch through the offline shell.
type Transport struct {
	registration *Registration
}

func NewTransport(registration *Registration) *Transport {
	return &Transport{
		registration: registration,
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.registration.Fetch(req)
}

// ServeShell serves app requests arriving at the server through the offline shell.
func (t *Transport) ServeShell(w http.ResponseWriter, r *http.Request) {
	out := r.Clone(r.Context())
	out.RequestURI = ""
	// requests reaching this server are same origin by definition
	out.URL.Scheme = t.registration.opts.Origin.Scheme
	out.URL.Host = t.registration.opts.Origin.Host
	out.Host = t.registration.opts.Origin.Host

	resp, err := t.registration.Fetch(out)
	if err != nil {
		log.Errorf("shell fetch [%s %s]: %s", r.Method, r.URL.Path, err)
		http.Error(w, "shell fetch failed", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	header := w.Header()
	for k, values := range resp.Header {
		for _, v := range values {
			header.Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Debugf("shell write response [%s]: %s", r.URL.Path, err)
	}
}
