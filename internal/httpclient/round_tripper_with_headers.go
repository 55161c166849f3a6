package httpclient

import (
	"net/http"
	"time"
)

// RoundTripperWithHeaders adds default headers to every request. Headers
// already present on the request are left alone.
type RoundTripperWithHeaders struct {
	r      http.RoundTripper
	header http.Header
}

func NewRoundTripperWithHeaders(r http.RoundTripper, header http.Header) *RoundTripperWithHeaders {
	if r == nil {
		r = http.DefaultTransport
	}

	return &RoundTripperWithHeaders{
		r:      r,
		header: header,
	}
}

func (rt *RoundTripperWithHeaders) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	for k, vs := range rt.header {
		if r.Header.Get(k) != "" {
			continue
		}
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}

	return rt.r.RoundTrip(r)
}

// New returns a client sending header with every request.
func New(header map[string]string, timeout time.Duration) *http.Client {
	h := make(http.Header, len(header))
	for k, v := range header {
		h.Set(k, v)
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
	}

	return &http.Client{
		Transport: NewRoundTripperWithHeaders(transport, h),
		Timeout:   timeout,
	}
}
