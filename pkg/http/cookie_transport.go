package http

import "net/http"

type cookieTransport struct {
	cookie    *http.Cookie
	transport http.RoundTripper
}

func (t *cookieTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())
	reqCopy.AddCookie(t.cookie)

	return t.transport.RoundTrip(reqCopy)
}

// WithCookie attaches a session cookie to every outbound request. An empty
// value leaves requests untouched.
func WithCookie(name, value string) HttpOpts {
	if value == "" {
		return func(*httpConfig) {}
	}
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &cookieTransport{
			cookie:    &http.Cookie{Name: name, Value: value},
			transport: rt,
		}
	})
}
