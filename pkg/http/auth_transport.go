package http

import "net/http"

const authorizationHeader = "Authorization"

// authTransport puts the API key into every outbound request. The
// Authorization header gets the Bearer scheme; any other header carries
// the raw key.
type authTransport struct {
	header    string
	key       string
	transport http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.key == "" {
		return t.transport.RoundTrip(req)
	}

	reqCopy := req.Clone(req.Context())
	if http.CanonicalHeaderKey(t.header) == authorizationHeader {
		reqCopy.Header.Set(authorizationHeader, "Bearer "+t.key)
	} else {
		reqCopy.Header.Set(t.header, t.key)
	}

	return t.transport.RoundTrip(reqCopy)
}

// WithAPIKeyHeader sends key in the named header, e.g. "api-key" for Azure
// OpenAI. The header is redacted by the request logger.
func WithAPIKeyHeader(header, key string) HttpOpts {
	if header == "" {
		header = authorizationHeader
	}

	addTransport := WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &authTransport{
			header:    header,
			key:       key,
			transport: rt,
		}
	})

	return func(c *httpConfig) {
		c.secretHeaders = append(c.secretHeaders, header)
		addTransport(c)
	}
}
