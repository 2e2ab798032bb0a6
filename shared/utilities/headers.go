package utilities

import (
	"context"
	"net/http"
)

type forwardedHeadersKey struct{}

var defaultHeadersToForward = []string{
	"User-Agent",
	"X-Request-ID",
	"X-Forwarded-For",
	"X-Forwarded-Host",
	"X-Forwarded-Proto",
	"X-Real-IP",
	"Accept-Language",
}

// WithForwardedHeaders captures the headers of an incoming request that should travel
// with every downstream call made on its behalf.
func WithForwardedHeaders(ctx context.Context, r *http.Request, headersToForward ...string) context.Context {
	allHeaders := make([]string, len(defaultHeadersToForward))
	copy(allHeaders, defaultHeadersToForward)
	allHeaders = append(allHeaders, headersToForward...)

	forwarded := http.Header{}
	for _, header := range allHeaders {
		if forwarded.Get(header) != "" {
			continue
		}
		for _, v := range r.Header.Values(header) {
			forwarded.Add(header, v)
		}
	}

	return context.WithValue(ctx, forwardedHeadersKey{}, forwarded)
}

// ApplyForwardedHeaders copies the headers captured by WithForwardedHeaders onto req
// without overriding headers already set on it.
func ApplyForwardedHeaders(ctx context.Context, req *http.Request) {
	forwarded, ok := ctx.Value(forwardedHeadersKey{}).(http.Header)
	if !ok {
		return
	}

	for header, values := range forwarded {
		if req.Header.Get(header) != "" {
			continue
		}
		for _, v := range values {
			req.Header.Add(header, v)
		}
	}
}
