package common

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

const (
	OK                     int = 200
	BAD_REQUEST            int = 400
	UNAUTHORIZED           int = 401
	FORBIDDEN              int = 403
	DATA_NOT_FOUND         int = 404
	METHOD_NOT_ALLOWED     int = 405
	UNSUPPORTED_MEDIA_TYPE int = 415
	RATE_LIMIT_EXCEEDED    int = 429
	INTERNAL_SERVER_ERROR  int = 500
	BAD_GATEWAY            int = 502
	SERVICE_UNAVAILABLE    int = 503
	GATEWAY_TIMEOUT        int = 504
)

var messages = map[int]string{
	OK:                     "OK",
	BAD_REQUEST:            "Bad request",
	UNAUTHORIZED:           "Unauthorized",
	FORBIDDEN:              "Forbidden",
	DATA_NOT_FOUND:         "Data not found",
	METHOD_NOT_ALLOWED:     "Method not allowed",
	UNSUPPORTED_MEDIA_TYPE: "Unsupported media type",
	RATE_LIMIT_EXCEEDED:    "Rate limit exceeded",
	INTERNAL_SERVER_ERROR:  "Internal server error",
	BAD_GATEWAY:            "Bad gateway",
	SERVICE_UNAVAILABLE:    "Service unavailable",
	GATEWAY_TIMEOUT:        "Gateway timeout",
}

// StatusMessage returns a readable description of an HTTP status code
func StatusMessage(code int) string {
	if message, ok := messages[code]; ok {
		return message
	}
	return "Unknown status"
}

// StatusError is returned by the proxy for every response that is not a 200
type StatusError struct {
	Url  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s returned %d (%s)", e.Url, e.Code, StatusMessage(e.Code))
}

// Observer gets notified of the status code of every completed request
type Observer func(code int)

type Proxy struct {
	header      map[string]string
	client      *http.Client
	rateLimiter *RateLimiter
	observer    Observer
}

func NewProxy(header map[string]string, restrictions []Restriction, observer Observer) *Proxy {
	return &Proxy{header, &http.Client{}, NewRateLimiter(restrictions), observer}
}

// Make a GET request to the provided url, once the rate limiter allows it.
// Only a 200 response yields data; every other status becomes a *StatusError
func (proxy *Proxy) Request(ctx context.Context, url string) ([]byte, error) {

	// wait for the rate limiter
	if err := proxy.rateLimiter.Wait(ctx); err != nil {
		log.Warn().Err(err).Msg("Rate limiter did not allow the request")
		return nil, err
	}

	// Create the request and add the header
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request for url %s: %w", url, err)
	}
	for key, value := range proxy.header {
		request.Header.Set(key, value)
	}

	// Perform the request
	res, err := proxy.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("could not perform request to %s: %w", url, err)
	}
	defer res.Body.Close()

	log.Debug().Msgf("%d %s", res.StatusCode, StatusMessage(res.StatusCode))
	if proxy.observer != nil {
		proxy.observer(res.StatusCode)
	}

	if res.StatusCode != OK {
		return nil, &StatusError{Url: url, Code: res.StatusCode}
	}

	// Read the response
	stream, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("could not extract the response for url %s: %w", url, err)
	}
	return stream, nil
}
