package twitter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common errors
var (
	// ErrMissingCredentials indicates the client lacks the credentials an endpoint needs
	ErrMissingCredentials = errors.New("missing credentials")
	// ErrInvalidTweet indicates a TweetRequest failed validation
	ErrInvalidTweet = errors.New("invalid tweet")
	// ErrNoPageAvailable is returned when paginating past either end
	ErrNoPageAvailable = errors.New("no more pages available")
	// ErrUnknownSpaceState indicates a space state outside live, scheduled and ended
	ErrUnknownSpaceState = errors.New("unknown space state")
	// ErrInvalidMessage indicates a direct message failed validation
	ErrInvalidMessage = errors.New("invalid message")
	// ErrInvalidEmbed indicates oEmbed options outside the accepted values
	ErrInvalidEmbed = errors.New("invalid embed options")
	// ErrInvalidSettings indicates an account settings update failed validation
	ErrInvalidSettings = errors.New("invalid account settings")
	// ErrUnknownGranularity indicates a geo granularity outside neighborhood, city, admin and country
	ErrUnknownGranularity = errors.New("unknown granularity")
	// ErrInvalidCoordinates indicates a latitude or longitude out of range
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// Status classes matched by APIError.Is
	ErrBadRequest      = errors.New("bad request")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrTooManyRequests = errors.New("too many requests")
	ErrFieldsTooLarge  = errors.New("request header fields too large")
	ErrServer          = errors.New("server error")

	// Resource problems reported inside a 200 response
	ErrResourceNotFound        = errors.New("resource not found")
	ErrUnauthorizedForResource = errors.New("not authorized for resource")
	ErrDisallowedResource      = errors.New("disallowed resource")
)

// Problem is a single entry of an "errors" array. v2 endpoints fill the
// problem fields, v1.1 endpoints fill Code and Message.
type Problem struct {
	Title        string `json:"title,omitempty"`
	Detail       string `json:"detail,omitempty"`
	Type         string `json:"type,omitempty"`
	Value        string `json:"value,omitempty"`
	ResourceType string `json:"resource_type,omitempty"`
	ResourceID   string `json:"resource_id,omitempty"`
	Parameter    string `json:"parameter,omitempty"`
	Message      string `json:"message,omitempty"`
	Code         int    `json:"code,omitempty"`
}

// APIError represents a non-2xx API response
type APIError struct {
	StatusCode int
	Title      string
	Detail     string
	Message    string
	Errors     []Problem
	RateLimit  RateLimit
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("twitter API error: status %d: %s", e.StatusCode, e.Message)
}

// Is matches the status class sentinel for the response code.
func (e *APIError) Is(target error) bool {
	sentinel := statusError(e.StatusCode)
	return sentinel != nil && sentinel == target
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsRateLimited checks if the request was rejected by rate limiting
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

func statusError(code int) error {
	switch {
	case code == http.StatusBadRequest:
		return ErrBadRequest
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusConflict:
		return ErrConflict
	case code == http.StatusTooManyRequests:
		return ErrTooManyRequests
	case code == http.StatusRequestHeaderFieldsTooLarge:
		return ErrFieldsTooLarge
	case code >= 500:
		return ErrServer
	}
	return nil
}

// newAPIError builds an APIError from a response body. The message is taken
// from the first entry of "errors", then "error" or "title", then "detail".
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Body:       string(body),
	}

	var payload struct {
		Errors []Problem `json:"errors"`
		Error  string    `json:"error"`
		Title  string    `json:"title"`
		Detail string    `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
		return apiErr
	}

	apiErr.Errors = payload.Errors
	apiErr.Title = payload.Title
	apiErr.Detail = payload.Detail

	switch {
	case len(payload.Errors) > 0 && payload.Errors[0].Message != "":
		apiErr.Message = payload.Errors[0].Message
	case len(payload.Errors) > 0 && payload.Errors[0].Detail != "":
		apiErr.Message = payload.Errors[0].Detail
	case payload.Error != "":
		apiErr.Message = payload.Error
	case payload.Title != "":
		apiErr.Message = payload.Title
		if payload.Detail != "" {
			apiErr.Message += ": " + payload.Detail
		}
	case payload.Detail != "":
		apiErr.Message = payload.Detail
	default:
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// ResourceError is returned when a successful response carries only errors,
// for example a lookup of a deleted tweet.
type ResourceError struct {
	Type         string
	Title        string
	Detail       string
	Value        string
	ResourceType string
	Parameter    string
}

func (e *ResourceError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("twitter: %s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("twitter: %s", e.Title)
}

// Is matches ErrResourceNotFound, ErrUnauthorizedForResource and
// ErrDisallowedResource by problem type.
func (e *ResourceError) Is(target error) bool {
	switch {
	case strings.HasSuffix(e.Type, "/resource-not-found"):
		return target == ErrResourceNotFound
	case strings.HasSuffix(e.Type, "/not-authorized-for-resource"):
		return target == ErrUnauthorizedForResource
	case strings.HasSuffix(e.Type, "/disallowed-resource"):
		return target == ErrDisallowedResource
	}
	return false
}

func (p Problem) resourceError() *ResourceError {
	title := p.Title
	if title == "" {
		title = p.Message
	}
	return &ResourceError{
		Type:         p.Type,
		Title:        title,
		Detail:       p.Detail,
		Value:        p.Value,
		ResourceType: p.ResourceType,
		Parameter:    p.Parameter,
	}
}

// IsNotFound reports whether err means the requested object does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrResourceNotFound)
}

// IsUnauthorized reports whether err is an authentication or permission failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrUnauthorizedForResource)
}

// IsRateLimited reports whether err is a 429 response.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrTooManyRequests)
}
