package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
)

var (
	ErrBookNotFound       = errors.New("book not found")
	ErrInvalidBookID      = errors.New("invalid book id")
	ErrInvalidBookRequest = errors.New("invalid book request body")
)

type (
	ContextKey        string
	missingFieldError string
	emptyFieldError   string
)

const (
	RequestIDPrefix         string     = "r"
	RequestIDContextKey     ContextKey = "request.id"
	RequestNumberContextKey ContextKey = "request.number"
	ConnContextKey          ContextKey = "http-conn"
)

func (m missingFieldError) Error() string {
	return string(m) + " is required"
}

func (e emptyFieldError) Error() string {
	return string(e) + " cannot be empty"
}

// IsValidationError reports whether err is caused by a bad client input.
func IsValidationError(err error) bool {
	var mf missingFieldError
	var ef emptyFieldError
	return errors.As(err, &mf) || errors.As(err, &ef) ||
		errors.Is(err, ErrInvalidBookRequest) || errors.Is(err, ErrInvalidBookID)
}

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val, ok := ctx.Value(contextKey).(string); ok {
		return val
	}
	return ""
}

// GetRequestNumberFromContext returns the request number set in
// the context. if not previously set then it returns 0.
func GetRequestNumberFromContext(ctx context.Context) uint64 {
	if val, ok := ctx.Value(RequestNumberContextKey).(uint64); ok {
		return val
	}
	return 0
}

// ParseBookID converts the id path parameter into a book id.
func ParseBookID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBookID, raw)
	}
	return id, nil
}

// DecodeBookRequestBody is a helper function to read the content of a book creation or update request.
func DecodeBookRequestBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return ErrInvalidBookRequest
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return ErrInvalidBookRequest
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBookRequest, err)
	}
	return nil
}

// ValidateNewBook is a helper function to check if the content of a book creation request is valid.
func ValidateNewBook(nb *NewBook) error {
	if nb.Title == nil || len(*nb.Title) == 0 {
		return missingFieldError("title")
	}

	if nb.Author == nil || len(*nb.Author) == 0 {
		return missingFieldError("author")
	}

	if nb.Available == nil {
		return missingFieldError("available")
	}

	return nil
}

// ValidateBookUpdate is a helper function to check if the content of a book update request is valid.
func ValidateBookUpdate(u *BookUpdate) error {
	if u.Title != nil && len(*u.Title) == 0 {
		return emptyFieldError("title")
	}

	if u.Author != nil && len(*u.Author) == 0 {
		return emptyFieldError("author")
	}

	return nil
}

// GetRequestSourceIP helps find the source IP of the caller.
func GetRequestSourceIP(r *http.Request) string {
	// Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip
	}

	// Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		ip = strings.TrimSpace(ip)
		netIP = net.ParseIP(ip)
		if netIP != nil {
			return ip
		}
	}

	// Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip
	}
	return ""
}

// IsAppRunningInDocker checks the existence of the .dockerenv
// file at the root directory and returns a boolean result.
func IsAppRunningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}

// SaveConnInContext is the hook used by the server under ConnContext.
// It sets the underlying connection into the request context for later
// use by ReadDeadline or WriteDeadline method on *CustomResponseWriter.
func SaveConnInContext(ctx context.Context, c net.Conn) context.Context {
	return context.WithValue(ctx, ConnContextKey, c)
}

// GetConnFromContext returns the connection saved into the context.
func GetConnFromContext(ctx context.Context) net.Conn {
	if c, ok := ctx.Value(ConnContextKey).(net.Conn); ok {
		return c
	}
	return nil
}
