// Package form implements the submission controllers sitting between
// the HTTP handlers and the entity stores. A controller validates the
// submitted fields, rejects a submit while a previous one is still in
// flight for the same user, and otherwise delegates to the store:
// create when the input carries no id, update when it does.
package form

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// IconMaxLen is the maximum icon length in runes. Icons are short
// glyphs (usually a single emoji), not free text.
const IconMaxLen = 2

// ErrSubmitInFlight is returned when a submit arrives while a previous
// submit on the same form is still running for the same user.
var ErrSubmitInFlight = errors.New("submit already in flight")

// Errors maps field names to validation messages.
type Errors map[string]string

// ValidationError carries field-level validation failures.
type ValidationError struct {
	Fields Errors
}

// Error returns the failing fields in a stable order.
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// validateURL checks that raw parses as an absolute http(s) URL.
// Returns an empty string when valid.
func validateURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "url is required"
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "url must be absolute"
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "url scheme must be http or https"
	}
	return ""
}

// validateIcon checks the rune-length cap on icons.
// Returns an empty string when valid.
func validateIcon(icon string) string {
	if utf8.RuneCountInString(icon) > IconMaxLen {
		return fmt.Sprintf("icon must be at most %d characters", IconMaxLen)
	}
	return ""
}

// busyGuard tracks in-flight submissions keyed by user.
type busyGuard struct {
	mu       sync.Mutex
	inFlight map[string]bool
}

func newBusyGuard() *busyGuard {
	return &busyGuard{inFlight: make(map[string]bool)}
}

// acquire marks the user's form busy. Returns ErrSubmitInFlight when a
// previous submit has not finished.
func (g *busyGuard) acquire(key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight[key] {
		return ErrSubmitInFlight
	}
	g.inFlight[key] = true
	return nil
}

func (g *busyGuard) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, key)
}
