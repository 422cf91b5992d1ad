package auth

import (
	"errors"
	"strings"

	"github.com/linkboard/linkboard/internal/model"
)

// Gate errors.
var (
	// ErrDomainNotAllowed indicates the email fails the organization
	// domain restriction.
	ErrDomainNotAllowed = errors.New("email domain not allowed")
)

// adminSubstring grants the admin role to any address containing it.
// Kept for compatibility with the accounts provisioned under this rule.
const adminSubstring = "admin"

// Gate evaluates the two coarse authorization checks: the admin gate
// (who may manage fixed links) and the domain gate (who may sign up at
// all). Gate decisions about the role are made once, at account
// creation, and then carried in the session claim.
type Gate struct {
	adminEmail    string
	allowedDomain string
}

// NewGate creates a Gate. adminEmail is the literal address always
// treated as administrator; allowedDomain is the organization suffix
// (without the leading "@") required for sign-up.
func NewGate(adminEmail, allowedDomain string) *Gate {
	return &Gate{
		adminEmail:    strings.ToLower(strings.TrimSpace(adminEmail)),
		allowedDomain: strings.ToLower(strings.TrimPrefix(strings.TrimSpace(allowedDomain), "@")),
	}
}

// IsAdminEmail reports whether the address qualifies for the admin
// role: an exact match on the configured admin literal, or any address
// containing the "admin" substring.
func (g *Gate) IsAdminEmail(email string) bool {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return false
	}
	return normalized == g.adminEmail || strings.Contains(normalized, adminSubstring)
}

// ResolveRole returns the role an account with this email receives.
func (g *Gate) ResolveRole(email string) model.Role {
	if g.IsAdminEmail(email) {
		return model.RoleAdmin
	}
	return model.RoleUser
}

// CheckDomain returns ErrDomainNotAllowed unless the email ends with
// the configured organization domain. The configured admin literal is
// exempt so the bootstrap administrator can live outside the
// organization domain. An empty configured domain disables the gate.
func (g *Gate) CheckDomain(email string) error {
	if g.allowedDomain == "" {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == g.adminEmail {
		return nil
	}
	if !strings.HasSuffix(normalized, "@"+g.allowedDomain) {
		return ErrDomainNotAllowed
	}
	return nil
}

// AllowedDomain returns the configured organization domain suffix.
func (g *Gate) AllowedDomain() string {
	return g.allowedDomain
}
