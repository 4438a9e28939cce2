package contracts

import (
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// EndpointContract describes a discoverable consumer endpoint. Attaching a
// contract at registration time lets other in-process components locate
// consumers by address pattern and version constraint without hard-coding
// addresses.
type EndpointContract struct {
	// Identity
	Address     string `json:"address"` // e.g., "order.validate"
	Version     string `json:"version"` // e.g., "1.0.0"
	Description string `json:"description,omitempty"`

	// Message types handled and produced
	InputType  string `json:"inputType,omitempty"`  // e.g., "ValidateOrderRequest"
	OutputType string `json:"outputType,omitempty"` // e.g., "ValidateOrderResponse"

	// Metadata
	RegisteredAt time.Time `json:"registeredAt"`
}

// IsValid checks if the endpoint contract carries the required identity.
func (c *EndpointContract) IsValid() bool {
	return c.Address != "" && c.Version != ""
}

// Matches checks if the contract matches an address pattern and a version
// constraint. Empty pattern or version matches everything.
func (c *EndpointContract) Matches(pattern string, version string) bool {
	if pattern != "" && !c.matchesPattern(pattern) {
		return false
	}
	if version != "" && !c.matchesVersion(version) {
		return false
	}
	return true
}

// matchesPattern checks if the address matches the given pattern. Patterns
// support "*" wildcards, e.g. "order.*".
func (c *EndpointContract) matchesPattern(pattern string) bool {
	if pattern == c.Address {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}

	// Convert pattern to an anchored regex, escaping everything except *
	regexPattern := regexp.QuoteMeta(pattern)
	regexPattern = strings.ReplaceAll(regexPattern, "\\*", ".*")
	regexPattern = "^" + regexPattern + "$"

	matched, err := regexp.MatchString(regexPattern, c.Address)
	return err == nil && matched
}

// matchesVersion checks if the contract version satisfies the requested
// version. Accepts exact versions ("1.0.0"), simple wildcards ("1.x"), and
// semver constraints ("^1.2", ">=1.0.0 <2.0.0").
func (c *EndpointContract) matchesVersion(requested string) bool {
	if c.Version == requested {
		return true
	}

	// Simple wildcards like "1.x" or "2.x.x"
	if strings.Contains(requested, "x") {
		pattern := strings.ReplaceAll(requested, ".", "\\.")
		pattern = strings.ReplaceAll(pattern, "x", "[0-9]+")
		pattern = "^" + pattern + "$"
		if matched, err := regexp.MatchString(pattern, c.Version); err == nil && matched {
			return true
		}
	}

	constraint, err := semver.NewConstraint(requested)
	if err != nil {
		return false
	}
	version, err := semver.NewVersion(c.Version)
	if err != nil {
		return false
	}
	return constraint.Check(version)
}
