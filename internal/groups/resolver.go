// Package groups resolves caller-supplied group tokens (UUID, slug, display
// name, or legacy column values) down to one canonical group id.
package groups

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound means the token matched no group under any lookup strategy.
var ErrNotFound = errors.New("group not found")

// AmbiguousError means the token matched several distinct groups. The
// caller disambiguates; the resolver never silently picks one.
type AmbiguousError struct {
	Token      string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("group token %q is ambiguous (%d candidates)", e.Token, len(e.Candidates))
}

// Strategy is one candidate lookup attribute tried against the store.
// Strategies are independent: a failing one (including schema errors from
// older deployments missing the attribute) is skipped, never fatal.
type Strategy struct {
	Name string
	Find func(ctx context.Context, token string) ([]string, error)
}

// Resolver tries an ordered list of strategies until the candidate set is
// settled.
type Resolver struct {
	strategies []Strategy
}

func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// Resolve turns a token into the canonical group id. A syntactically valid
// UUID short-circuits without a store lookup: group ids that were never
// assigned a slug must not come back as false negatives.
func (r *Resolver) Resolve(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNotFound
	}

	if id, ok := CanonicalUUID(token); ok {
		return id, nil
	}

	seen := make(map[string]struct{})
	var candidates []string
	for _, s := range r.strategies {
		ids, err := s.Find(ctx, token)
		if err != nil {
			log.Printf("[groups] lookup %s failed for %q: %v", s.Name, token, err)
			continue
		}
		for _, id := range ids {
			id = strings.ToLower(strings.TrimSpace(id))
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			candidates = append(candidates, id)
		}
	}

	switch len(candidates) {
	case 0:
		return "", ErrNotFound
	case 1:
		return candidates[0], nil
	default:
		return "", &AmbiguousError{Token: token, Candidates: candidates}
	}
}

var reUUID = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// CanonicalUUID reports whether token is a canonical 8-4-4-4-12 UUID with
// version 1-5 and the RFC 4122 variant, returning it lower-cased.
func CanonicalUUID(token string) (string, bool) {
	if !reUUID.MatchString(token) {
		return "", false
	}
	u, err := uuid.Parse(token)
	if err != nil {
		return "", false
	}
	if v := u.Version(); v < 1 || v > 5 {
		return "", false
	}
	if u.Variant() != uuid.RFC4122 {
		return "", false
	}
	return strings.ToLower(token), true
}
