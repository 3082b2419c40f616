package groups

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(name string, ids ...string) Strategy {
	return Strategy{
		Name: name,
		Find: func(ctx context.Context, token string) ([]string, error) {
			return ids, nil
		},
	}
}

func failing(name string) Strategy {
	return Strategy{
		Name: name,
		Find: func(ctx context.Context, token string) ([]string, error) {
			return nil, errors.New("no such column")
		},
	}
}

const validUUID = "a8098c1a-f86e-11da-bd1a-00112444be1e" // v1

func TestResolveUUIDShortCircuits(t *testing.T) {
	called := false
	r := NewResolver(Strategy{
		Name: "must_not_run",
		Find: func(ctx context.Context, token string) ([]string, error) {
			called = true
			return nil, nil
		},
	})

	id, err := r.Resolve(context.Background(), validUUID)
	require.NoError(t, err)
	assert.Equal(t, validUUID, id)
	assert.False(t, called, "store must not be consulted for a UUID token")
}

func TestResolveUUIDCaseNormalized(t *testing.T) {
	r := NewResolver()
	id, err := r.Resolve(context.Background(), "A8098C1A-F86E-11DA-BD1A-00112444BE1E")
	require.NoError(t, err)
	assert.Equal(t, validUUID, id)
}

func TestResolveSingleCandidate(t *testing.T) {
	r := NewResolver(fixed("by_slug"), fixed("by_name", "id-1"))
	id, err := r.Resolve(context.Background(), "my group")
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)
}

func TestResolveNotFound(t *testing.T) {
	r := NewResolver(fixed("by_slug"), fixed("by_name"))
	_, err := r.Resolve(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveAmbiguousSurfacesAllCandidates(t *testing.T) {
	r := NewResolver(fixed("by_slug", "id-1"), fixed("by_name", "id-2"))
	_, err := r.Resolve(context.Background(), "dup")

	var amb *AmbiguousError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, []string{"id-1", "id-2"}, amb.Candidates)
}

func TestResolveDeduplicatesAcrossStrategies(t *testing.T) {
	r := NewResolver(fixed("by_slug", "id-1"), fixed("by_name", "ID-1"))
	id, err := r.Resolve(context.Background(), "same")
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)
}

func TestResolveToleratesFailingStrategy(t *testing.T) {
	r := NewResolver(failing("by_slug"), fixed("by_name", "id-1"), failing("by_legacy_name"))
	id, err := r.Resolve(context.Background(), "my group")
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)
}

func TestCanonicalUUID(t *testing.T) {
	_, ok := CanonicalUUID(validUUID)
	assert.True(t, ok)

	// v4 with RFC 4122 variant.
	_, ok = CanonicalUUID("7c9e6679-7425-40de-944b-e07fc1f90ae7")
	assert.True(t, ok)

	cases := []string{
		"not-a-uuid",
		"7c9e66797425-40de-944b-e07fc1f90ae7",             // wrong grouping
		"{7c9e6679-7425-40de-944b-e07fc1f90ae7}",          // braces
		"urn:uuid:7c9e6679-7425-40de-944b-e07fc1f90ae7",   // urn form
		"7c9e6679-7425-00de-944b-e07fc1f90ae7",            // version 0
		"7c9e6679-7425-60de-944b-e07fc1f90ae7",            // version 6
		"7c9e6679-7425-40de-144b-e07fc1f90ae7",            // non-RFC variant
		"00000000-0000-0000-0000-000000000000",            // nil uuid
	}
	for _, in := range cases {
		_, ok := CanonicalUUID(in)
		assert.False(t, ok, "input %q", in)
	}
}
