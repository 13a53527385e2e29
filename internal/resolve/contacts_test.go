package resolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hostmap/hostmap/internal/core/cache"
	"github.com/hostmap/hostmap/internal/source"
)

func contactTable() [][]string {
	return [][]string{
		{"support_group", "app_owner", "email_distros", "individual_contacts", "notes"},
		{"NETOPS", "Alice Chen", "netops@example.com", "alice@example.com; bob@example.com", "24x7 on-call"},
		{"DBTEAM", "Dan Ruiz", "dbteam@example.com", "", "business hours only"},
	}
}

func defaultContactColumns() ContactColumns {
	return ContactColumns{Group: 0, Owner: 1, Emails: 2, Individuals: 3, Notes: 4}
}

func contactResolver(src source.Source, c cache.Cache) *ContactResolver {
	return &ContactResolver{
		Source:   src,
		Cache:    c,
		UseCache: c != nil,
		Columns:  defaultContactColumns(),
	}
}

func TestContactResolverFindsBundle(t *testing.T) {
	r := contactResolver(&source.Static{Table: contactTable()}, nil)

	bundle, err := r.Resolve(context.Background(), "NETOPS")
	require.NoError(t, err)
	require.True(t, bundle.Found)
	require.Equal(t, "Alice Chen", bundle.AppOwner)
	require.Equal(t, "netops@example.com", bundle.EmailDistros)
	require.Equal(t, "alice@example.com; bob@example.com", bundle.IndividualContacts)
	require.Equal(t, "24x7 on-call", bundle.Notes)
}

func TestContactResolverMatchesCaseInsensitively(t *testing.T) {
	r := contactResolver(&source.Static{Table: contactTable()}, nil)

	bundle, err := r.Resolve(context.Background(), "dbteam")
	require.NoError(t, err)
	require.True(t, bundle.Found)
	require.Equal(t, "Dan Ruiz", bundle.AppOwner)
}

func TestContactResolverUnknownGroupIsNotAnError(t *testing.T) {
	r := contactResolver(&source.Static{Table: contactTable()}, nil)

	bundle, err := r.Resolve(context.Background(), "STORAGE")
	require.NoError(t, err)
	require.False(t, bundle.Found)
	require.Empty(t, bundle.Error)
}

func TestContactResolverBrokenSourceIsStructuredFailure(t *testing.T) {
	r := contactResolver(&source.Static{Err: errors.New("roster unreachable")}, nil)

	bundle, err := r.Resolve(context.Background(), "NETOPS")
	require.NoError(t, err)
	require.False(t, bundle.Found)
	require.Contains(t, bundle.Error, "roster unreachable")
}

func TestContactResolverOptionalColumnsAbsent(t *testing.T) {
	r := &ContactResolver{
		Source:  &source.Static{Table: [][]string{{"support_group", "email"}, {"NETOPS", "netops@example.com"}}},
		Columns: ContactColumns{Group: 0, Owner: -1, Emails: 1, Individuals: -1, Notes: -1},
	}

	bundle, err := r.Resolve(context.Background(), "NETOPS")
	require.NoError(t, err)
	require.True(t, bundle.Found)
	require.Empty(t, bundle.AppOwner)
	require.Equal(t, "netops@example.com", bundle.EmailDistros)
}

func TestContactResolverCachesUnderOwnKeySpace(t *testing.T) {
	mem := cache.NewMemory(time.Hour)
	src := &countingSource{inner: &source.Static{Table: contactTable()}}
	r := contactResolver(src, mem)

	first, err := r.Resolve(context.Background(), "NETOPS")
	require.NoError(t, err)
	require.False(t, first.FromCache)

	second, err := r.Resolve(context.Background(), "NETOPS")
	require.NoError(t, err)
	require.True(t, second.FromCache)
	require.Equal(t, 1, src.calls)

	// The key space is distinct from hostname lookups.
	var miss struct{}
	ok, err := mem.Get(context.Background(), cache.SupportGroupKey("NETOPS"), &miss)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestContactResolverCachesNotFound(t *testing.T) {
	src := &countingSource{inner: &source.Static{Table: contactTable()}}
	r := contactResolver(src, cache.NewMemory(time.Hour))

	first, err := r.Resolve(context.Background(), "STORAGE")
	require.NoError(t, err)
	require.False(t, first.Found)

	second, err := r.Resolve(context.Background(), "STORAGE")
	require.NoError(t, err)
	require.True(t, second.FromCache)
	require.False(t, second.Found)
	require.Equal(t, 1, src.calls)
}

func TestContactResolverRequiresGroup(t *testing.T) {
	r := contactResolver(&source.Static{Table: contactTable()}, nil)

	_, err := r.Resolve(context.Background(), "")
	require.Error(t, err)
}
