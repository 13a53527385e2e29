package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hostmap/hostmap/internal/core"
	"github.com/hostmap/hostmap/internal/core/cache"
	"github.com/hostmap/hostmap/internal/source"
)

// ContactColumns maps the contact roster's designated columns. Optional
// columns may be set to -1 when the source does not carry them.
type ContactColumns struct {
	Group       int
	Owner       int
	Emails      int
	Individuals int
	Notes       int
}

// ContactResolver maps one support group to its contact bundle, following
// the same cache-then-source-then-cache-fill protocol as GroupResolver
// under the "app_owners:" key prefix. A group with no roster row is a
// found=false result with no error; a broken source is a found=false
// result with the failure recorded, and both are cached.
type ContactResolver struct {
	Source   source.Source
	Cache    cache.Cache
	UseCache bool
	Columns  ContactColumns
	Clock    func() time.Time
}

// Resolve looks up the contact bundle for supportGroup.
func (r *ContactResolver) Resolve(ctx context.Context, supportGroup string) (*core.ContactBundle, error) {
	if r == nil || r.Source == nil {
		return nil, errors.New("contact resolver is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	value := strings.TrimSpace(supportGroup)
	if value == "" {
		return nil, errors.New("support group is required")
	}

	key := cache.AppOwnersKey(value)
	if r.UseCache && r.Cache != nil {
		var cached core.ContactBundle
		if ok, err := r.Cache.Get(ctx, key, &cached); err == nil && ok {
			cached.FromCache = true
			return &cached, nil
		}
	}

	result := r.scan(ctx, value)
	r.cacheResult(ctx, key, result)
	return result, nil
}

func (r *ContactResolver) scan(ctx context.Context, supportGroup string) *core.ContactBundle {
	rows, err := r.Source.Rows(ctx)
	if err != nil {
		return r.failed(supportGroup, err.Error())
	}

	if len(rows) == 0 {
		return r.failed(supportGroup, "contacts source is empty")
	}
	if len(rows[0]) <= r.Columns.Group {
		return r.failed(supportGroup, fmt.Sprintf("contacts source has %d columns, need at least %d", len(rows[0]), r.Columns.Group+1))
	}

	for _, row := range rows[1:] {
		if len(row) <= r.Columns.Group {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(row[r.Columns.Group]), supportGroup) {
			continue
		}

		return &core.ContactBundle{
			SupportGroup:       supportGroup,
			AppOwner:           cell(row, r.Columns.Owner),
			EmailDistros:       cell(row, r.Columns.Emails),
			IndividualContacts: cell(row, r.Columns.Individuals),
			Notes:              cell(row, r.Columns.Notes),
			Found:              true,
			ResolvedAt:         r.now(),
		}
	}

	return &core.ContactBundle{
		SupportGroup: supportGroup,
		Found:        false,
		ResolvedAt:   r.now(),
	}
}

func (r *ContactResolver) failed(supportGroup, reason string) *core.ContactBundle {
	return &core.ContactBundle{
		SupportGroup: supportGroup,
		Found:        false,
		Error:        reason,
		ResolvedAt:   r.now(),
	}
}

func (r *ContactResolver) cacheResult(ctx context.Context, key string, result *core.ContactBundle) {
	if !r.UseCache || r.Cache == nil || result == nil {
		return
	}
	_ = r.Cache.Set(ctx, key, result)
}

func (r *ContactResolver) now() time.Time {
	if r != nil && r.Clock != nil {
		return r.Clock()
	}
	return time.Now().UTC()
}

// cell returns the trimmed value at index, tolerating short rows and
// columns marked absent with -1.
func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
