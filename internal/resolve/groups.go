// Package resolve implements the ticket resolution pipeline: hostname →
// support group → contact roster, with per-run grouping and batch
// aggregation across many ticket files.
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

// GroupResolver maps one hostname to at most one support group by scanning
// the asset inventory. Results, including not-found outcomes and
// source-access failures, are cached under a flat key space so identical
// hostnames across tickets and batches share entries for the TTL window.
// A cached failure replays until it expires; a known-broken source is not
// re-read on every hostname.
type GroupResolver struct {
	Source         source.Source
	Cache          cache.Cache
	UseCache       bool
	HostnameColumn int
	GroupColumn    int
	Clock          func() time.Time
}

// Resolve looks up the support group for hostname. The returned error is
// reserved for misconfiguration; every data outcome, including a broken
// source, arrives as a structured result.
func (r *GroupResolver) Resolve(ctx context.Context, hostname string) (*core.SupportGroupLookup, error) {
	if r == nil || r.Source == nil {
		return nil, errors.New("group resolver is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	value := strings.TrimSpace(hostname)
	if value == "" {
		return nil, errors.New("hostname is required")
	}

	key := cache.SupportGroupKey(value)
	if r.UseCache && r.Cache != nil {
		var cached core.SupportGroupLookup
		if ok, err := r.Cache.Get(ctx, key, &cached); err == nil && ok {
			cached.FromCache = true
			return &cached, nil
		}
	}

	result := r.scan(ctx, value)
	r.cacheResult(ctx, key, result)
	return result, nil
}

func (r *GroupResolver) scan(ctx context.Context, hostname string) *core.SupportGroupLookup {
	rows, err := r.Source.Rows(ctx)
	if err != nil {
		return r.failed(hostname, err.Error())
	}

	if len(rows) == 0 {
		return r.failed(hostname, "reference source is empty")
	}

	needed := r.GroupColumn
	if r.HostnameColumn > needed {
		needed = r.HostnameColumn
	}
	if len(rows[0]) <= needed {
		return r.failed(hostname, fmt.Sprintf("reference source has %d columns, need at least %d", len(rows[0]), needed+1))
	}

	for _, row := range rows[1:] {
		if len(row) <= r.HostnameColumn {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(row[r.HostnameColumn]), hostname) {
			continue
		}

		group := ""
		if len(row) > r.GroupColumn {
			group = strings.TrimSpace(row[r.GroupColumn])
		}
		return &core.SupportGroupLookup{
			Hostname:     hostname,
			SupportGroup: group,
			Found:        true,
			ResolvedAt:   r.now(),
		}
	}

	return &core.SupportGroupLookup{
		Hostname:   hostname,
		Found:      false,
		ResolvedAt: r.now(),
	}
}

func (r *GroupResolver) failed(hostname, reason string) *core.SupportGroupLookup {
	return &core.SupportGroupLookup{
		Hostname:   hostname,
		Found:      false,
		Error:      reason,
		ResolvedAt: r.now(),
	}
}

func (r *GroupResolver) cacheResult(ctx context.Context, key string, result *core.SupportGroupLookup) {
	if !r.UseCache || r.Cache == nil || result == nil {
		return
	}
	_ = r.Cache.Set(ctx, key, result)
}

func (r *GroupResolver) now() time.Time {
	if r != nil && r.Clock != nil {
		return r.Clock()
	}
	return time.Now().UTC()
}
