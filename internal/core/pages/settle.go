// Package pages orchestrates the data fetches behind each report page and
// hands the results to the view builders.
package pages

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/lorrc/task-analytics/internal/core/ports"
	"github.com/lorrc/task-analytics/internal/infrastructure/logging"
	"github.com/lorrc/task-analytics/internal/infrastructure/metrics"
	"golang.org/x/sync/errgroup"
)

// fetch is one named unit of work in a settled fan-out.
type fetch struct {
	name string
	run  func(ctx context.Context) error
}

// into builds a fetch that stores its result in dst only on success, so a
// failed fetch leaves the section at its zero value.
func into[T any](name string, dst *T, fn func(ctx context.Context) (T, error)) fetch {
	return fetch{name: name, run: func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}}
}

// settle runs every fetch concurrently and waits for all of them. A failed or
// panicking fetch is logged and counted; it never cancels its siblings.
func settle(ctx context.Context, logger *slog.Logger, report string, fetches ...fetch) {
	var g errgroup.Group
	for _, f := range fetches {
		g.Go(func() (err error) {
			start := time.Now()
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
				}
				metrics.ObserveFetch(report, f.name, err, time.Since(start))
				if err != nil {
					logger.ErrorContext(ctx, "failed to fetch "+f.name, "error", err)
				}
			}()
			return f.run(ctx)
		})
	}
	// Every failure has been logged above; the page renders regardless.
	_ = g.Wait()
}

// Request is the parsed input of a report page.
type Request struct {
	Filters domain.AnalyticsFilters
	Section string

	CriticalSort  domain.SortState
	CriticalPage  int
	AssignedSort  domain.SortState
	AssignedPage  int
	CompletedSort domain.SortState
	CompletedPage int
}

// codeSet collects the reference codes a render needs described.
type codeSet struct {
	regions     map[string]struct{}
	locations   map[string]struct{}
	caseWorkers map[string]struct{}
}

func newCodeSet() *codeSet {
	return &codeSet{
		regions:     make(map[string]struct{}),
		locations:   make(map[string]struct{}),
		caseWorkers: make(map[string]struct{}),
	}
}

func addCodes(set map[string]struct{}, codes ...string) {
	for _, c := range codes {
		if c != "" && c != domain.UnknownLabel {
			set[c] = struct{}{}
		}
	}
}

func (c *codeSet) addTask(t domain.Task) {
	addCodes(c.regions, t.Region)
	addCodes(c.locations, t.Location)
	addCodes(c.caseWorkers, t.Assignee())
}

func (c *codeSet) addOptions(o domain.FilterOptions, f domain.AnalyticsFilters) {
	addCodes(c.regions, o.Regions...)
	addCodes(c.regions, f.Region...)
	addCodes(c.locations, o.Locations...)
	addCodes(c.locations, f.Location...)
	addCodes(c.caseWorkers, o.Users...)
	addCodes(c.caseWorkers, f.User...)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// base holds what every page orchestrator shares.
type base struct {
	report   string
	sections []string
	refs     ports.ReferenceDataRepository
	options  ports.FilterOptionsRepository
	logger   *slog.Logger
}

func newBase(report string, sections []string, refs ports.ReferenceDataRepository, options ports.FilterOptionsRepository, logger *slog.Logger) base {
	return base{
		report:   report,
		sections: sections,
		refs:     refs,
		options:  options,
		logger:   logger.With("page", report),
	}
}

// Sections lists the AJAX sections the page can render on its own.
func (b *base) Sections() []string {
	return b.sections
}

// resolve returns the requested section, or "" for a full page when the
// section is absent or unknown.
func (b *base) resolve(section string) string {
	if slices.Contains(b.sections, section) {
		return section
	}
	return ""
}

// scope tags ctx with the report and section for logging.
func (b *base) scope(ctx context.Context, section string) context.Context {
	ctx = logging.WithReport(ctx, b.report)
	if section != "" {
		ctx = logging.WithSection(ctx, section)
	}
	return ctx
}

// wants reports whether a render of section includes any of names.
func wants(section string, names ...string) bool {
	return section == "" || slices.Contains(names, section)
}

// run settles fetches, adding the filter options fetch on full-page renders.
func (b *base) run(ctx context.Context, section string, fetches []fetch) domain.FilterOptions {
	var options domain.FilterOptions
	if section == "" && b.options != nil {
		fetches = append(fetches, into("filter options", &options, b.options.GetFilterOptions))
	}
	settle(ctx, b.logger, b.report, fetches...)
	return options
}

// lookups describes the collected codes. Each kind is fetched at most once
// per request and only when there is something to describe.
func (b *base) lookups(ctx context.Context, codes *codeSet) domain.ReferenceLookups {
	var lookups domain.ReferenceLookups
	if b.refs == nil {
		return lookups
	}

	var fetches []fetch
	if regions := sortedKeys(codes.regions); len(regions) > 0 {
		fetches = append(fetches, into("region descriptions", &lookups.Regions, func(ctx context.Context) (map[string]string, error) {
			return b.refs.RegionDescriptions(ctx, regions)
		}))
	}
	if locations := sortedKeys(codes.locations); len(locations) > 0 {
		fetches = append(fetches, into("location descriptions", &lookups.Locations, func(ctx context.Context) (map[string]string, error) {
			return b.refs.LocationDescriptions(ctx, locations)
		}))
	}
	if ids := sortedKeys(codes.caseWorkers); len(ids) > 0 {
		fetches = append(fetches, into("case worker names", &lookups.CaseWorkers, func(ctx context.Context) (map[string]string, error) {
			return b.refs.CaseWorkerNames(ctx, ids)
		}))
	}
	settle(ctx, b.logger, b.report, fetches...)
	return lookups
}
