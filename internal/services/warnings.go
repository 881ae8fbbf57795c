package services

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/epeers/reservoirs/internal/models"
	"github.com/epeers/reservoirs/internal/timeseries"
)

type warningContextKey struct{}

// WarningCollector accumulates warnings during a service call chain.
type WarningCollector struct {
	mu       sync.Mutex
	warnings []models.Warning
}

// NewWarningContext returns a context carrying a fresh WarningCollector,
// plus a reference to the collector so the handler can retrieve warnings later.
func NewWarningContext(ctx context.Context) (context.Context, *WarningCollector) {
	wc := &WarningCollector{}
	return context.WithValue(ctx, warningContextKey{}, wc), wc
}

// AddWarning appends a warning to the collector in ctx.
// If ctx has no collector, the call is a no-op.
func AddWarning(ctx context.Context, w models.Warning) {
	wc, ok := ctx.Value(warningContextKey{}).(*WarningCollector)
	if !ok || wc == nil {
		return
	}
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.warnings = append(wc.warnings, w)
}

// GetWarnings returns a copy of all collected warnings.
func (wc *WarningCollector) GetWarnings() []models.Warning {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	out := make([]models.Warning, len(wc.warnings))
	copy(out, wc.warnings)
	return out
}

// reportIssues logs records dropped during normalization and adds one warning
// per issue kind, so a badly broken series does not flood the response.
func reportIssues(ctx context.Context, reservoirID string, issues []timeseries.Issue) {
	if len(issues) == 0 {
		return
	}

	type group struct {
		count int
		first timeseries.Issue
	}
	groups := map[timeseries.IssueKind]*group{}
	var order []timeseries.IssueKind
	for _, is := range issues {
		log.WithFields(log.Fields{
			"reservoir": reservoirID,
			"kind":      is.Kind,
			"index":     is.Index,
		}).Debugf("dropped record: %v", is.Err)

		g, ok := groups[is.Kind]
		if !ok {
			g = &group{first: is}
			groups[is.Kind] = g
			order = append(order, is.Kind)
		}
		g.count++
	}

	for _, kind := range order {
		g := groups[kind]
		code := models.WarnMalformedValue
		if kind == timeseries.IssueMalformedDate {
			code = models.WarnMalformedDate
		}
		log.Warnf("%s: dropped %d record(s) (%s)", reservoirID, g.count, kind)
		AddWarning(ctx, models.Warning{
			Code:    code,
			Message: fmt.Sprintf("%s: dropped %d record(s); first: %v", reservoirID, g.count, g.first),
		})
	}
}

// reportMismatch warns when a fetched series belongs to another reservoir.
func reportMismatch(ctx context.Context, s timeseries.Series, expectedID string) {
	if err := timeseries.CheckIdentity(s, expectedID); err != nil {
		log.Errorf("series identity check failed: %v", err)
		AddWarning(ctx, models.Warning{
			Code:    models.WarnReferenceMismatch,
			Message: err.Error(),
		})
	}
}
