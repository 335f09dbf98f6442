package btree

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// treeMetrics holds the OpenTelemetry instruments recording structural
// activity. With a no-op meter every instrument is a no-op, so the hot paths
// record unconditionally.
type treeMetrics struct {
	inserts metric.Int64Counter
	deletes metric.Int64Counter
	splits  metric.Int64Counter
	merges  metric.Int64Counter
	borrows metric.Int64Counter
}

func newTreeMetrics(meter metric.Meter) (*treeMetrics, error) {
	var (
		m   treeMetrics
		err error
	)
	if m.inserts, err = meter.Int64Counter("btree.inserts",
		metric.WithDescription("Keys inserted into the tree")); err != nil {
		return nil, fmt.Errorf("creating inserts counter: %w", err)
	}
	if m.deletes, err = meter.Int64Counter("btree.deletes",
		metric.WithDescription("Keys deleted from the tree")); err != nil {
		return nil, fmt.Errorf("creating deletes counter: %w", err)
	}
	if m.splits, err = meter.Int64Counter("btree.splits",
		metric.WithDescription("Node splits performed during insertion")); err != nil {
		return nil, fmt.Errorf("creating splits counter: %w", err)
	}
	if m.merges, err = meter.Int64Counter("btree.merges",
		metric.WithDescription("Node merges performed during deletion")); err != nil {
		return nil, fmt.Errorf("creating merges counter: %w", err)
	}
	if m.borrows, err = meter.Int64Counter("btree.borrows",
		metric.WithDescription("Keys borrowed from siblings during deletion")); err != nil {
		return nil, fmt.Errorf("creating borrows counter: %w", err)
	}
	return &m, nil
}
