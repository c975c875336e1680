// Package metrics defines the custom Prometheus metrics of the autochef API.
// Metrics register with the default registry on import through promauto and are
// exposed by the echoprometheus handler on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "autochef"

// ── Menu metrics ──────────────────────────────────────────────────────────────

// MutationsTotal counts committed menu and profile mutations.
// Labels:
//   - entity: "restaurant", "section" or "item"
//   - action: "created", "updated", "deleted", "reordered", "secret_key_rotated"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of committed mutations, by entity and action.",
	},
	[]string{"entity", "action"},
)

// ReorderWritesTotal counts single-record position writes issued by a reorder.
// Label:
//   - result: "ok" or "error"
var ReorderWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reorder_writes_total",
		Help:      "Total number of position writes issued by reorders, by entity and result.",
	},
	[]string{"entity", "result"},
)

// PartialBatchesTotal counts reorders that left the collection partially written.
var PartialBatchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "partial_batches_total",
		Help:      "Total number of reorders where some position writes failed.",
	},
	[]string{"entity"},
)

// ReorderDuration measures a whole reorder batch, from first dispatch to last write.
var ReorderDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reorder_duration_seconds",
		Help:      "Duration of reorder batches.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"entity"},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CacheLookupsTotal counts read-through cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of collection cache lookups, by entity and result.",
	},
	[]string{"entity", "result"},
)

// ── Restaurant metrics ────────────────────────────────────────────────────────

// SecretKeyRotationsTotal counts successful secret key resets.
var SecretKeyRotationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "secret_key_rotations_total",
		Help:      "Total number of restaurant secret key rotations.",
	},
)

// ── Media metrics ─────────────────────────────────────────────────────────────

// MediaUploadsTotal counts image uploads.
// Label:
//   - result: "ok", "rejected" or "error"
var MediaUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_uploads_total",
		Help:      "Total number of image uploads, by result.",
	},
	[]string{"result"},
)

// ChangeEventsFailedTotal counts change notifications that could not be delivered to a sink.
var ChangeEventsFailedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "change_events_failed_total",
		Help:      "Total number of change events a sink failed to accept.",
	},
	[]string{"sink"},
)
