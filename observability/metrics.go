package observability

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

var (
	// DocumentsParsedTotal counts parsed solution documents by status
	DocumentsParsedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slnmerge_documents_parsed_total",
			Help: "Total number of solution documents parsed by status",
		},
		[]string{"status"}, // success, failure
	)

	// MissingSectionsTotal counts documents that lacked a global section
	MissingSectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slnmerge_missing_sections_total",
			Help: "Total number of parsed documents missing a global section, by section",
		},
		[]string{"section"},
	)

	// MergeProjectsTotal counts projects seen by the merge engine by outcome
	MergeProjectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slnmerge_merge_projects_total",
			Help: "Total number of projects processed by merges, by outcome",
		},
		[]string{"outcome"}, // kept, filtered, duplicate, collision, pruned
	)

	// MergesTotal counts merge runs by status
	MergesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slnmerge_merges_total",
			Help: "Total number of merges by status",
		},
		[]string{"status"},
	)

	// MergeDuration tracks merge duration in seconds
	MergeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "slnmerge_merge_duration_seconds",
			Help:    "Merge duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 100us to 26s
		},
	)

	// IdentityCollisionsTotal counts GUIDs shared by projects at different paths
	IdentityCollisionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slnmerge_identity_collisions_total",
			Help: "Total number of project GUIDs found shared by different projects",
		},
	)

	// FixerFilesTotal counts files rewritten by the fixer by status
	FixerFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slnmerge_fixer_files_total",
			Help: "Total number of files rewritten by the identity fixer, by status",
		},
		[]string{"status"}, // success, failure
	)
)

// WriteMetrics writes every registered metric in the Prometheus text format
func WriteMetrics(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// GetCounterValue retrieves the current value of a counter metric with the given labels
// This is primarily intended for testing
func GetCounterValue(counter *prometheus.CounterVec, labels ...string) (float64, error) {
	metric, err := counter.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0, err
	}

	var pb dto.Metric
	if err := metric.Write(&pb); err != nil {
		return 0, err
	}

	if pb.Counter != nil {
		return pb.Counter.GetValue(), nil
	}

	return 0, nil
}
