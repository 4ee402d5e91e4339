package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// SetupPrometheus returns a registry with the go runtime and process collectors,
// gymtracker_build_info carrying the running version, and any extra collectors
// (e.g. the pgx pool collector when postgres is the store backend).
func SetupPrometheus(versionInfo string, extraCollectors ...prometheus.Collector) *prometheus.Registry {
	if versionInfo == "" {
		versionInfo = "unknown"
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "gymtracker",
			Name:        "build_info",
			Help:        "Always 1, labeled with the running version.",
			ConstLabels: prometheus.Labels{"version": versionInfo},
		}, func() float64 { return 1 }),
	)
	promRegistry.MustRegister(extraCollectors...)

	return promRegistry
}
