package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AreaSearches counts Places API searches by result ("ok" or "error").
	AreaSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cafefinder",
		Name:      "area_searches_total",
		Help:      "Places API nearby searches by result.",
	}, []string{"result"})

	// ChainsFiltered counts places dropped by the chain denylist.
	ChainsFiltered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cafefinder",
		Name:      "chains_filtered_total",
		Help:      "Places excluded as chain businesses.",
	})

	// Upserts counts store upserts by result ("ok" or "error").
	Upserts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cafefinder",
		Name:      "cafe_upserts_total",
		Help:      "Cafe upserts by result.",
	}, []string{"result"})

	// LastSyncTimestamp is the unix time the last sync finished.
	LastSyncTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "cafefinder",
		Name:      "last_sync_timestamp_seconds",
		Help:      "Unix time of the last completed sync run.",
	})

	// MapFeedRequests counts GeoJSON feed requests by source ("store", "cache" or "error").
	MapFeedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cafefinder",
		Name:      "map_feed_requests_total",
		Help:      "GeoJSON feed requests by how they were served.",
	}, []string{"source"})
)

// WriteTextfile dumps the default registry in the node_exporter textfile
// format, for one-shot processes that are never scraped.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
