package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// GalleryImageUploads result: ok | upload_failed | insert_failed
	GalleryImageUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_image_uploads_total",
			Help: "Gallery image uploads by result",
		},
		[]string{"result"},
	)

	// GalleryBlobDeletes result: ok | failed
	GalleryBlobDeletes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_blob_deletes_total",
			Help: "Gallery blob deletions by result",
		},
		[]string{"result"},
	)
)
