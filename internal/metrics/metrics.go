// Package metrics declares the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LikeToggles counts like toggles by resulting state (liked, unliked).
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connectly_like_toggles_total",
		Help: "Total number of like toggles by resulting state",
	}, []string{"result"})

	// ConnectionTransitions counts connection graph transitions (requested, accepted, rejected).
	ConnectionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connectly_connection_transitions_total",
		Help: "Total number of connection request transitions",
	}, []string{"transition"})

	// AuthAttempts counts register and login attempts by outcome.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connectly_auth_attempts_total",
		Help: "Total number of authentication attempts by operation and outcome",
	}, []string{"operation", "outcome"})

	// MediaUploads counts stored uploads by blob backend and kind.
	MediaUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connectly_media_uploads_total",
		Help: "Total number of stored media uploads",
	}, []string{"backend", "kind"})

	// CredentialCacheLookups counts credential cache lookups by result (hit, miss, error).
	CredentialCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connectly_credential_cache_lookups_total",
		Help: "Total number of credential cache lookups by result",
	}, []string{"result"})
)
