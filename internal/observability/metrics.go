// Package observability registers the Prometheus metrics of the access
// control core with the default registry.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vehicle_shop"

const (
	AuthResultOK      = "ok"
	AuthResultMissing = "missing"
	AuthResultInvalid = "invalid"

	DecisionAllow         = "allow"
	DecisionAdminBypass   = "admin_bypass"
	DecisionDeny          = "deny"
	DecisionInvalidAction = "invalid_action"
)

// AuthenticationTotal counts bearer token checks.
// Label:
//   - result: "ok", "missing" or "invalid"
var AuthenticationTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authentication_total",
		Help:      "Total number of bearer token checks, by result.",
	},
	[]string{"result"},
)

// AuthorizationDecisionsTotal counts guard decisions.
// Labels:
//   - resource: the resource tag checked (e.g. "vehicle")
//   - action: create, read, update, delete or the rejected input
//   - decision: "allow", "admin_bypass", "deny" or "invalid_action"
var AuthorizationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_decisions_total",
		Help:      "Total number of authorization decisions, by resource, action and decision.",
	},
	[]string{"resource", "action", "decision"},
)

func RecordAuthentication(result string) {
	AuthenticationTotal.WithLabelValues(result).Inc()
}

func RecordDecision(resource, action, decision string) {
	AuthorizationDecisionsTotal.WithLabelValues(resource, action, decision).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
