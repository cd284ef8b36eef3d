package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/bookstore-backend/pkg/enums"
)

// PermissionMetrics records permission decisions.
type PermissionMetrics struct {
	decisions *prometheus.CounterVec
}

// NewPermissionMetrics registers the permission collectors on the provided registerer.
func NewPermissionMetrics(reg prometheus.Registerer) *PermissionMetrics {
	if reg == nil {
		return &PermissionMetrics{}
	}
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "permission_decisions_total",
		Help: "Permission evaluations by resource, mode and outcome.",
	}, []string{"resource", "mode", "outcome"})
	reg.MustRegister(decisions)
	return &PermissionMetrics{decisions: decisions}
}

// ObserveDecision counts one evaluation.
func (p *PermissionMetrics) ObserveDecision(resource enums.Resource, mode enums.PermissionMode, allowed bool) {
	if p == nil || p.decisions == nil {
		return
	}
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	p.decisions.WithLabelValues(normalizeLabel(string(resource)), normalizeLabel(string(mode)), outcome).Inc()
}
