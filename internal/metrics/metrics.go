package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector counts access decisions and created grants.
type Collector struct {
	decisions *prometheus.CounterVec
	grants    *prometheus.CounterVec
}

// NewCollector creates the collectors and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fileshare_access_decisions_total",
				Help: "Access decisions by path and outcome.",
			},
			[]string{"path", "outcome"},
		),
		grants: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fileshare_grants_created_total",
				Help: "Grants created by kind.",
			},
			[]string{"kind"},
		),
	}

	for _, col := range []prometheus.Collector{c.decisions, c.grants} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Collector) AccessDecision(path string, allowed bool) {
	outcome := "deny"
	if allowed {
		outcome = "allow"
	}
	c.decisions.WithLabelValues(path, outcome).Inc()
}

func (c *Collector) GrantCreated(kind string) {
	c.grants.WithLabelValues(kind).Inc()
}
