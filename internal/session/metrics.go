package session

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// RegisterMetrics exposes the live session count on reg.
func RegisterMetrics(reg prometheus.Registerer, st *Store) error {
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "calculator_sessions_active",
		Help: "Number of calculator sessions currently held in memory",
	}, func() float64 {
		return float64(st.Len())
	})

	if err := reg.Register(gauge); err != nil {
		return fmt.Errorf("registering sessions gauge: %w", err)
	}
	return nil
}
