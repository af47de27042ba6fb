package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	defaultOnce sync.Once
	collectors  []prometheus.Collector
)

// register is called from init() in each file of this package.
func register(cs ...prometheus.Collector) {
	collectors = append(collectors, cs...)
}

// Register adds every collector of this package to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister wires the collectors into the default registry served on
// /metrics. Repeated calls are no-ops.
func MustRegister() {
	defaultOnce.Do(func() {
		if err := Register(prometheus.DefaultRegisterer); err != nil {
			panic(err)
		}
	})
}

// norm keeps label values stable regardless of how callers spell them.
func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
