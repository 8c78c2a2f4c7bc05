// Package metrics gates the go-metrics registry behind a command line flag.
package metrics

import (
	"io"
	"os"
	"strings"

	"github.com/Aurorachain/go-opbench/log"
	"github.com/rcrowley/go-metrics"
)

// MetricsEnabledFlag is the CLI flag name to use to enable metrics collections.
const MetricsEnabledFlag = "metrics"

// Enabled is the flag specifying if metrics are enable or not.
var Enabled = false

func init() {
	for _, arg := range os.Args {
		if flag := strings.TrimLeft(arg, "-"); flag == MetricsEnabledFlag {
			log.Info("Enabling metrics collection")
			Enabled = true
		}
	}
}

// NewCounter create a new metrics Counter, either a real one of a NOP stub
// depending on the metrics flag.
func NewCounter(name string) metrics.Counter {
	if !Enabled {
		return new(metrics.NilCounter)
	}
	return metrics.GetOrRegisterCounter(name, metrics.DefaultRegistry)
}

// NewMeter create a new metrics Meter, either a real one of a NOP stub
// depending on the metrics flag.
func NewMeter(name string) metrics.Meter {
	if !Enabled {
		return new(metrics.NilMeter)
	}
	return metrics.GetOrRegisterMeter(name, metrics.DefaultRegistry)
}

// NewTimer create a new metrics Timer, either a real one of a NOP stub
// depending on the metrics flag.
func NewTimer(name string) metrics.Timer {
	if !Enabled {
		return new(metrics.NilTimer)
	}
	return metrics.GetOrRegisterTimer(name, metrics.DefaultRegistry)
}

// NewHistogram creates a histogram over a uniform sample of the given size.
func NewHistogram(name string, size int) metrics.Histogram {
	if !Enabled {
		return new(metrics.NilHistogram)
	}
	return metrics.GetOrRegisterHistogram(name, metrics.DefaultRegistry, metrics.NewUniformSample(size))
}

// WriteOnce dumps every registered metric whose name starts with prefix.
func WriteOnce(w io.Writer, prefix string) {
	if !Enabled {
		return
	}
	r := metrics.NewRegistry()
	metrics.DefaultRegistry.Each(func(name string, m interface{}) {
		if strings.HasPrefix(name, prefix) {
			r.Register(name, m)
		}
	})
	metrics.WriteOnce(r, w)
}
