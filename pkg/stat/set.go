// Copyright 2026 symby project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package stat

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/VividCortex/gohistogram"
	"github.com/prometheus/client_golang/prometheus"
)

// This file provides simple metrics (Val type) for instrumenting a symbolication run.
// It also provides a registry for such metrics (set type) and a global default registry.
//
// Simple uses of metrics:
//
//	statFoo := stat.New("metric name", "metric description")
//	statFoo.Add(1)
//
//	stat.New("resolve latency", "dwarfdump latency (ms)", stat.Distribution{})
//
// The CLI prints Collect results in verbose mode and saves the Prometheus
// view of the metrics with WriteTextfile.

type UI struct {
	Name  string
	Desc  string
	Level Level
	Value string
	V     int
	order uint64
}

func New(name, desc string, opts ...any) *Val {
	return global.New(name, desc, opts...)
}

func Collect(level Level) []UI {
	return global.Collect(level)
}

// WriteTextfile saves all metrics exported with the Prometheus option
// in the Prometheus text exposition format (node_exporter textfile collector).
func WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, global.registry)
}

var global = newSet()

type set struct {
	mu        sync.Mutex
	vals      map[string]*Val
	nextOrder atomic.Uint64
	registry  *prometheus.Registry
}

const histogramBuckets = 255

func newSet() *set {
	return &set{
		vals:     make(map[string]*Val),
		registry: prometheus.NewRegistry(),
	}
}

func (s *set) Collect(level Level) []UI {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []UI
	for _, v := range s.vals {
		if v.level < level {
			continue
		}
		val := v.Val()
		res = append(res, UI{
			Name:  v.name,
			Desc:  v.desc,
			Level: v.level,
			Value: v.format(val),
			V:     val,
			order: v.order,
		})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Level != res[j].Level {
			return res[i].Level > res[j].Level
		}
		return res[i].order < res[j].order
	})
	return res
}

// Additional options for Val metrics.

// Level controls if the metric should be printed to console at the end of a run,
// or only in verbose mode.
type Level int

const (
	All Level = iota
	Console
)

// Prometheus exports the metric to Prometheus under the given name.
type Prometheus string

// Distribution says to collect histogram of individual sample distributions.
type Distribution struct{}

// Addittionally a custom 'func(int) string' can be passed for custom formatting of the metric value.

func (s *set) New(name, desc string, opts ...any) *Val {
	v := &Val{
		name:  name,
		desc:  desc,
		order: s.nextOrder.Add(1),
		fmt:   strconv.Itoa,
	}
	var promName string
	for _, o := range opts {
		switch opt := o.(type) {
		case Level:
			v.level = opt
		case Distribution:
			v.hist = true
		case func(int) string:
			v.fmt = opt
		case Prometheus:
			promName = string(opt)
		default:
			panic(fmt.Sprintf("unknown stats option %#v", o))
		}
	}
	if promName != "" {
		s.register(v, promName)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals[name] = v
	return v
}

func (s *set) register(v *Val, name string) {
	if !v.hist {
		s.registry.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: name,
			Help: v.desc,
		},
			func() float64 { return float64(v.Val()) },
		))
		return
	}
	// Distributions are exported as mean/count pairs.
	s.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: name,
		Help: v.desc,
	},
		func() float64 { return v.Mean() },
	))
	s.registry.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: name + "_count",
		Help: v.desc + " (samples)",
	},
		func() float64 { return float64(v.Count()) },
	))
}

type Val struct {
	name    string
	desc    string
	level   Level
	order   uint64
	val     atomic.Uint64
	fmt     func(int) string
	hist    bool
	histMu  sync.Mutex
	histVal *gohistogram.NumericHistogram
}

func (v *Val) Add(val int) {
	if v.hist {
		v.histMu.Lock()
		if v.histVal == nil {
			v.histVal = gohistogram.NewHistogram(histogramBuckets)
		}
		v.histVal.Add(float64(val))
		v.histMu.Unlock()
		return
	}
	v.val.Add(uint64(val))
}

// Val returns the counter value, or the mean for distributions.
func (v *Val) Val() int {
	if v.hist {
		return int(v.Mean())
	}
	return int(v.val.Load())
}

func (v *Val) Mean() float64 {
	if !v.hist {
		return float64(v.val.Load())
	}
	v.histMu.Lock()
	defer v.histMu.Unlock()
	if v.histVal == nil {
		return 0
	}
	return v.histVal.Mean()
}

// Count returns the number of samples added to a distribution.
func (v *Val) Count() int {
	if !v.hist {
		return 0
	}
	v.histMu.Lock()
	defer v.histMu.Unlock()
	if v.histVal == nil {
		return 0
	}
	return int(v.histVal.Count())
}

// Quantile returns the approximate q-quantile of a distribution.
func (v *Val) Quantile(q float64) float64 {
	if !v.hist {
		return float64(v.val.Load())
	}
	v.histMu.Lock()
	defer v.histMu.Unlock()
	if v.histVal == nil {
		return 0
	}
	return v.histVal.Quantile(q)
}

func (v *Val) format(val int) string {
	if v.hist {
		return fmt.Sprintf("%v (p90 %v, %v samples)", val, int(v.Quantile(0.9)), v.Count())
	}
	return v.fmt(val)
}
