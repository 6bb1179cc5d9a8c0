package metrics

import "sync/atomic"

// Gauge is a single mutable int64 sample: a process-wide sampled value
// read on demand rather than pushed.
type Gauge struct {
	v int64
}

func (g *Gauge) Set(v int64)  { atomic.StoreInt64(&g.v, v) }
func (g *Gauge) Value() int64 { return atomic.LoadInt64(&g.v) }

// Counter only ever increases.
type Counter struct {
	v int64
}

func (c *Counter) Add(delta int64) { atomic.AddInt64(&c.v, delta) }
func (c *Counter) Value() int64    { return atomic.LoadInt64(&c.v) }

// Registry is the fixed set of process metrics a baals-go node
// samples. There is no push exporter wired (see DESIGN.md on the
// dropped InfluxDB client dependency); Snapshot is read by the CLI's
// dev chain-state command and is suitable for wiring into an HTTP
// /debug/metrics handler later.
type Registry struct {
	BlockHeight  Gauge
	TxsApplied   Counter
	MempoolSize  Gauge
	ProcessCPUMs Gauge
}

var Default = &Registry{}

// SampleProcessCPU refreshes ProcessCPUMs using getProcessCPUTime
// (cputime_unix.go), which reports hundredths of a second.
func (r *Registry) SampleProcessCPU() {
	r.ProcessCPUMs.Set(getProcessCPUTime() * 10)
}

// Snapshot is a point-in-time, plain-value copy suitable for display
// or JSON encoding.
type Snapshot struct {
	BlockHeight  int64 `json:"block_height"`
	TxsApplied   int64 `json:"txs_applied"`
	MempoolSize  int64 `json:"mempool_size"`
	ProcessCPUMs int64 `json:"process_cpu_ms"`
}

func (r *Registry) Snapshot() Snapshot {
	return Snapshot{
		BlockHeight:  r.BlockHeight.Value(),
		TxsApplied:   r.TxsApplied.Value(),
		MempoolSize:  r.MempoolSize.Value(),
		ProcessCPUMs: r.ProcessCPUMs.Value(),
	}
}
