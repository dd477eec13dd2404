// File: benchmarks/result.go
// Author: momentics <momentics@gmail.com>

package benchmarks

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Result is the outcome of one scenario run.
type Result struct {
	Scenario     string
	Operations   uint64
	Elapsed      time.Duration
	OpsPerSec    float64
	NsPerOp      float64
	PushFailures uint64
	// OK is false when the scenario's correctness check failed.
	OK    bool
	Extra map[string]float64
}

func newResult(scenario string, ops uint64, elapsed time.Duration) Result {
	r := Result{
		Scenario:   scenario,
		Operations: ops,
		Elapsed:    elapsed,
		OK:         true,
		Extra:      map[string]float64{},
	}
	if elapsed > 0 {
		r.OpsPerSec = float64(ops) / elapsed.Seconds()
	}
	if ops > 0 {
		r.NsPerOp = float64(elapsed.Nanoseconds()) / float64(ops)
	}
	return r
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (r Result) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("scenario", r.Scenario)
	enc.AddUint64("operations", r.Operations)
	enc.AddDuration("elapsed", r.Elapsed)
	enc.AddFloat64("opsPerSec", r.OpsPerSec)
	enc.AddFloat64("nsPerOp", r.NsPerOp)
	enc.AddUint64("pushFailures", r.PushFailures)
	enc.AddBool("ok", r.OK)
	for k, v := range r.Extra {
		enc.AddFloat64(k, v)
	}
	return nil
}

var _ zapcore.ObjectMarshaler = Result{}

func resultField(r Result) zap.Field {
	return zap.Object("result", r)
}
