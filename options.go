package filemap

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/calvinalkan/filemap/codec"
	"github.com/calvinalkan/filemap/internal/fs"
)

// options carries everything [Open] can be configured with.
type options struct {
	codec        codec.Codec
	fsys         fs.FS
	logger       *zap.Logger
	registerer   prometheus.Registerer
	atomicWrites bool
}

func defaultOptions() options {
	return options{
		codec:  codec.Gob{},
		fsys:   fs.NewReal(),
		logger: zap.NewNop(),
	}
}

// Option configures a store at [Open] time.
type Option func(*options)

// WithCodec selects the serialization for keys and values. Defaults to
// [codec.Gob]. All handles ever opened on one directory must use the
// same codec; entries written with another codec are skipped at startup
// and read as absent.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithLogger directs diagnostics (skipped files, self-healed keys,
// swallowed delete errors) to log. Defaults to a no-op logger, keeping
// the documented silent behavior.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}

// WithMetrics registers the store's counters and gauges with reg. The
// metrics carry the storage directory as a constant label, so stores on
// distinct directories can share one registry.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithAtomicWrites makes every entry write go through a temp file plus
// rename instead of truncating in place. Readers then never observe a
// partially written entry, at the cost of an extra rename per write.
func WithAtomicWrites() Option {
	return func(o *options) {
		o.atomicWrites = true
	}
}
