// Package promexport writes a generated scenario into a single TSDB
// block, so the planned load can be put next to real metrics in
// Prometheus or Grafana before a run.
package promexport

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/oklog/ulid"
	"github.com/pkg/errors"
	"github.com/prometheus/prometheus/model/labels"
	"github.com/prometheus/prometheus/model/timestamp"
	"github.com/prometheus/prometheus/tsdb"
	"github.com/prometheus/prometheus/tsdb/chunkenc"
	"github.com/thanos-io/thanos/pkg/runutil"
)

// MetricName is the series every exported scenario lands on.
const MetricName = "java_on_kubernetes_target_users"

// WriteBlock appends values as one series at minute spacing, ending at
// the current minute, and flushes one block into dir. The preset name is
// attached as a label next to extLset. The block carries no WAL and no
// tombstones, it is meant to be dropped into a TSDB data dir or object
// store sidecar as is.
func WriteBlock(logger log.Logger, dir, preset string, values []float64, extLset labels.Labels) (id ulid.ULID, err error) {
	if len(values) == 0 {
		return id, errors.New("no samples to export")
	}

	// The whole scenario must stay in one head chunk range.
	opts := tsdb.DefaultHeadOptions()
	opts.ChunkRange = durToMilis(9999 * time.Hour)
	opts.ChunkDirRoot = filepath.Join(dir, "chunks_head")
	head, err := tsdb.NewHead(nil, logger, nil, opts, nil)
	if err != nil {
		return id, errors.Wrap(err, "tsdb.NewHead")
	}
	defer func() {
		runutil.CloseWithErrCapture(&err, head, "tsdb head")
		if e := os.RemoveAll(opts.ChunkDirRoot); e != nil && err == nil {
			err = errors.Wrap(e, "remove head chunks dir")
		}
	}()
	if err := head.Init(math.MinInt64); err != nil {
		return id, errors.Wrap(err, "init head")
	}

	b := labels.NewBuilder(extLset)
	b.Set(labels.MetricName, MetricName)
	b.Set("preset", preset)
	lset := b.Labels()

	start := time.Now().Truncate(time.Minute).Add(-time.Duration(len(values)-1) * time.Minute)
	app := head.Appender(context.Background())
	for i, v := range values {
		ts := timestamp.FromTime(start.Add(time.Duration(i) * time.Minute))
		if _, err := app.Append(0, lset, ts, v); err != nil {
			return id, errors.Wrap(err, "append sample")
		}
	}
	if err := app.Commit(); err != nil {
		return id, errors.Wrap(err, "commit")
	}

	mint, maxt := head.MinTime(), head.MaxTime()
	level.Info(logger).Log(
		"msg", "flushing scenario block",
		"preset", preset,
		"samples", len(values),
		"mint", timestamp.Time(mint),
		"maxt", timestamp.Time(maxt),
	)

	compactor, err := tsdb.NewLeveledCompactor(
		context.Background(),
		nil,
		logger,
		[]int64{durToMilis(2 * time.Hour)}, // Only used for planning, any value works.
		chunkenc.NewPool(),
		nil,
	)
	if err != nil {
		return id, errors.Wrap(err, "create leveled compactor")
	}

	id, err = compactor.Write(dir, head, mint, maxt+1, nil)
	if err != nil {
		return id, errors.Wrap(err, "write block")
	}
	return id, nil
}

func durToMilis(t time.Duration) int64 {
	return int64(t.Seconds() * 1000)
}
