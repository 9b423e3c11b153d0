package promexport

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/prometheus/prometheus/model/labels"
	"github.com/prometheus/prometheus/tsdb"
	"github.com/thanos-io/thanos/pkg/runutil"
	"github.com/thanos-io/thanos/pkg/testutil"
)

func TestWriteBlock(t *testing.T) {
	dir := t.TempDir()
	logger := log.NewNopLogger()
	values := []float64{40, 650, 470, 800, 360, 40}

	id, err := WriteBlock(logger, dir, "probe", values, labels.FromStrings("cluster", "demo"))
	testutil.Ok(t, err)

	bdir := filepath.Join(dir, id.String())
	_, err = os.Stat(filepath.Join(bdir, "meta.json"))
	testutil.Ok(t, err)

	b, err := tsdb.OpenBlock(logger, bdir, nil)
	testutil.Ok(t, err)
	defer runutil.CloseWithLogOnErr(logger, b, "block")

	q, err := tsdb.NewBlockQuerier(b, math.MinInt64, math.MaxInt64)
	testutil.Ok(t, err)
	defer runutil.CloseWithLogOnErr(logger, q, "querier")

	set := q.Select(true, nil, labels.MustNewMatcher(labels.MatchEqual, labels.MetricName, MetricName))
	testutil.Assert(t, set.Next(), "expected one series")

	series := set.At()
	testutil.Equals(t, "probe", series.Labels().Get("preset"))
	testutil.Equals(t, "demo", series.Labels().Get("cluster"))

	var got []float64
	it := series.Iterator()
	for it.Next() {
		_, v := it.At()
		got = append(got, v)
	}
	testutil.Ok(t, it.Err())
	testutil.Equals(t, values, got)

	testutil.Assert(t, !set.Next(), "expected exactly one series")
	testutil.Ok(t, set.Err())
}

func TestWriteBlockNoSamples(t *testing.T) {
	_, err := WriteBlock(log.NewNopLogger(), t.TempDir(), "none", nil, nil)
	testutil.NotOk(t, err)
}
