package worker

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nekomimist/nvpix/internal/decode"
	"github.com/nekomimist/nvpix/internal/metrics"
	"github.com/nekomimist/nvpix/internal/navigator"
)

func okDecode(ctx context.Context, req Request) (*decode.FrameSequence, error) {
	return decode.Static(image.NewRGBA(image.Rect(0, 0, 2, 2))), nil
}

func receive(t *testing.T, p *Pool) Result {
	t.Helper()
	select {
	case res := <-p.Results():
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a result")
		return Result{}
	}
}

func req(path string, gen uint64, prio Priority) Request {
	return Request{Path: navigator.FilePath(path), Generation: gen, ScaleHint: 1, Priority: prio}
}

func TestPoolDeliversResults(t *testing.T) {
	m := metrics.New()
	p := New(Config{Workers: 2, QueueDepth: 4}, okDecode, nil, m)
	p.Start(context.Background())
	defer p.Stop()

	if !p.Submit(req("a.png", 1, PriorityNormal)) {
		t.Fatal("Submit refused")
	}
	res := receive(t, p)
	if res.Err != nil || res.Seq == nil {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Path.Path != "a.png" || res.Generation != 1 || res.Prefetch {
		t.Errorf("result fields = %+v", res)
	}
	if got := testutil.ToFloat64(m.DecodeResults().WithLabelValues(metrics.OutcomeOK)); got != 1 {
		t.Errorf("ok outcome count = %v", got)
	}
}

func TestSupersedeDropsOlderQueued(t *testing.T) {
	p := New(Config{Workers: 1, QueueDepth: 8}, okDecode, nil, nil)

	p.Submit(req("a.png", 1, PriorityNormal))
	p.Submit(req("b.png", 1, PriorityPrefetch))
	p.Submit(req("c.png", 2, PriorityNormal))

	if n := p.Supersede(2); n != 2 {
		t.Errorf("Supersede dropped %d, want 2", n)
	}
	stats := p.Stats()
	if stats.QueueSize != 1 || stats.Dropped != 2 {
		t.Errorf("stats = %+v", stats)
	}

	p.Start(context.Background())
	defer p.Stop()
	if res := receive(t, p); res.Path.Path != "c.png" {
		t.Errorf("got %s, want c.png", res.Path.Path)
	}
}

func TestSubmitReplacesSamePath(t *testing.T) {
	p := New(Config{Workers: 1, QueueDepth: 8}, okDecode, nil, nil)

	p.Submit(req("a.png", 1, PriorityNormal))
	p.Submit(req("a.png", 2, PriorityPrefetch))
	if size := p.Stats().QueueSize; size != 1 {
		t.Fatalf("queue size = %d, want 1", size)
	}

	p.Start(context.Background())
	defer p.Stop()
	res := receive(t, p)
	if res.Generation != 2 {
		t.Errorf("generation = %d, want 2", res.Generation)
	}
	if res.Prefetch {
		t.Error("replacing a normal request must not demote it to prefetch")
	}
}

func TestQueueDepthCap(t *testing.T) {
	m := metrics.New()
	p := New(Config{Workers: 1, QueueDepth: 2}, okDecode, nil, m)

	p.Submit(req("p1.png", 1, PriorityPrefetch))
	p.Submit(req("n1.png", 1, PriorityNormal))
	if !p.Submit(req("n2.png", 1, PriorityNormal)) {
		t.Fatal("normal request refused while a prefetch could be dropped")
	}
	if p.Submit(req("p2.png", 1, PriorityPrefetch)) {
		t.Error("prefetch accepted into a queue full of normal requests")
	}
	if !p.Submit(req("n3.png", 1, PriorityNormal)) {
		t.Error("normal request refused")
	}

	stats := p.Stats()
	if stats.QueueSize != 2 || stats.Dropped != 3 {
		t.Errorf("stats = %+v, want size 2 dropped 3", stats)
	}
	if got := testutil.ToFloat64(m.QueueDroppedTotal()); got != 3 {
		t.Errorf("dropped metric = %v", got)
	}

	p.Start(context.Background())
	defer p.Stop()
	first, second := receive(t, p), receive(t, p)
	if first.Path.Path != "n2.png" || second.Path.Path != "n3.png" {
		t.Errorf("processed %s then %s, want n2.png then n3.png", first.Path.Path, second.Path.Path)
	}
}

func TestNormalRunsBeforePrefetch(t *testing.T) {
	p := New(Config{Workers: 1, QueueDepth: 8}, okDecode, nil, nil)
	p.Submit(req("prefetch.png", 1, PriorityPrefetch))
	p.Submit(req("wanted.png", 1, PriorityNormal))

	p.Start(context.Background())
	defer p.Stop()
	if res := receive(t, p); res.Path.Path != "wanted.png" {
		t.Errorf("first result %s, want wanted.png", res.Path.Path)
	}
	if res := receive(t, p); !res.Prefetch {
		t.Error("second result should be the prefetch")
	}
}

func TestPanicBecomesInternalError(t *testing.T) {
	fn := func(ctx context.Context, r Request) (*decode.FrameSequence, error) {
		if r.Path.Path == "bad.png" {
			panic("decoder exploded")
		}
		return okDecode(ctx, r)
	}
	m := metrics.New()
	p := New(Config{Workers: 1, QueueDepth: 4}, fn, nil, m)
	p.Start(context.Background())
	defer p.Stop()

	p.Submit(req("bad.png", 1, PriorityNormal))
	res := receive(t, p)
	if !errors.Is(res.Err, decode.ErrInternal) || decode.KindOf(res.Err) != decode.KindInternal {
		t.Errorf("expected internal error, got %v", res.Err)
	}

	p.Submit(req("good.png", 1, PriorityNormal))
	if res := receive(t, p); res.Err != nil {
		t.Errorf("pool did not survive the panic: %v", res.Err)
	}
	if got := testutil.ToFloat64(m.DecodeResults().WithLabelValues(metrics.OutcomeInternal)); got != 1 {
		t.Errorf("internal outcome count = %v", got)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, metrics.OutcomeOK},
		{&decode.Error{Kind: decode.KindIO, Err: &navigator.IoError{Path: "x", Err: errors.New("gone")}}, metrics.OutcomeIO},
		{&decode.Error{Kind: decode.KindUnsupported, Err: decode.ErrUnsupported}, metrics.OutcomeUnsupported},
		{&decode.Error{Kind: decode.KindMalformed, Err: decode.ErrMalformed}, metrics.OutcomeMalformed},
		{errors.New("boom"), metrics.OutcomeInternal},
	}
	for _, tt := range tests {
		if got := Outcome(tt.err); got != tt.want {
			t.Errorf("Outcome(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestStopClosesResults(t *testing.T) {
	p := New(Config{Workers: 2, QueueDepth: 4}, okDecode, nil, nil)
	p.Start(context.Background())
	p.Stop()

	if _, ok := <-p.Results(); ok {
		t.Error("Results should be closed after Stop")
	}
	if p.Submit(req("a.png", 1, PriorityNormal)) {
		t.Error("Submit accepted after Stop")
	}
}

func TestBusyUntilResultsRead(t *testing.T) {
	release := make(chan struct{})
	p := New(Config{Workers: 1, QueueDepth: 4}, func(ctx context.Context, req Request) (*decode.FrameSequence, error) {
		<-release
		return okDecode(ctx, req)
	}, nil, nil)
	if p.Busy() {
		t.Fatal("new pool reports busy")
	}
	p.Start(context.Background())
	defer p.Stop()

	p.Submit(req("a.png", 1, PriorityNormal))
	if !p.Busy() {
		t.Error("pool with queued work reports idle")
	}
	close(release)
	receive(t, p)

	deadline := time.Now().Add(5 * time.Second)
	for p.Busy() {
		if time.Now().After(deadline) {
			t.Fatal("pool still busy after its only result was read")
		}
		time.Sleep(time.Millisecond)
	}
}
