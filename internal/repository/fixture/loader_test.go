package fixture

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/corpdex/internal/domain"
	"github.com/kailas-cloud/corpdex/internal/domain/record"
)

func file(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }

func ids(t *testing.T, recs []record.Record) []int64 {
	t.Helper()
	out := make([]int64, len(recs))
	for i, r := range recs {
		id, ok := r.ID()
		if !ok {
			t.Fatalf("record %d has no id", i)
		}
		out[i] = id
	}
	return out
}

func assertIDs(t *testing.T, got []record.Record, want ...int64) {
	t.Helper()
	g := ids(t, got)
	if len(g) != len(want) {
		t.Fatalf("ids = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("ids = %v, want %v", g, want)
		}
	}
}

func TestLoad_MergesFilesInNameOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"companies/company2.json": file(`[{"id":2,"name":"Company B"}]`),
		"companies/company1.json": file(`[{"id":1,"name":"Company A"},{"id":3}]`),
		"companies/README.md":     file(`not data`),
		"companies/nested/x.json": file(`[{"id":99}]`),
	}

	got, err := New(fsys, nil).Load(context.Background(), record.Companies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertIDs(t, got, 1, 3, 2)
}

func TestLoad_DuplicateIDsSurvive(t *testing.T) {
	fsys := fstest.MapFS{
		"companies/a.json": file(`[{"id":1,"src":"a"}]`),
		"companies/b.json": file(`[{"id":1,"src":"b"}]`),
	}

	got, err := New(fsys, nil).Load(context.Background(), record.Companies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertIDs(t, got, 1, 1)
	if v, _ := got[1].Get("src"); v != "b" {
		t.Errorf("second record src = %v, want b", v)
	}
}

func TestLoad_SkipsInvalidFiles(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "skipped"}, []string{"kind", "reason"})
	loaded := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "loaded"}, []string{"kind"})

	fsys := fstest.MapFS{
		"companies/good.json":    file(`[{"id":1,"name":"Company A"}]`),
		"companies/invalid.json": file(`{ id: 1, name: "Company A" }`),
		"companies/object.json":  file(`{"id":5}`),
		"companies/empty.json":   file(``),
	}

	l := New(fsys, zap.New(core)).WithMetrics(skipped, loaded)
	got, err := l.Load(context.Background(), record.Companies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertIDs(t, got, 1)

	if n := logs.FilterMessage("Skipping fixture file").Len(); n != 3 {
		t.Errorf("expected 3 skip warnings, got %d", n)
	}
	if v := testutil.ToFloat64(skipped.WithLabelValues("companies", "parse")); v != 3 {
		t.Errorf("skipped{parse} = %f, want 3", v)
	}
	if v := testutil.ToFloat64(loaded.WithLabelValues("companies")); v != 1 {
		t.Errorf("loaded = %f, want 1", v)
	}
}

func TestLoad_WhollyInvalidYieldsEmpty(t *testing.T) {
	fsys := fstest.MapFS{
		"companies/invalid.json": file(`{ id: 1, name: "Company A" }`),
	}

	got, err := New(fsys, nil).Load(context.Background(), record.Companies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestLoad_DropsNonObjectElements(t *testing.T) {
	fsys := fstest.MapFS{
		"employees/e.json": file(`[{"id":1,"company_id":1}, 42, "x", null, [1], {"id":2,"company_id":1}]`),
	}

	got, err := New(fsys, nil).Load(context.Background(), record.Employees)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertIDs(t, got, 1, 2)
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := New(fstest.MapFS{}, nil).Load(context.Background(), record.Companies)
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestLoad_UnknownKind(t *testing.T) {
	_, err := New(fstest.MapFS{}, nil).Load(context.Background(), record.Kind("invoices"))
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestLoad_CustomExtension(t *testing.T) {
	fsys := fstest.MapFS{
		"companies/a.json":  file(`[{"id":1}]`),
		"companies/b.jsonl": file(`[{"id":2}]`),
	}

	got, err := New(fsys, nil).WithExtension(".jsonl").Load(context.Background(), record.Companies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertIDs(t, got, 2)
}

func TestLoad_CancelledContext(t *testing.T) {
	fsys := fstest.MapFS{
		"companies/a.json": file(`[{"id":1}]`),
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(fsys, nil).Load(ctx, record.Companies)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoadByIDs(t *testing.T) {
	fsys := fstest.MapFS{
		"companies/company1.json": file(`[{"id":1,"name":"Company A"},{"id":"2"}]`),
		"companies/company2.json": file(`[{"id":2,"name":"Company B"},{"name":"no id"}]`),
	}
	l := New(fsys, nil).WithConcurrency(1)

	got, err := l.LoadByIDs(context.Background(), record.Companies, []int64{2, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertIDs(t, got, 1, 2)

	none, err := l.LoadByIDs(context.Background(), record.Companies, []int64{3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no records, got %d", len(none))
	}
}

func TestPing(t *testing.T) {
	fsys := fstest.MapFS{
		"companies/a.json": file(`[]`),
		"employees":        file(`not a dir`),
	}
	l := New(fsys, nil)

	if err := l.Ping(context.Background(), record.Companies); err != nil {
		t.Errorf("companies: unexpected error: %v", err)
	}
	if err := l.Ping(context.Background(), record.Employees); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Errorf("employees: expected ErrStorageUnavailable, got %v", err)
	}
}

func TestParseArray(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantLen int
		wantErr bool
	}{
		{"empty array", `[]`, 0, false},
		{"whitespace", "  \n[{\"id\":1}]\n", 1, false},
		{"truncated", `[{"id":1}`, 0, true},
		{"object", `{"id":1}`, 0, true},
		{"null", `null`, 0, true},
		{"empty file", ``, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArray([]byte(tt.data), nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestLoad_SkipHook(t *testing.T) {
	fsys := fstest.MapFS{
		"companies/a.json": file(`[{"id":1}]`),
		"companies/b.json": file(`{"id":2}`),
		"companies/c.json": file(`[{"id":3`),
	}

	type skip struct {
		kind   record.Kind
		file   string
		reason string
	}
	var got []skip
	l := New(fsys, nil).WithSkipHook(func(kind record.Kind, file, reason string, err error) {
		if err == nil {
			t.Errorf("%s: expected a cause", file)
		}
		got = append(got, skip{kind, file, reason})
	})

	recs, err := l.Load(context.Background(), record.Companies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertIDs(t, recs, 1)

	want := []skip{
		{record.Companies, "companies/b.json", "parse"},
		{record.Companies, "companies/c.json", "parse"},
	}
	if len(got) != len(want) {
		t.Fatalf("skips = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("skip[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
