package demo

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/goleak"

	"github.com/Iron-Ham/phonebook/internal/config"
	"github.com/Iron-Ham/phonebook/internal/errors"
	"github.com/Iron-Ham/phonebook/internal/logging"
	"github.com/Iron-Ham/phonebook/internal/phonebook"
	"github.com/Iron-Ham/phonebook/internal/record"
	"github.com/Iron-Ham/phonebook/internal/rwlock"
	"github.com/Iron-Ham/phonebook/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fastConfig keeps the default shape but drops every pause.
func fastConfig() config.DemoConfig {
	cfg := config.Default().Demo
	cfg.NameReader.DelayMs = 0
	cfg.PhoneReader.DelayMs = 0
	cfg.Inserter.DelayMs = 0
	cfg.Remover.DelayMs = 0
	return cfg
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) add(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) byOp(op string) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Event
	for _, ev := range l.events {
		if ev.Op == op {
			out = append(out, ev)
		}
	}
	return out
}

func newMemStore() *phonebook.Store {
	return phonebook.New(storage.NewFileStorage(afero.NewMemMapFs(), "/database.txt"))
}

func TestNames(t *testing.T) {
	if got, want := Name(2), "П.І.Б.2"; got != want {
		t.Errorf("Name(2) = %q, want %q", got, want)
	}
	if got, want := Phone(5), "4444444-5"; got != want {
		t.Errorf("Phone(5) = %q, want %q", got, want)
	}
	if got, want := SeedPhone(3), "33333333"; got != want {
		t.Errorf("SeedPhone(3) = %q, want %q", got, want)
	}
}

func TestSeedResetsStore(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	if err := store.Insert(ctx, "stale", "0"); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	log := &eventLog{}
	n, err := NewRunner(store, fastConfig(), WithEventHandler(log.add)).Seed(ctx)
	if err != nil {
		t.Fatalf("Seed() error: %v", err)
	}
	if n != 3 {
		t.Errorf("Seed() = %d, want 3", n)
	}

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	want := []record.Record{
		{Name: "П.І.Б.1", Phone: "11111111"},
		{Name: "П.І.Б.2", Phone: "22222222"},
		{Name: "П.І.Б.3", Phone: "33333333"},
	}
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if seeds := log.byOp(OpSeed); len(seeds) != 3 {
		t.Errorf("seed events = %d, want 3", len(seeds))
	}
}

func TestSeedWithoutReset(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	if err := store.Insert(ctx, "kept", "0"); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	cfg := fastConfig()
	cfg.Reset = false
	cfg.SeedRecords = 1
	if _, err := NewRunner(store, cfg).Seed(ctx); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	if phone, err := store.LookupByName(ctx, "kept"); err != nil || phone != "0" {
		t.Errorf("LookupByName(kept) = %q, %v; want existing record preserved", phone, err)
	}
}

func TestReaderAloneSeesSeeds(t *testing.T) {
	cfg := fastConfig()
	cfg.PhoneReader.Iterations = 0
	cfg.Inserter.Iterations = 0
	cfg.Remover.Iterations = 0

	log := &eventLog{}
	summary, err := NewRunner(newMemStore(), cfg, WithEventHandler(log.add)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	reader := summary.Workers[0]
	if reader.Worker != "reader-1" {
		t.Errorf("Workers[0] = %q, want reader-1", reader.Worker)
	}
	if reader.Ops != 3 || reader.Hits != 3 || reader.Misses != 0 {
		t.Errorf("reader result = %+v, want 3 ops, 3 hits", reader)
	}
	for _, ev := range log.byOp(OpLookupName) {
		if !ev.Found || !strings.HasPrefix(ev.Value, ev.Key[len(NamePrefix):]) {
			t.Errorf("unexpected lookup event %+v", ev)
		}
	}
}

func TestFullScenario(t *testing.T) {
	store := newMemStore()
	log := &eventLog{}

	summary, err := NewRunner(store, fastConfig(), WithEventHandler(log.add)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if summary.Seeded != 3 {
		t.Errorf("Seeded = %d, want 3", summary.Seeded)
	}
	if f := summary.Failures(); f != 0 {
		t.Errorf("Failures() = %d, want 0", f)
	}

	wantOps := map[string]int{"reader-1": 3, "reader-2": 3, "writer-1": 6, "writer-2": 3}
	for _, w := range summary.Workers {
		if w.Ops != wantOps[w.Worker] {
			t.Errorf("%s ops = %d, want %d", w.Worker, w.Ops, wantOps[w.Worker])
		}
		if strings.HasPrefix(w.Worker, "reader") && w.Hits+w.Misses != w.Ops {
			t.Errorf("%s hits+misses = %d, want %d", w.Worker, w.Hits+w.Misses, w.Ops)
		}
	}
	if got := len(log.byOp(OpInsert)); got != 6 {
		t.Errorf("insert events = %d, want 6", got)
	}
	if got := len(log.byOp(OpRemove)); got != 3 {
		t.Errorf("remove events = %d, want 3", got)
	}

	// Whatever the interleaving, inserts 4..6 are never removed and every
	// seed record is.
	ctx := context.Background()
	for i := 4; i <= 6; i++ {
		phone, err := store.LookupByName(ctx, Name(i))
		if err != nil || phone != Phone(i) {
			t.Errorf("LookupByName(%s) = %q, %v; want %q", Name(i), phone, err, Phone(i))
		}
	}
	for i := 1; i <= 3; i++ {
		if _, err := store.LookupByPhone(ctx, SeedPhone(i)); !errors.Is(err, errors.ErrNotFound) {
			t.Errorf("seed phone %s still present: %v", SeedPhone(i), err)
		}
	}
}

func TestStorageFailuresAreCounted(t *testing.T) {
	base := afero.NewMemMapFs()
	if err := storage.NewFileStorage(base, "/database.txt").Save([]record.Record{{Name: Name(1), Phone: SeedPhone(1)}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := phonebook.New(storage.NewFileStorage(afero.NewReadOnlyFs(base), "/database.txt"))

	cfg := fastConfig()
	cfg.Reset = false
	cfg.SeedRecords = 0

	log := &eventLog{}
	summary, err := NewRunner(store, cfg, WithEventHandler(log.add)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got, want := summary.Failures(), 6+3; got != want {
		t.Errorf("Failures() = %d, want %d", got, want)
	}
	for _, ev := range log.byOp(OpInsert) {
		if !errors.Is(ev.Err, errors.ErrStorage) {
			t.Errorf("insert event error = %v, want ErrStorage", ev.Err)
		}
	}
	if reader := summary.Workers[0]; reader.Hits != 1 || reader.Misses != 2 {
		t.Errorf("reader-1 = %+v, want 1 hit, 2 misses", reader)
	}
}

func TestOpTimeoutCountsAsFailure(t *testing.T) {
	lock := rwlock.New()
	if err := lock.Lock(context.Background()); err != nil {
		t.Fatalf("Lock() error: %v", err)
	}
	store := phonebook.New(
		storage.NewFileStorage(afero.NewMemMapFs(), "/database.txt"),
		phonebook.WithLock(lock),
	)

	cfg := fastConfig()
	cfg.Reset = false
	cfg.SeedRecords = 0
	cfg.NameReader.Iterations = 2
	cfg.PhoneReader.Iterations = 0
	cfg.Inserter.Iterations = 0
	cfg.Remover.Iterations = 0

	var logs bytes.Buffer
	runner := NewRunner(store, cfg,
		WithOpTimeout(20*time.Millisecond),
		WithLogger(logging.NewWriterLogger(&logs, "debug")),
	)
	summary, err := runner.Run(context.Background())
	lock.Unlock()

	if err != nil {
		t.Fatalf("Run() error = %v, want nil when only single operations time out", err)
	}
	if reader := summary.Workers[0]; reader.Ops != 2 || reader.Failures != 2 {
		t.Errorf("reader-1 = %+v, want 2 ops, 2 failures", reader)
	}
	// A lock timeout is a CancelError, which is informational.
	for _, want := range []string{`"msg":"operation failed"`, `"level":"INFO"`, `"severity":"info"`, `"retryable":false`} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("log output missing %s:\n%s", want, logs.String())
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := fastConfig()
	cfg.NameReader.DelayMs = int(time.Hour / time.Millisecond)
	cfg.PhoneReader.DelayMs = cfg.NameReader.DelayMs
	cfg.Inserter.DelayMs = cfg.NameReader.DelayMs
	cfg.Remover.DelayMs = cfg.NameReader.DelayMs

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{}, 16)
	runner := NewRunner(newMemStore(), cfg, WithEventHandler(func(ev Event) {
		if ev.Op != OpSeed {
			started <- struct{}{}
		}
	}))

	done := make(chan error, 1)
	go func() {
		_, err := runner.Run(ctx)
		done <- err
	}()

	for i := 0; i < 4; i++ {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("workers did not start")
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want string
	}{
		{
			name: "lookup hit",
			ev:   Event{Worker: "reader-1", Op: OpLookupName, Key: "A", Value: "1", Found: true},
			want: "reader-1: found phone 1 for A",
		},
		{
			name: "lookup miss",
			ev:   Event{Worker: "reader-2", Op: OpLookupPhone, Key: "9"},
			want: "reader-2: no name for phone 9",
		},
		{
			name: "insert",
			ev:   Event{Worker: "writer-1", Op: OpInsert, Key: "A", Value: "1"},
			want: "writer-1: added A with phone 1",
		},
		{
			name: "remove",
			ev:   Event{Worker: "writer-2", Op: OpRemove, Key: "A", Count: 2},
			want: "writer-2: removed 2 record(s) for A",
		},
		{
			name: "failure",
			ev:   Event{Worker: "writer-1", Op: OpInsert, Key: "A", Err: errors.New("disk full")},
			want: "writer-1: insert A failed: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
