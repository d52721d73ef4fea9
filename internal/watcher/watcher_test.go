package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) record(path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestWatcher_DeliversNewJSONFiles(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	w := NewWatcher(dir, []string{".json"}, rec.record, WithSettleDelay(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := writeFile(filepath.Join(dir, "drop.json"), `{"desc":"product"}`); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(dir, "notes.txt"), "ignored"); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, 2*time.Second, func() bool { return len(rec.snapshot()) >= 1 }) {
		t.Fatal("expected a delivery for drop.json")
	}
	time.Sleep(150 * time.Millisecond)
	got := rec.snapshot()
	if len(got) != 1 || !strings.HasSuffix(got[0], "drop.json") {
		t.Errorf("deliveries = %v, want only drop.json", got)
	}
}

func TestWatcher_IgnoresDirectoriesAndSubdirectoryFiles(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	w := NewWatcher(dir, nil, rec.record, WithSettleDelay(0))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	sub := filepath.Join(dir, "sub.json")
	if err := mkdirAll(sub); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(sub, "inner.json"), "{}"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("non-recursive watcher delivered %v", got)
	}
}

func TestWatcher_SettleCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	w := NewWatcher(dir, []string{".json"}, rec.record, WithSettleDelay(150*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "slow.json")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, chunk := range []string{`{"desc":`, ` "slow`, ` product"}`} {
		time.Sleep(40 * time.Millisecond)
		if _, err := f.WriteString(chunk); err != nil {
			t.Fatal(err)
		}
	}
	_ = f.Close()

	if !waitFor(t, 2*time.Second, func() bool { return len(rec.snapshot()) >= 1 }) {
		t.Fatal("expected one delivery")
	}
	time.Sleep(250 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 1 {
		t.Errorf("deliveries = %v, want exactly one", got)
	}
}

func TestWatcher_DeliveriesAreSerial(t *testing.T) {
	dir := t.TempDir()
	var inFlight, maxInFlight, count int32
	onCreate := func(path string) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			m := atomic.LoadInt32(&maxInFlight)
			if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		atomic.AddInt32(&count, 1)
	}
	w := NewWatcher(dir, []string{".json"}, onCreate, WithSettleDelay(10*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for i := 0; i < 5; i++ {
		if err := writeFile(filepath.Join(dir, string(rune('a'+i))+".json"), "{}"); err != nil {
			t.Fatal(err)
		}
	}
	if !waitFor(t, 3*time.Second, func() bool { return atomic.LoadInt32(&count) == 5 }) {
		t.Fatalf("deliveries = %d, want 5", atomic.LoadInt32(&count))
	}
	if m := atomic.LoadInt32(&maxInFlight); m != 1 {
		t.Errorf("max concurrent deliveries = %d, want 1", m)
	}
}

func TestWatcher_StopPreventsDelivery(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	w := NewWatcher(dir, []string{".json"}, rec.record, WithSettleDelay(200*time.Millisecond))
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(dir, "late.json"), "{}"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	w.Stop()
	w.Stop()
	select {
	case <-w.Done():
	default:
		t.Error("Done should be closed after Stop")
	}
	time.Sleep(350 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("delivered after Stop: %v", got)
	}
	if err := w.Start(context.Background()); !errors.Is(err, ErrStopped) {
		t.Errorf("Start after Stop = %v, want ErrStopped", err)
	}
}

func TestWatcher_ContextCancelStops(t *testing.T) {
	w := NewWatcher(t.TempDir(), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	select {
	case <-w.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on context cancel")
	}
}

func TestWatcher_SyncExistingFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.json", "skip.xyz"} {
		if err := writeFile(filepath.Join(dir, name), "{}"); err != nil {
			t.Fatal(err)
		}
	}
	rec := &recorder{}
	w := NewWatcher(dir, []string{".json"}, rec.record)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	n, err := w.SyncExistingFiles()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("queued = %d, want 2", n)
	}
	if !waitFor(t, 2*time.Second, func() bool { return len(rec.snapshot()) == 2 }) {
		t.Fatalf("deliveries = %v", rec.snapshot())
	}
	got := rec.snapshot()
	if !strings.HasSuffix(got[0], "a.json") || !strings.HasSuffix(got[1], "b.json") {
		t.Errorf("existing files should be delivered in name order, got %v", got)
	}
}

func TestWatcher_Start_createsMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Desktop", "spidertest")
	w := NewWatcher(dir, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("directory should exist after Start: %v", err)
	}
	if w.Dir() != dir {
		t.Errorf("Dir() = %s, want %s", w.Dir(), dir)
	}
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path       string
		extensions []string
		want       bool
	}{
		{"/a/b.json", []string{".json"}, true},
		{"/a/b.JSON", []string{"json"}, true},
		{"/a/b.md", []string{".json"}, false},
		{"/a/b", nil, true},
		{"/a/b", []string{}, true},
	}
	for _, tt := range tests {
		got := matchExtension(tt.path, tt.extensions)
		if got != tt.want {
			t.Errorf("matchExtension(%q, %v) = %v, want %v", tt.path, tt.extensions, got, tt.want)
		}
	}
}

func mkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0600)
}
