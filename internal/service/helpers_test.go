package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/movieshelf/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fakeCatalog 按标题返回预置条目，并记录调用次数
type fakeCatalog struct {
	entries map[string]model.CatalogEntry
	err     error
	release chan struct{}
	calls   atomic.Int32
}

func (f *fakeCatalog) FetchByTitle(ctx context.Context, title string) (*model.CatalogEntry, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	entry, ok := f.entries[title]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// testClock 可手动推进的时钟
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var inception = model.CatalogEntry{
	Title:     "Inception",
	Year:      "2010",
	Director:  "Christopher Nolan",
	Poster:    "https://example.com/inception.jpg",
	CatalogID: "tt1375666",
}
