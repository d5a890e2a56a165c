package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTTLCache_GetSet(t *testing.T) {
	c := NewTTLCache[string](time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", "v")
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
	assert.Equal(t, 1, c.Len())

	c.Set("k", "v2")
	v, _ = c.Get("k")
	assert.Equal(t, "v2", v)

	c.Delete("k")
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestTTLCache_Expiry(t *testing.T) {
	clk := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewTTLCache[int](10 * time.Minute).WithClock(clk.Now)

	c.Set("k", 42)

	clk.Advance(10*time.Minute - time.Nanosecond)
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	// 恰好到期即视为未命中
	clk.Advance(time.Nanosecond)
	_, ok = c.Get("k")
	assert.False(t, ok)

	// 过期条目可被覆盖
	c.Set("k", 43)
	v, ok = c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 43, v)
}

func TestTTLCache_DeleteExpired(t *testing.T) {
	c := NewTTLCache[string](time.Millisecond)
	c.Set("a", "1")
	c.Set("b", "2")
	require.Equal(t, 2, c.Len())

	time.Sleep(5 * time.Millisecond)
	c.DeleteExpired()
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_Clear(t *testing.T) {
	c := NewTTLCache[string](time.Minute)
	c.Set("a", "1")
	c.Clear()
	assert.Equal(t, 0, c.Len())
}
