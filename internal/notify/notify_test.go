package notify

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenterAddAndList(t *testing.T) {
	var sink bytes.Buffer
	c := NewCenter(&sink)

	c.Error("Request error", "The URL returned a 404 (not found): /x")
	c.Success("Saved", "")
	c.Info("", "Culture set to en-US")

	list := c.List()
	require.Len(t, list, 3)
	assert.Equal(t, 1, list[0].ID)
	assert.Equal(t, "error", list[0].TypeName)
	assert.True(t, list[0].Sticky)
	assert.False(t, list[0].CreatedAt.IsZero())

	assert.Equal(t,
		"error: Request error: The URL returned a 404 (not found): /x\nsuccess: Saved\ninfo: Culture set to en-US\n",
		sink.String())
}

func TestCenterDeduplicatesLive(t *testing.T) {
	c := NewCenter(nil)
	first := c.Add(Notification{Type: TypeError, Headline: "h", Message: "m"})
	second := c.Add(Notification{Type: TypeError, Headline: "h", Message: "m"})
	assert.Equal(t, first, second)
	assert.Len(t, c.List(), 1)

	// Same text at a different severity is a different notification.
	c.Warning("h", "m")
	assert.Len(t, c.List(), 2)

	c.Remove(first)
	third := c.Add(Notification{Type: TypeError, Headline: "h", Message: "m"})
	assert.NotEqual(t, first, third)
}

func TestCenterRemove(t *testing.T) {
	c := NewCenter(nil)
	a := c.Add(Notification{Type: TypeInfo, Message: "a"})
	c.Add(Notification{Type: TypeInfo, Message: "b"})

	c.Remove(a)
	c.Remove(999)
	list := c.List()
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].Message)

	c.RemoveAll()
	assert.Empty(t, c.List())
}

func TestCenterErrors(t *testing.T) {
	c := NewCenter(nil)
	c.Info("", "a")
	c.Error("Authorization error", "b")
	errs := c.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "b", errs[0].Message)
}

func TestCenterConcurrent(t *testing.T) {
	c := NewCenter(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Error("Request error", "same")
		}()
	}
	wg.Wait()
	assert.Len(t, c.List(), 1)
}
