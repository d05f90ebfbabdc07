package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusEmit(t *testing.T) {
	b := NewBus()
	var got []string
	b.Subscribe("app.userRefresh", func(p any) { got = append(got, "first") })
	b.Subscribe("app.userRefresh", func(p any) { got = append(got, "second:"+p.(string)) })
	b.Subscribe("other", func(any) { got = append(got, "other") })

	b.Emit("app.userRefresh", "x")
	assert.Equal(t, []string{"first", "second:x"}, got)
}

func TestBusUnsubscribe(t *testing.T) {
	b := NewBus()
	calls := 0
	unsubscribe := b.Subscribe("e", func(any) { calls++ })
	b.Emit("e", nil)
	unsubscribe()
	unsubscribe()
	b.Emit("e", nil)
	assert.Equal(t, 1, calls)
}

func TestBusUnsubscribeDuringEmit(t *testing.T) {
	b := NewBus()
	var order []int
	var unsubscribe func()
	unsubscribe = b.Subscribe("e", func(any) {
		order = append(order, 1)
		unsubscribe()
	})
	b.Subscribe("e", func(any) { order = append(order, 2) })

	b.Emit("e", nil)
	b.Emit("e", nil)
	assert.Equal(t, []int{1, 2, 2}, order)
}

func TestBusHandlerPanic(t *testing.T) {
	b := NewBus()
	called := false
	b.Subscribe("e", func(any) { panic("boom") })
	b.Subscribe("e", func(any) { called = true })

	assert.NotPanics(t, func() { b.Emit("e", nil) })
	assert.True(t, called)
}

func TestBusNoSubscribers(t *testing.T) {
	assert.NotPanics(t, func() { NewBus().Emit("nobody", 1) })
}
