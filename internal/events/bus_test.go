package events

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublishRegistrationOrder(t *testing.T) {
	t.Parallel()
	bus := New()
	bus.SetLogger(func(string, ...any) {})

	var got []string
	bus.Subscribe("cart:changed", func(any) { got = append(got, "first") })
	bus.Subscribe("cart:changed", func(any) { got = append(got, "second") })
	bus.Subscribe("other", func(any) { got = append(got, "never") })

	bus.Publish("cart:changed", nil)
	require.Equal(t, []string{"first", "second"}, got)
}

func TestPatternSubscribersRunAfterExact(t *testing.T) {
	t.Parallel()
	bus := New()

	var got []string
	bus.SubscribePattern(regexp.MustCompile(`^form`), func(any) { got = append(got, "pattern") })
	bus.Subscribe("formErrors:changed", func(any) { got = append(got, "exact") })
	bus.SubscribePattern(regexp.MustCompile(`changed$`), func(any) { got = append(got, "suffix") })

	bus.Publish("formErrors:changed", nil)
	require.Equal(t, []string{"exact", "pattern", "suffix"}, got)

	got = nil
	bus.Publish("order:submit", nil)
	require.Empty(t, got)
}

func TestNestedPublishRunsSynchronously(t *testing.T) {
	t.Parallel()
	bus := New()

	var got []string
	bus.Subscribe("outer", func(any) {
		got = append(got, "outer-start")
		bus.Publish("inner", nil)
		got = append(got, "outer-end")
	})
	bus.Subscribe("inner", func(any) { got = append(got, "inner") })

	bus.Publish("outer", nil)
	require.Equal(t, []string{"outer-start", "inner", "outer-end"}, got)
}

func TestUnsubscribeIdempotent(t *testing.T) {
	t.Parallel()
	bus := New()

	calls := 0
	sub := bus.Subscribe("topic", func(any) { calls++ })
	bus.Publish("topic", nil)
	bus.Unsubscribe(sub)
	bus.Unsubscribe(sub)
	bus.Unsubscribe(nil)
	bus.Publish("topic", nil)
	require.Equal(t, 1, calls)
}

func TestUnsubscribePattern(t *testing.T) {
	t.Parallel()
	bus := New()

	calls := 0
	sub := bus.SubscribePattern(regexp.MustCompile(`.*`), func(any) { calls++ })
	bus.Publish("anything", nil)
	bus.Unsubscribe(sub)
	bus.Publish("anything", nil)
	require.Equal(t, 1, calls)
}

func TestPanickingHandlerDoesNotStopFanout(t *testing.T) {
	t.Parallel()
	bus := New()
	var logged int
	bus.SetLogger(func(string, ...any) { logged++ })

	var got []string
	bus.Subscribe("topic", func(any) { got = append(got, "a") })
	bus.Subscribe("topic", func(any) { panic("boom") })
	bus.Subscribe("topic", func(any) { got = append(got, "c") })

	bus.Publish("topic", nil)
	require.Equal(t, []string{"a", "c"}, got)
	require.Equal(t, 1, logged)
}

func TestPayloadDelivered(t *testing.T) {
	t.Parallel()
	bus := New()

	type payload struct{ ID string }
	var seen payload
	bus.Subscribe("card:select", func(p any) { seen = p.(payload) })
	bus.Publish("card:select", payload{ID: "p-1"})
	require.Equal(t, "p-1", seen.ID)
}

func TestSubscribeDuringDispatchTakesEffectNextPublish(t *testing.T) {
	t.Parallel()
	bus := New()

	calls := 0
	bus.Subscribe("topic", func(any) {
		if calls == 0 {
			bus.Subscribe("topic", func(any) { calls += 10 })
		}
		calls++
	})

	bus.Publish("topic", nil)
	require.Equal(t, 1, calls)
	bus.Publish("topic", nil)
	require.Equal(t, 12, calls)
}
