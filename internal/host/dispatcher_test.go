package host

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dark1zinn/drk/pkg/api"
)

func addEnabled(t *testing.T, reg *Registry, p *fakePlugin) {
	t.Helper()
	require.NoError(t, reg.Add(NewEntry(p.desc, p, nil, true)))
}

func TestFireEventDeliversOnceToEnabledOnly(t *testing.T) {
	reg := newTestRegistry(t)

	active := plainPlugin("active")
	dormant := plainPlugin("dormant")
	addEnabled(t, reg, active)
	require.NoError(t, reg.Add(NewEntry(dormant.desc, dormant, nil, false)))

	report, err := reg.FireEvent(api.Startup{})
	require.NoError(t, err)
	assert.Empty(t, report.Failed)

	require.Len(t, active.handled, 1)
	assert.Equal(t, "startup", active.handled[0].Kind())
	assert.Empty(t, dormant.handled)
}

func TestHandlerFailureDoesNotBlockDelivery(t *testing.T) {
	reg := newTestRegistry(t)

	failing := plainPlugin("failing")
	failing.handleErr = errors.New("broken handler")
	after := plainPlugin("after")

	addEnabled(t, reg, failing)
	addEnabled(t, reg, after)

	report, err := reg.FireEvent(api.Startup{})
	require.NoError(t, err)

	require.Len(t, after.handled, 1, "later entries still receive the event")
	assert.False(t, report.Succeeded("failing"))
	assert.True(t, report.Succeeded("after"))
}

func TestDeliveryFollowsRegistrationOrder(t *testing.T) {
	rec := &recorder{}
	reg := newTestRegistry(t)

	for _, name := range []string{"first", "second", "third"} {
		p := plainPlugin(name)
		p.rec = rec
		addEnabled(t, reg, p)
	}

	_, err := reg.FireEvent(api.Startup{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first:startup", "second:startup", "third:startup"}, rec.events)
}

func TestEmittedEventsDrainAfterCurrentPass(t *testing.T) {
	rec := &recorder{}
	reg := newTestRegistry(t)

	emitter := plainPlugin("emitter")
	emitter.rec = rec
	emitter.onEvent = func(ev api.SystemEvent, ctx api.Context) error {
		if _, ok := ev.(api.Startup); ok {
			ctx.Emit(api.Custom{Source: "emitter", Name: "followup"})
		}
		return nil
	}
	observer := plainPlugin("observer")
	observer.rec = rec

	addEnabled(t, reg, emitter)
	addEnabled(t, reg, observer)

	_, err := reg.FireEvent(api.Startup{})
	require.NoError(t, err)

	// Every entry sees the startup pass complete before anyone sees the
	// emitted event; no re-entrant delivery.
	assert.Equal(t, []string{
		"emitter:startup", "observer:startup",
		"emitter:custom", "observer:custom",
	}, rec.events)
}

func TestEmissionCycleHitsDrainBound(t *testing.T) {
	reg := newTestRegistry(t)

	looper := plainPlugin("looper")
	looper.onEvent = func(ev api.SystemEvent, ctx api.Context) error {
		// Re-emits forever: every delivered custom event spawns another.
		ctx.Emit(api.Custom{Source: "looper", Name: "again"})
		return nil
	}
	addEnabled(t, reg, looper)

	_, err := reg.FireEvent(api.Startup{})
	require.ErrorIs(t, err, ErrEmitCycle)

	// The registry recovers: the queue is dropped and later dispatches work.
	quiet := plainPlugin("quiet")
	looper.onEvent = func(api.SystemEvent, api.Context) error { return nil }
	addEnabled(t, reg, quiet)
	_, err = reg.FireEvent(api.Startup{})
	require.NoError(t, err)
}

func TestContextScopesSettingsPerPlugin(t *testing.T) {
	reg := newTestRegistry(t)

	writer := plainPlugin("writer")
	writer.onEvent = func(_ api.SystemEvent, ctx api.Context) error {
		ctx.Settings()["color"] = "teal"
		return nil
	}
	reader := plainPlugin("reader")
	var readerSaw any
	reader.onEvent = func(_ api.SystemEvent, ctx api.Context) error {
		readerSaw = ctx.Settings()["color"]
		return nil
	}

	addEnabled(t, reg, writer)
	addEnabled(t, reg, reader)

	_, err := reg.FireEvent(api.Startup{})
	require.NoError(t, err)

	assert.Nil(t, readerSaw, "one plugin's settings must not leak into another's namespace")
	assert.Equal(t, "teal", reg.Store().Table("writer")["color"])
	_, hasColor := reg.Store().Table("reader")["color"]
	assert.False(t, hasColor)
}

func TestContextSettingsMutationsPersistAcrossCalls(t *testing.T) {
	reg := newTestRegistry(t)

	counterPlugin := plainPlugin("counter")
	counterPlugin.onEvent = func(_ api.SystemEvent, ctx api.Context) error {
		n, _ := ctx.Settings()["count"].(int)
		ctx.Settings()["count"] = n + 1
		return nil
	}
	addEnabled(t, reg, counterPlugin)

	for i := 0; i < 3; i++ {
		_, err := reg.FireEvent(api.Startup{})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, reg.Store().Table("counter")["count"])
}

func TestContextDecodeSettings(t *testing.T) {
	reg := newTestRegistry(t)
	reg.Store().Table("typed")["greeting_prefix"] = "Hey"
	reg.Store().Table("typed")["volume"] = int64(7)

	type settings struct {
		GreetingPrefix string `mapstructure:"greeting_prefix"`
		Volume         int    `mapstructure:"volume"`
	}

	var decoded settings
	p := plainPlugin("typed")
	p.onEvent = func(_ api.SystemEvent, ctx api.Context) error {
		return ctx.DecodeSettings(&decoded)
	}
	addEnabled(t, reg, p)

	report, err := reg.FireEvent(api.Startup{})
	require.NoError(t, err)
	require.True(t, report.Succeeded("typed"))
	assert.Equal(t, settings{GreetingPrefix: "Hey", Volume: 7}, decoded)
}

func TestCustomPayloadPassedThroughUntouched(t *testing.T) {
	reg := newTestRegistry(t)

	type requestShape struct{ URL string }
	var received *api.Payload

	producer := plainPlugin("producer")
	producer.onEvent = func(ev api.SystemEvent, ctx api.Context) error {
		if _, ok := ev.(api.Startup); ok {
			ctx.Emit(api.Custom{
				Source:  "producer",
				Name:    "request",
				Payload: &api.Payload{Type: "http.Request", Value: requestShape{URL: "https://example.com"}},
			})
		}
		return nil
	}
	consumer := plainPlugin("consumer")
	consumer.onEvent = func(ev api.SystemEvent, _ api.Context) error {
		if custom, ok := ev.(api.Custom); ok && custom.Source == "producer" {
			received = custom.Payload
		}
		return nil
	}

	addEnabled(t, reg, producer)
	addEnabled(t, reg, consumer)

	_, err := reg.FireEvent(api.Startup{})
	require.NoError(t, err)

	require.NotNil(t, received)
	assert.Equal(t, "http.Request", received.Type)
	assert.Equal(t, requestShape{URL: "https://example.com"}, received.Value)
}
