package eventchain_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/eventchain/pkg/eventchain"
)

func TestNextEvent_NoSuccessors(t *testing.T) {
	router := &stubRouter{successors: false, next: eventchain.Successor{EventName: "login"}}
	dir := mustBuild(t, newDirectory(t, "login"))
	chainer := eventchain.NewChainer(router, dir)

	evt, err := chainer.NextEvent(context.Background(), "in", "out")

	require.NoError(t, err)
	assert.Nil(t, evt)
	assert.Equal(t, int32(0), router.calls.Load(), "router must not be consulted")
}

func TestNextEvent_TerminalNames(t *testing.T) {
	dir := mustBuild(t, newDirectory(t, "login"))

	for _, name := range []string{"", "   ", "\t", "noop", "NOOP", "NoOp", " noop "} {
		t.Run(name, func(t *testing.T) {
			chainer := eventchain.NewChainer(routeTo(name, time.Second), dir)

			evt, err := chainer.NextEvent(context.Background(), nil, "result")

			require.NoError(t, err)
			assert.Nil(t, evt)
		})
	}
}

func TestNextEvent_PassThrough(t *testing.T) {
	clock := eventchain.NewFakeClock(testStart)
	dir := mustBuild(t, newDirectory(t, "processDocument"))
	router := routeTo("processDocument", 500*time.Millisecond)
	chainer := eventchain.NewChainer(router, dir, eventchain.WithClock(clock))

	prior := map[string]any{"doc": "a.pdf", "pages": 3}
	evt, err := chainer.NextEvent(context.Background(), "input", prior)

	require.NoError(t, err)
	require.NotNil(t, evt)
	assert.Equal(t, "processDocument", evt.Name)
	assert.Equal(t, prior, evt.Payload)
	assert.Equal(t, testStart.Add(500*time.Millisecond), evt.ScheduledAt)
	assert.True(t, evt.Immediate)
	assert.True(t, evt.IsRoot())
	assert.Equal(t, evt.ID, evt.ChainID)

	assert.Equal(t, "input", router.lastInput)
	assert.Equal(t, prior, router.lastResult)
}

func TestNextEvent_TransformerSuccess(t *testing.T) {
	var gotInput, gotResult any
	transform := eventchain.TransformerFunc(func(_ context.Context, input, result any) eventchain.TransformResult {
		gotInput, gotResult = input, result
		return eventchain.Success("built payload")
	})
	dir := mustBuild(t, newDirectory(t).RegisterTransformer("createUser", nopProcessor, transform))
	chainer := eventchain.NewChainer(routeTo("createUser", 0), dir)

	evt, err := chainer.NextEvent(context.Background(), "prior input", "prior result")

	require.NoError(t, err)
	require.NotNil(t, evt)
	assert.Equal(t, "built payload", evt.Payload)
	assert.Equal(t, "prior input", gotInput)
	assert.Equal(t, "prior result", gotResult)
}

func TestNextEvent_TransformerFailure(t *testing.T) {
	proc := &builderProcessor{result: eventchain.TransformResult{Status: eventchain.StatusFailure, Payload: "ignored"}}
	dir := mustBuild(t, newDirectory(t).Register("createUser", proc))

	var observed []string
	observer := func(_ context.Context, source, eventName string, payload any) {
		observed = append(observed, source+"->"+eventName)
		assert.Equal(t, "ignored", payload)
	}
	chainer := eventchain.NewChainer(routeTo("createUser", 0), dir,
		eventchain.WithSource("signup"),
		eventchain.WithTransformFailureObserver(observer),
	)

	evt, err := chainer.NextEvent(context.Background(), nil, "result")

	require.NoError(t, err, "a failed transform is not an error")
	assert.Nil(t, evt)
	assert.Equal(t, int32(1), proc.calls.Load())
	assert.Equal(t, []string{"signup->createUser"}, observed)
}

func TestNextEvent_TransformerBuiltNothing(t *testing.T) {
	var observed int
	empty := eventchain.TransformerFunc(func(_ context.Context, _, _ any) eventchain.TransformResult {
		return eventchain.TransformResult{}
	})
	dir := mustBuild(t, newDirectory(t).RegisterTransformer("createUser", nopProcessor, empty))
	chainer := eventchain.NewChainer(routeTo("createUser", 0), dir,
		eventchain.WithTransformFailureObserver(func(context.Context, string, string, any) { observed++ }))

	evt, err := chainer.NextEvent(context.Background(), "input", "result")

	require.NoError(t, err)
	assert.Nil(t, evt)
	assert.Equal(t, 1, observed)
	assert.Equal(t, eventchain.ReasonTransformFailed,
		chainer.Resolve(context.Background(), "input", "result").Reason)
}

func TestNextEvent_TransformerFailureSilentByDefault(t *testing.T) {
	proc := &builderProcessor{result: eventchain.Failure()}
	dir := mustBuild(t, newDirectory(t).Register("createUser", proc))

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	chainer := eventchain.NewChainer(routeTo("createUser", 0), dir, eventchain.WithLogger(logger))

	out := chainer.Resolve(context.Background(), nil, "result")

	assert.Equal(t, eventchain.OutcomeTerminated, out.Kind)
	assert.Equal(t, eventchain.ReasonTransformFailed, out.Reason)
	assert.Empty(t, buf.String(), "nothing is logged at warn level or above")
}

func TestNextEvent_UnknownSuccessor(t *testing.T) {
	dir := mustBuild(t, newDirectory(t, "login"))
	chainer := eventchain.NewChainer(routeTo("ghostEvent", 100*time.Millisecond), dir,
		eventchain.WithSource("browse"))

	evt, err := chainer.NextEvent(context.Background(), nil, "result")

	assert.Nil(t, evt)
	require.Error(t, err)
	assert.True(t, errors.Is(err, eventchain.ErrUnknownSuccessor))
	assert.True(t, eventchain.IsConfigError(err))

	var cfgErr *eventchain.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "ghostEvent", cfgErr.EventName)
	assert.Equal(t, "browse", cfgErr.Source)
	assert.Contains(t, err.Error(), "no further events will be published")
}

func TestNextEvent_UnknownSuccessorSkipsTransform(t *testing.T) {
	// A lookup miss is fatal before any capability is touched
	chainer := eventchain.NewChainer(routeTo("createUser", 0), nil)

	out := chainer.Resolve(context.Background(), nil, nil)

	assert.True(t, out.Fatal())
	assert.Nil(t, out.Event)
}

func TestNextEvent_Delay(t *testing.T) {
	tests := []struct {
		name  string
		delay time.Duration
		want  time.Time
	}{
		{"zero delay is due immediately", 0, testStart},
		{"milliseconds", 250 * time.Millisecond, testStart.Add(250 * time.Millisecond)},
		{"large delay", 365 * 24 * time.Hour, testStart.Add(365 * 24 * time.Hour)},
		{"negative delay is clamped", -time.Minute, testStart},
	}

	dir := mustBuild(t, newDirectory(t, "step"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := eventchain.NewFakeClock(testStart)
			chainer := eventchain.NewChainer(routeTo("step", tt.delay), dir, eventchain.WithClock(clock))

			evt, err := chainer.NextEvent(context.Background(), nil, nil)

			require.NoError(t, err)
			require.NotNil(t, evt)
			assert.Equal(t, tt.want, evt.ScheduledAt)
			assert.Equal(t, tt.want.Sub(testStart), evt.DueIn(testStart))
		})
	}
}

func TestNextEvent_Idempotent(t *testing.T) {
	clock := eventchain.NewFakeClock(testStart)
	dir := mustBuild(t, newDirectory(t, "browse"))
	chainer := eventchain.NewChainer(routeTo("browse", 2*time.Second), dir, eventchain.WithClock(clock))

	first, err := chainer.NextEvent(context.Background(), "in", "out")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	second, err := chainer.NextEvent(context.Background(), "in", "out")
	require.NoError(t, err)

	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, first.Payload, second.Payload)
	assert.Equal(t, first.ScheduledAt.Add(time.Minute), second.ScheduledAt)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestResolve_Outcomes(t *testing.T) {
	failing := &builderProcessor{result: eventchain.Failure()}
	dir := mustBuild(t, newDirectory(t, "login").Register("createUser", failing))

	tests := []struct {
		name       string
		router     eventchain.Router
		wantKind   eventchain.OutcomeKind
		wantReason eventchain.Reason
	}{
		{"terminal router", eventchain.Terminal, eventchain.OutcomeTerminated, eventchain.ReasonNoSuccessors},
		{"noop", routeTo("noop", 0), eventchain.OutcomeTerminated, eventchain.ReasonNoop},
		{"transform failed", routeTo("createUser", 0), eventchain.OutcomeTerminated, eventchain.ReasonTransformFailed},
		{"continue", routeTo("login", 0), eventchain.OutcomeContinue, eventchain.ReasonNone},
		{"unknown", routeTo("ghost", 0), eventchain.OutcomeConfigError, eventchain.ReasonNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := eventchain.NewChainer(tt.router, dir).Resolve(context.Background(), nil, nil)
			assert.Equal(t, tt.wantKind, out.Kind)
			assert.Equal(t, tt.wantReason, out.Reason)
			assert.Equal(t, tt.wantKind == eventchain.OutcomeContinue, out.Event != nil)
			assert.Equal(t, tt.wantKind == eventchain.OutcomeConfigError, out.Err != nil)
		})
	}
}

func TestResolveFrom_Lineage(t *testing.T) {
	dir := mustBuild(t, newDirectory(t, "browse"))
	router := routeTo("browse", 0)
	chainer := eventchain.NewChainer(router, dir)

	prior := eventchain.NewEvent("login", testStart, "credentials")
	out := chainer.ResolveFrom(context.Background(), prior, "session")

	require.True(t, out.Continues())
	assert.Equal(t, prior.ChainID, out.Event.ChainID)
	assert.Equal(t, prior.ID, out.Event.CausationID)
	assert.False(t, out.Event.IsRoot())
	assert.Equal(t, "credentials", router.lastInput)
	assert.Equal(t, "session", out.Event.Payload)
}

func TestRouterFunc(t *testing.T) {
	dir := mustBuild(t, newDirectory(t, "even", "odd"))
	router := eventchain.RouterFunc(func(_, result any) eventchain.Successor {
		if result.(int)%2 == 0 {
			return eventchain.Successor{EventName: "even"}
		}
		return eventchain.Successor{EventName: "odd"}
	})
	chainer := eventchain.NewChainer(router, dir)

	evt, err := chainer.NextEvent(context.Background(), nil, 4)
	require.NoError(t, err)
	assert.Equal(t, "even", evt.Name)

	evt, err = chainer.NextEvent(context.Background(), nil, 7)
	require.NoError(t, err)
	assert.Equal(t, "odd", evt.Name)
}

func TestNewChainer_NilRouter(t *testing.T) {
	chainer := eventchain.NewChainer(nil, nil)

	evt, err := chainer.NextEvent(context.Background(), nil, nil)

	require.NoError(t, err)
	assert.Nil(t, evt)
	assert.Equal(t, eventchain.Terminal, chainer.Router())
}

func TestChainer_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	dir := mustBuild(t, newDirectory(t, "browse"))
	chainer := eventchain.NewChainer(routeTo("browse", 0), dir,
		eventchain.WithLogger(logger), eventchain.WithSource("login"))

	_, err := chainer.NextEvent(context.Background(), nil, nil)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "chain step resolved")
	assert.Contains(t, out, `"source":"login"`)
	assert.Contains(t, out, `"next":"browse"`)
	assert.Contains(t, out, `"outcome":"continue"`)
}

func TestChainer_Concurrent(t *testing.T) {
	dir := mustBuild(t, newDirectory(t, "browse"))
	chainer := eventchain.NewChainer(eventchain.RouterFunc(func(input, _ any) eventchain.Successor {
		return eventchain.Successor{EventName: "browse", Delay: time.Duration(input.(int)) * time.Millisecond}
	}), dir, eventchain.WithClock(eventchain.NewFakeClock(testStart)))

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			evt, err := chainer.NextEvent(context.Background(), i, i)
			if err != nil {
				errs <- err
				return
			}
			if !evt.ScheduledAt.Equal(testStart.Add(time.Duration(i) * time.Millisecond)) {
				errs <- errors.New("wrong schedule")
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
