package eventchain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/eventchain/pkg/eventchain"
	"github.com/randalmurphal/eventchain/pkg/eventchain/selector"
)

func TestGraph_Resolve(t *testing.T) {
	dir := mustBuild(t, newDirectory(t, "login", "browse", "logout"))
	g := eventchain.NewGraph(dir, map[string]eventchain.Router{
		"login":  selector.Single("browse", time.Second),
		"browse": selector.Single("logout", 0),
		"logout": eventchain.Terminal,
	}, eventchain.WithClock(eventchain.NewFakeClock(testStart)))

	assert.Equal(t, []string{"browse", "login", "logout"}, g.Names())

	login := eventchain.NewEvent("login", testStart, "user-1")
	out := g.Resolve(context.Background(), login, "session-1")
	require.True(t, out.Continues())
	assert.Equal(t, "browse", out.Event.Name)
	assert.Equal(t, testStart.Add(time.Second), out.Event.ScheduledAt)
	assert.Equal(t, login.ChainID, out.Event.ChainID)

	out = g.Resolve(context.Background(), out.Event, "page")
	require.True(t, out.Continues())
	assert.Equal(t, "logout", out.Event.Name)

	out = g.Resolve(context.Background(), out.Event, nil)
	assert.Equal(t, eventchain.ReasonNoSuccessors, out.Reason)
}

func TestGraph_ResolveUnroutedEvent(t *testing.T) {
	g := eventchain.NewGraph(mustBuild(t, newDirectory(t, "orphan")), nil)

	out := g.Resolve(context.Background(), eventchain.NewEvent("orphan", testStart, nil), nil)
	assert.Equal(t, eventchain.OutcomeTerminated, out.Kind)
	assert.Equal(t, eventchain.ReasonNoSuccessors, out.Reason)

	out = g.Resolve(context.Background(), nil, nil)
	assert.Equal(t, eventchain.OutcomeTerminated, out.Kind)
}

func TestGraph_ChainerCarriesSource(t *testing.T) {
	dir := mustBuild(t, newDirectory(t, "login"))
	g := eventchain.NewGraph(dir, map[string]eventchain.Router{
		"login": selector.Single("missing", 0),
	}, eventchain.WithSource("overridden"))

	c, ok := g.Chainer("login")
	require.True(t, ok)
	assert.Equal(t, "login", c.Source())

	_, err := c.NextEvent(context.Background(), nil, nil)
	var cfgErr *eventchain.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "login", cfgErr.Source)

	_, ok = g.Chainer("nope")
	assert.False(t, ok)
}

func TestGraph_Validate(t *testing.T) {
	dir := mustBuild(t, newDirectory(t, "login", "browse"))

	t.Run("all targets resolve", func(t *testing.T) {
		g := eventchain.NewGraph(dir, map[string]eventchain.Router{
			"login":  selector.Single("browse", 0),
			"browse": selector.Single("noop", 0),
		})
		assert.NoError(t, g.Validate())
	})

	t.Run("reports each missing target", func(t *testing.T) {
		weighted, err := selector.Weighted([]selector.WeightedSuccessor{
			{EventName: "browse", Weight: 1},
			{EventName: "ghost", Weight: 1},
		})
		require.NoError(t, err)

		g := eventchain.NewGraph(dir, map[string]eventchain.Router{
			"login":  weighted,
			"browse": selector.Single("phantom", 0),
			// Plain funcs cannot be checked statically
			"other": eventchain.RouterFunc(func(_, _ any) eventchain.Successor {
				return eventchain.Successor{EventName: "unchecked"}
			}),
		})

		err = g.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, eventchain.ErrUnknownSuccessor))
		assert.Contains(t, err.Error(), `"ghost"`)
		assert.Contains(t, err.Error(), `"phantom"`)
		assert.NotContains(t, err.Error(), "unchecked")
	})
}
