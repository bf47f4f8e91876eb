package observability_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/blackboard/pkg/adapters/memory"
	"github.com/aretw0/blackboard/pkg/blackboard"
	"github.com/aretw0/blackboard/pkg/library"
	"github.com/aretw0/blackboard/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Clone(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	r, err := blackboard.NewRegistry(
		[]*blackboard.Parameter{blackboard.New("speed", 5.0), nil, blackboard.New("label", "npc")},
		blackboard.WithHooks(m.Hooks()),
	)
	require.NoError(t, err)

	_, err = r.CloneWithOverrides([]blackboard.Override{
		{Name: "speed", Replacement: blackboard.New("speed", 9.0)},
		{Name: "missing", Replacement: blackboard.New("missing", 1)},
	})
	require.NoError(t, err)
	clone, err := r.Clone()
	require.NoError(t, err)

	// Clones inherit hooks
	_, err = clone.Clone()
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.Clones))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OverridesApplied))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OverridesIgnored))

	expected := `
# HELP blackboard_clone_slots Number of slots per cloned registry
# TYPE blackboard_clone_slots histogram
blackboard_clone_slots_bucket{le="1"} 0
blackboard_clone_slots_bucket{le="2"} 0
blackboard_clone_slots_bucket{le="4"} 3
blackboard_clone_slots_bucket{le="8"} 3
blackboard_clone_slots_bucket{le="16"} 3
blackboard_clone_slots_bucket{le="32"} 3
blackboard_clone_slots_bucket{le="64"} 3
blackboard_clone_slots_bucket{le="128"} 3
blackboard_clone_slots_bucket{le="256"} 3
blackboard_clone_slots_bucket{le="512"} 3
blackboard_clone_slots_bucket{le="+Inf"} 3
blackboard_clone_slots_sum 9
blackboard_clone_slots_count 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "blackboard_clone_slots"))
}

func TestMetrics_Library(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	mgr := library.NewManager(memory.NewStore(),
		library.WithHooks(m.LibraryHooks()),
		library.WithRegistryHooks(m.Hooks()),
	)

	r, err := blackboard.NewRegistry([]*blackboard.Parameter{blackboard.New("speed", 5.0)})
	require.NoError(t, err)
	require.NoError(t, mgr.Publish(ctx, "guard", r))

	_, err = mgr.Instantiate(ctx, "guard", map[string]any{"speed": 2.0})
	require.NoError(t, err)
	_, err = mgr.Instantiate(ctx, "guard", nil)
	require.NoError(t, err)
	_, err = mgr.Instantiate(ctx, "ghost", nil)
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Instantiations.WithLabelValues("guard")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InstantiateErrors.WithLabelValues("ghost")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Clones))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OverridesApplied))
}

func TestNewMetrics_Unregistered(t *testing.T) {
	m := observability.NewMetrics(nil)
	m.Hooks().OnClone(blackboard.CloneEvent{Slots: 2, Overridden: 1})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Clones))
}
