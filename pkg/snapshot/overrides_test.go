package snapshot

import (
	"testing"
	"time"

	"github.com/aretw0/blackboard/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverrides(t *testing.T) {
	r := npcTemplate(t)

	overrides, err := ParseOverrides(r, map[string]any{
		"speed":    9,
		"cooldown": "250ms",
		"tags":     []any{"bandit"},
	})
	require.NoError(t, err)
	require.Len(t, overrides, 3)

	// Sorted by name
	assert.Equal(t, "cooldown", overrides[0].Name)
	assert.Equal(t, 250*time.Millisecond, overrides[0].Replacement.Value())
	assert.Equal(t, 9.0, overrides[1].Replacement.Value())
	assert.Equal(t, []string{"bandit"}, overrides[2].Replacement.Value())

	speed, _ := r.Parameter("speed")
	assert.Same(t, speed, overrides[1].Original)

	clone, err := r.CloneWithOverrides(overrides)
	require.NoError(t, err)
	p, _ := clone.Parameter("speed")
	assert.Same(t, overrides[1].Replacement, p)
}

func TestParseOverrides_Errors(t *testing.T) {
	r := npcTemplate(t)

	_, err := ParseOverrides(r, map[string]any{
		"speed": "fast",
		"Speed": 1.0,
		"label": "ok",
	})
	errs := schema.ValidationErrors(err)
	require.Len(t, errs, 2)
	assert.Equal(t, "Speed", errs[0].(*schema.ValidationError).Key)
	assert.Equal(t, "not defined in template", errs[0].(*schema.ValidationError).Reason)
	assert.Equal(t, "speed", errs[1].(*schema.ValidationError).Key)
}
