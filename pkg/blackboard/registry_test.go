package blackboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func npc(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry([]*Parameter{
		New("speed", 5.0),
		New("label", "npc"),
	})
	require.NoError(t, err)
	return r
}

func names(r *Registry) []string {
	out := make([]string, 0, r.Len())
	for _, p := range r.Parameters() {
		if p == nil {
			out = append(out, "")
			continue
		}
		out = append(out, p.Name())
	}
	return out
}

func TestNewRegistry(t *testing.T) {
	t.Run("Duplicate name", func(t *testing.T) {
		a, b := New("speed", 1.0), New("speed", 2.0)
		_, err := NewRegistry([]*Parameter{a, b})
		assert.ErrorIs(t, err, ErrDuplicateName)

		// Nothing was adopted
		_, err = NewRegistry([]*Parameter{a})
		assert.NoError(t, err)
	})

	t.Run("Already owned", func(t *testing.T) {
		p := New("speed", 1.0)
		_, err := NewRegistry([]*Parameter{p})
		require.NoError(t, err)

		_, err = NewRegistry([]*Parameter{p})
		assert.ErrorIs(t, err, ErrAlreadyOwned)
	})

	t.Run("Options", func(t *testing.T) {
		r, err := NewRegistry(nil, WithID("npc-template"))
		require.NoError(t, err)
		assert.Equal(t, "npc-template", r.ID())
		assert.Equal(t, 0, r.Len())
	})

	t.Run("Generated ID", func(t *testing.T) {
		a, _ := NewRegistry(nil)
		b, _ := NewRegistry(nil)
		assert.NotEmpty(t, a.ID())
		assert.NotEqual(t, a.ID(), b.ID())
	})
}

func TestRegistry_Parameter(t *testing.T) {
	r := npc(t)

	_, ok := r.Parameter("missing")
	assert.False(t, ok)

	p, ok := r.Parameter("label")
	require.True(t, ok)
	assert.Equal(t, "npc", p.Value())

	_, ok = r.Parameter("Label")
	assert.False(t, ok, "lookup is case-sensitive")
}

func TestRegistry_Tombstones(t *testing.T) {
	r, err := NewRegistry([]*Parameter{New("speed", 5.0), nil, New("label", "npc")})
	require.NoError(t, err)

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"speed", "", "label"}, names(r))

	p, ok := r.Parameter("label")
	require.True(t, ok)
	assert.Equal(t, "npc", p.Value())

	assert.NotContains(t, r.Schema(), "")
	assert.Len(t, r.Schema(), 2)
}

func TestTyped(t *testing.T) {
	r := npc(t)

	p, ok := Typed[float64](r, "speed")
	require.True(t, ok)
	assert.Equal(t, "speed", p.Name())

	_, ok = Typed[string](r, "speed")
	assert.False(t, ok)

	_, ok = Typed[any](r, "speed")
	assert.False(t, ok, "Typed requires the exact type")
}

func TestRegistry_Add(t *testing.T) {
	r := npc(t)

	// Warm the index so Add has to maintain it
	_, _ = r.Parameter("speed")

	retries := New("retries", 3)
	require.NoError(t, r.Add(retries))
	assert.Equal(t, []string{"speed", "label", "retries"}, names(r))

	got, ok := r.Parameter("retries")
	require.True(t, ok)
	assert.Same(t, retries, got)
	require.NoError(t, r.checkIndex())

	assert.ErrorIs(t, r.Add(New("speed", 1.0)), ErrDuplicateName)
	assert.ErrorIs(t, r.Add(nil), ErrNilParameter)
	assert.ErrorIs(t, r.Add(retries), ErrAlreadyOwned)
	assert.ErrorIs(t, r.Add(&Parameter{name: "ghost"}), ErrNoType)
	assert.Equal(t, 3, r.Len())
}

func TestNewRegistry_UntypedParameter(t *testing.T) {
	_, err := NewRegistry([]*Parameter{New("speed", 5.0), {}})
	assert.ErrorIs(t, err, ErrNoType)
}

func TestRegistry_Remove(t *testing.T) {
	r := npc(t)
	speed, _ := r.Parameter("speed")

	assert.True(t, r.Remove("speed"))
	assert.Equal(t, []string{"label"}, names(r))

	_, ok := r.Parameter("speed")
	assert.False(t, ok)

	// A removed parameter can join another registry
	_, err := NewRegistry([]*Parameter{speed})
	assert.NoError(t, err)

	t.Run("Absent", func(t *testing.T) {
		before := names(r)
		assert.False(t, r.Remove("missing"))
		assert.Equal(t, before, names(r))
		require.NoError(t, r.checkIndex())
	})
}

func TestRegistry_Move(t *testing.T) {
	r, err := NewRegistry([]*Parameter{New("a", 1), New("b", 2), New("c", 3), New("d", 4)})
	require.NoError(t, err)

	require.NoError(t, r.Move(0, 2))
	assert.Equal(t, []string{"b", "c", "a", "d"}, names(r))

	require.NoError(t, r.Move(3, 0))
	assert.Equal(t, []string{"d", "b", "c", "a"}, names(r))

	require.NoError(t, r.Move(1, 1))
	assert.Equal(t, []string{"d", "b", "c", "a"}, names(r))

	t.Run("Out of range", func(t *testing.T) {
		for _, tc := range [][2]int{{-1, 0}, {0, 4}, {4, 0}, {0, -1}} {
			assert.ErrorIs(t, r.Move(tc[0], tc[1]), ErrIndexOutOfRange)
		}
		assert.Equal(t, []string{"d", "b", "c", "a"}, names(r))
	})

	p, ok := r.Parameter("a")
	require.True(t, ok)
	assert.Equal(t, 1, p.Value())
}

func TestRegistry_MoveNamed(t *testing.T) {
	tests := []struct {
		name   string
		param  string
		dropAt int
		want   []string
	}{
		{"Drop below", "a", 2, []string{"b", "a", "c"}},
		{"Drop at end", "a", 3, []string{"b", "c", "a"}},
		{"Drop above", "c", 0, []string{"c", "a", "b"}},
		{"Drop on itself", "b", 1, []string{"a", "b", "c"}},
		{"Drop just below itself", "b", 2, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRegistry([]*Parameter{New("a", 1), New("b", 2), New("c", 3)})
			require.NoError(t, err)

			require.NoError(t, r.MoveNamed(tt.param, tt.dropAt))
			assert.Equal(t, tt.want, names(r))
		})
	}

	r := npc(t)
	assert.ErrorIs(t, r.MoveNamed("missing", 0), ErrParameterNotFound)
	assert.ErrorIs(t, r.MoveNamed("speed", 3), ErrIndexOutOfRange)
}

func TestRegistry_Rename(t *testing.T) {
	r, err := NewRegistry([]*Parameter{New("speed", 1.0), New("label", "x"), New("label (1)", "y")})
	require.NoError(t, err)

	got, err := r.Rename("speed", "velocity")
	require.NoError(t, err)
	assert.Equal(t, "velocity", got)

	_, ok := r.Parameter("speed")
	assert.False(t, ok)
	_, ok = r.Parameter("velocity")
	assert.True(t, ok)

	t.Run("Collision", func(t *testing.T) {
		got, err := r.Rename("velocity", "label")
		require.NoError(t, err)
		assert.Equal(t, "label (2)", got)
	})

	t.Run("Empty name", func(t *testing.T) {
		got, err := r.Rename("label", "")
		require.NoError(t, err)
		assert.Equal(t, "label", got)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := r.Rename("missing", "x")
		assert.ErrorIs(t, err, ErrParameterNotFound)
	})

	require.NoError(t, r.checkIndex())
}

func TestRegistry_UniqueName(t *testing.T) {
	r, err := NewRegistry([]*Parameter{New("NewParameter", 0), New("NewParameter (1)", 0)})
	require.NoError(t, err)

	assert.Equal(t, "speed", r.UniqueName("speed", nil))
	assert.Equal(t, "NewParameter (2)", r.UniqueName("NewParameter", nil))

	self, _ := r.Parameter("NewParameter")
	assert.Equal(t, "NewParameter", r.UniqueName("NewParameter", self))
}

func TestRegistry_Schema(t *testing.T) {
	s := npc(t).Schema()
	assert.Equal(t, "float", s["speed"].Name())
	assert.Equal(t, "string", s["label"].Name())
}
