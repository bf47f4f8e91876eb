package snapshot

import (
	"testing"
	"time"

	"github.com/aretw0/blackboard/pkg/blackboard"
	"github.com/aretw0/blackboard/pkg/catalog"
	"github.com/aretw0/blackboard/pkg/schema"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func npcTemplate(t *testing.T) *blackboard.Registry {
	t.Helper()
	r, err := blackboard.NewRegistry([]*blackboard.Parameter{
		blackboard.New("speed", 5.0),
		nil,
		blackboard.New("label", "npc"),
		blackboard.New("cooldown", 1500*time.Millisecond),
		blackboard.New("tags", []string{"guard"}),
	})
	require.NoError(t, err)
	return r
}

func TestEncode(t *testing.T) {
	got := Encode("npc", npcTemplate(t))

	want := &Document{
		Name: "npc",
		Parameters: []Entry{
			{Name: "speed", Type: "float", Value: 5.0},
			{Empty: true},
			{Name: "label", Type: "string", Value: "npc"},
			{Name: "cooldown", Type: "duration", Value: "1.5s"},
			{Name: "tags", Type: "[string]", Value: []string{"guard"}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	r := npcTemplate(t)

	back, err := Decode(Encode("npc", r), catalog.Default())
	require.NoError(t, err)
	require.Equal(t, r.Len(), back.Len())

	for i, p := range r.Parameters() {
		q := back.Parameters()[i]
		if p == nil {
			assert.Nil(t, q)
			continue
		}
		assert.Equal(t, p.Name(), q.Name())
		assert.Equal(t, p.Type(), q.Type())
		assert.Equal(t, p.Value(), q.Value())
	}
}

func TestDecode_LooseValues(t *testing.T) {
	doc := &Document{
		Name: "loose",
		Parameters: []Entry{
			{Name: "speed", Type: "float", Value: 5},
			{Name: "retries", Type: "int", Value: 3.0},
			{Name: "tags", Type: "[string]", Value: []any{"a", "b"}},
			{Name: "hostile", Type: "bool"},
		},
	}

	r, err := Decode(doc, nil, blackboard.WithID("loose"))
	require.NoError(t, err)
	assert.Equal(t, "loose", r.ID())

	speed, _ := r.Parameter("speed")
	assert.Equal(t, 5.0, speed.Value())
	retries, _ := r.Parameter("retries")
	assert.Equal(t, 3, retries.Value())
	tags, _ := r.Parameter("tags")
	assert.Equal(t, []string{"a", "b"}, tags.Value())
	hostile, _ := r.Parameter("hostile")
	assert.Equal(t, false, hostile.Value())
}

func TestDecode_Errors(t *testing.T) {
	doc := &Document{
		Parameters: []Entry{
			{Name: "speed", Type: "float", Value: "fast"},
			{Name: "blob", Type: "complex"},
			{Type: "int", Value: true},
			{Name: "label", Type: "string", Value: "ok"},
		},
	}

	_, err := Decode(doc, catalog.Default())
	require.Error(t, err)

	errs := schema.ValidationErrors(err)
	require.Len(t, errs, 3)
	keys := make([]string, len(errs))
	for i, e := range errs {
		keys[i] = e.(*schema.ValidationError).Key
	}
	assert.Equal(t, []string{"speed", "blob", "#2"}, keys)

	t.Run("Duplicate names", func(t *testing.T) {
		doc := &Document{Parameters: []Entry{
			{Name: "speed", Type: "float"},
			{Name: "speed", Type: "float"},
		}}
		_, err := Decode(doc, nil)
		assert.ErrorIs(t, err, blackboard.ErrDuplicateName)

		errs := schema.ValidationErrors(err)
		require.Len(t, errs, 1, "a repeated name is reported with the other entry failures")
		var verr *schema.ValidationError
		require.ErrorAs(t, errs[0], &verr)
		assert.Equal(t, "speed", verr.Key)
	})

	_, err = Decode(nil, nil)
	assert.Error(t, err)
}
