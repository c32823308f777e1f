package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/rehance/internal/event"
)

func newContacts(t *testing.T, initial ...map[string]any) *CollectionNode {
	t.Helper()
	data := make([]any, len(initial))
	for i, rec := range initial {
		data[i] = rec
	}
	c, err := NewCollection(contactShape(), data, quiet)
	require.NoError(t, err)
	return c
}

func TestCollection_AppendScenario(t *testing.T) {
	c := newContacts(t)
	rec := record(t, c.Events())

	_, err := c.Append(map[string]any{"name": "x"})
	require.NoError(t, err)
	_, err = c.Append(map[string]any{"name": "y"})
	require.NoError(t, err)

	assert.Equal(t, []any{
		map[string]any{"name": "x", "phone": nil},
		map[string]any{"name": "y", "phone": nil},
	}, c.Value())

	require.Len(t, rec.events, 2)
	for i, evt := range rec.events {
		assert.Equal(t, TopicCollectionAppended, evt.Topic)
		assert.Equal(t, c.ID(), evt.Origin)
		assert.Equal(t, i, evt.Payload)
	}
}

func TestCollection_AppendGrowsByOne(t *testing.T) {
	c := newContacts(t, map[string]any{"name": "a"})

	item, err := c.Append(map[string]any{"name": "b", "phone": "2"})
	require.NoError(t, err)

	v := c.Value().([]any)
	require.Len(t, v, 2)
	assert.Equal(t, item.Value(), v[1])
	assert.Equal(t, map[string]any{"name": "b", "phone": "2"}, v[1])
	assert.Equal(t, c.ID(), item.ID().Parent())
	assert.Equal(t, Node(c), item.Parent())
	assert.Equal(t, "1", item.Name())
}

func TestCollection_AppendError(t *testing.T) {
	c := newContacts(t)
	rec := record(t, c.Events())

	_, err := c.Append("not a record")
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = c.Append(map[string]any{"email": "x"})
	require.ErrorIs(t, err, ErrUnknownField)

	var se *StructureError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "append", se.Op)

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, rec.events)
}

func TestCollection_Drop(t *testing.T) {
	c := newContacts(t,
		map[string]any{"name": "a"},
		map[string]any{"name": "b"},
		map[string]any{"name": "c"},
	)
	before := c.Value().([]any)
	last := c.At(2)
	rec := record(t, c.Events())

	require.NoError(t, c.Drop(1))

	assert.Equal(t, []any{before[0], before[2]}, c.Value())
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "1", last.Name(), "later items shift down")
	assert.Equal(t, "1.name", last.Field("name").Path())

	require.Len(t, rec.events, 1)
	assert.Equal(t, TopicCollectionDropped, rec.events[0].Topic)
	assert.Equal(t, 1, rec.events[0].Payload)
}

func TestCollection_DropOutOfRange(t *testing.T) {
	c := newContacts(t, map[string]any{"name": "a"})
	before := c.Value()
	rec := record(t, c.Events())

	for _, i := range []int{-1, 1, 5} {
		err := c.Drop(i)
		require.ErrorIs(t, err, ErrIndexOutOfRange, "index %d", i)

		var se *StructureError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "drop", se.Op)
		assert.Equal(t, c.ID(), se.Node)
	}

	assert.Equal(t, before, c.Value())
	assert.Empty(t, rec.events)
}

func TestCollection_Fill(t *testing.T) {
	c := newContacts(t, map[string]any{"name": "a"})
	rec := record(t, c.Events())

	require.NoError(t, c.Fill(nil))
	assert.Empty(t, rec.events, "empty fill publishes nothing")

	require.NoError(t, c.Fill([]any{
		map[string]any{"name": "b"},
		map[string]any{"name": "c"},
	}))
	assert.Equal(t, 3, c.Len())
	require.Len(t, rec.events, 1)
	assert.Equal(t, TopicCollectionFilled, rec.events[0].Topic)
	assert.Equal(t, FillRange{From: 1, Count: 2}, rec.events[0].Payload)
}

func TestCollection_FillAllOrNothing(t *testing.T) {
	c := newContacts(t)
	rec := record(t, c.Events())

	err := c.Fill([]any{map[string]any{"name": "b"}, 7})
	require.ErrorIs(t, err, ErrShapeMismatch)

	var se *StructureError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "1", se.Path)

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, rec.events)
}

func TestCollection_Changed(t *testing.T) {
	c := newContacts(t, map[string]any{"name": "a"})
	assert.False(t, c.Changed())

	_, err := c.Append(map[string]any{})
	require.NoError(t, err)
	assert.True(t, c.Changed())

	require.NoError(t, c.Drop(1))
	assert.False(t, c.Changed())

	c.At(0).Field("name").Update("z")
	assert.True(t, c.Changed())
	c.At(0).Field("name").Update("a")
	assert.False(t, c.Changed())

	require.NoError(t, c.Drop(0))
	_, err = c.Append(map[string]any{"name": "a"})
	require.NoError(t, err)
	assert.True(t, c.Changed(), "a replacement item is a change")
}

func TestCollection_ItemsCopy(t *testing.T) {
	c := newContacts(t, map[string]any{"name": "a"})

	items := c.Items()
	items[0] = nil
	assert.NotNil(t, c.At(0))
	assert.Nil(t, c.At(1))
	assert.Nil(t, c.At(-1))
}

func TestCollection_TouchAll(t *testing.T) {
	c, err := NewCollection(Shape{"name": Value(requiredRule())}, []any{map[string]any{}}, quiet)
	require.NoError(t, err)
	rec := record(t, c.Events())

	assert.False(t, c.IsValid())
	c.TouchAll()
	assert.False(t, c.IsValid())
	assert.Equal(t, []event.Topic{TopicTreeTouched}, rec.topics())

	c.At(0).Field("name").Update("x")
	assert.True(t, c.IsValid())
}

func TestCollection_NestedUnderTrie(t *testing.T) {
	root, err := New(Shape{}, nil, quiet)
	require.NoError(t, err)

	c, err := NewCollection(contactShape(), nil, WithParent(root, "extra"))
	require.NoError(t, err)
	item, err := c.Append(map[string]any{"name": "x"})
	require.NoError(t, err)

	assert.Equal(t, "extra.0.name", item.Field("name").Path())
	assert.Same(t, root.Events(), item.Events())
}
