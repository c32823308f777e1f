package state

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/rehance/internal/event"
	"github.com/dshills/rehance/internal/validation"
)

func signupShape() Shape {
	return Shape{
		"email": Value(validation.Required(), validation.Email()),
		"age":   Value().WithDefault(0),
		"address": Group(Shape{
			"city": Value(validation.Required()),
		}),
		"contacts": Collection(Shape{
			"name":  Value(validation.Required()),
			"phone": Value(),
		}),
	}
}

func TestTrie_EmailAgeScenario(t *testing.T) {
	root, err := New(Shape{"email": Value(), "age": Value()},
		map[string]any{"email": "", "age": 0}, quiet)
	require.NoError(t, err)
	rec := record(t, root.Events())

	root.Field("email").Update("a@b.com")

	assert.Equal(t, map[string]any{"email": "a@b.com", "age": 0}, root.Value())
	require.Len(t, rec.events, 1)
	assert.Equal(t, root.Field("email").ID(), rec.events[0].Origin)
}

func TestTrie_ValueMatchesChildren(t *testing.T) {
	root, err := New(signupShape(), map[string]any{
		"email":    "a@b.com",
		"address":  map[string]any{"city": "Oslo"},
		"contacts": []any{map[string]any{"name": "x", "phone": "1"}},
	}, quiet)
	require.NoError(t, err)

	v, ok := root.Value().(map[string]any)
	require.True(t, ok)

	children := root.Children()
	require.Len(t, v, len(children))
	for key, child := range children {
		assert.Equal(t, child.Value(), v[key], key)
	}
	assert.Equal(t, map[string]any{
		"email":    "a@b.com",
		"age":      0,
		"address":  map[string]any{"city": "Oslo"},
		"contacts": []any{map[string]any{"name": "x", "phone": "1"}},
	}, v)
}

func TestTrie_FreshValuePerRead(t *testing.T) {
	root, err := New(Shape{"a": Value()}, map[string]any{"a": 1}, quiet)
	require.NoError(t, err)

	first := root.Value().(map[string]any)
	first["a"] = 2
	assert.Equal(t, map[string]any{"a": 1}, root.Value())
}

func TestTrie_IDsNest(t *testing.T) {
	root, err := New(signupShape(), map[string]any{
		"contacts": []any{map[string]any{"name": "x"}},
	}, quiet)
	require.NoError(t, err)

	err = Walk(root, func(n Node) error {
		assert.NotEmpty(t, n.ID())
		if p := n.Parent(); p != nil {
			assert.True(t, strings.HasPrefix(n.ID().String(), p.ID().String()+"."), n.Path())
			assert.Same(t, root.Events(), n.Events())
			assert.Equal(t, Node(root), n.Root())
		}
		return nil
	})
	require.NoError(t, err)
}

func TestTrie_ConstructionErrors(t *testing.T) {
	tests := []struct {
		name    string
		initial map[string]any
		wantErr error
		path    string
	}{
		{"unknown field", map[string]any{"nope": 1}, ErrUnknownField, "nope"},
		{"group not a record", map[string]any{"address": "Oslo"}, ErrShapeMismatch, "address"},
		{"collection not a list", map[string]any{"contacts": 3}, ErrShapeMismatch, "contacts"},
		{"item not a record", map[string]any{"contacts": []any{"x"}}, ErrShapeMismatch, "contacts.0"},
		{"unknown nested field", map[string]any{"address": map[string]any{"zip": "1"}}, ErrUnknownField, "address.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(signupShape(), tt.initial, quiet)
			require.ErrorIs(t, err, tt.wantErr)

			var se *StructureError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.path, se.Path)
		})
	}
}

func TestTrie_InvalidShape(t *testing.T) {
	_, err := New(Shape{"a.b": Value()}, nil, quiet)
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestTrie_NewLeavesCallerOptions(t *testing.T) {
	opts := make([]Option, 1, 4)
	opts[0] = quiet

	_, err := New(signupShape(), nil, opts...)
	require.NoError(t, err)
	assert.Nil(t, opts[:2][1], "spare capacity is not written")
}

func TestTrie_Accessors(t *testing.T) {
	root, err := New(signupShape(), nil, quiet)
	require.NoError(t, err)

	assert.Equal(t, []string{"address", "age", "contacts", "email"}, root.Keys())
	assert.NotNil(t, root.Field("email"))
	assert.Nil(t, root.Field("address"))
	assert.NotNil(t, root.Group("address"))
	assert.NotNil(t, root.Collection("contacts"))
	assert.Nil(t, root.Child("missing"))

	children := root.Children()
	delete(children, "email")
	assert.NotNil(t, root.Child("email"))
}

func TestTrie_Find(t *testing.T) {
	root, err := New(signupShape(), map[string]any{
		"contacts": []any{map[string]any{"name": "x"}, map[string]any{"name": "y"}},
	}, quiet)
	require.NoError(t, err)

	n, err := root.Find("contacts.1.name")
	require.NoError(t, err)
	assert.Equal(t, "y", n.Value())
	assert.Equal(t, "contacts.1.name", n.Path())

	n, err = root.Find("")
	require.NoError(t, err)
	assert.Equal(t, Node(root), n)

	for _, path := range []string{"contacts.2.name", "contacts.x", "email.deeper", "nope"} {
		_, err := root.Find(path)
		assert.ErrorIs(t, err, ErrNotFound, path)
	}
}

func TestTrie_ChangedAndValid(t *testing.T) {
	root, err := New(signupShape(), nil, quiet)
	require.NoError(t, err)

	assert.False(t, root.Changed())
	assert.False(t, root.IsValid(), "required fields are pristine")

	root.Field("age").Update(30)
	assert.True(t, root.Changed())

	root.Field("age").Update(0)
	assert.False(t, root.Changed())
}

func TestTrie_TouchAllAndValidate(t *testing.T) {
	root, err := New(signupShape(), map[string]any{
		"email":    "bad",
		"contacts": []any{map[string]any{}},
	}, quiet)
	require.NoError(t, err)
	rec := record(t, root.Events())

	root.TouchAll()

	require.Len(t, rec.events, 1)
	assert.Equal(t, TopicTreeTouched, rec.events[0].Topic)
	assert.False(t, root.IsValid())

	failures := root.Validate()
	var paths []string
	for _, f := range failures {
		paths = append(paths, f.Path+":"+f.Key)
	}
	assert.Equal(t, []string{
		"address.city:required",
		"contacts.0.name:required",
		"email:email",
	}, paths)
	assert.Len(t, rec.events, 1, "Validate does not publish")

	root.Field("email").Update("a@b.com")
	root.Group("address").Field("city").Update("Oslo")
	root.Collection("contacts").At(0).Field("name").Update("x")
	assert.True(t, root.IsValid())
	assert.Empty(t, root.Validate())
}

func TestTrie_SetMessages(t *testing.T) {
	root, err := New(signupShape(), nil, quiet)
	require.NoError(t, err)
	rec := record(t, root.Events())

	email := root.Field("email")
	email.Touch()
	assert.Equal(t, validation.MsgRequired, email.Error())

	root.Group("address").SetMessages(validation.Messages{"required": "needed"})

	assert.Equal(t, "needed", email.Error())
	assert.Equal(t, "needed", root.Group("address").Field("city").Error(), "pristine fields are re-resolved too")
	assert.Equal(t, validation.Messages{"required": "needed"}, root.Messages())

	last := rec.events[len(rec.events)-1]
	assert.Equal(t, TopicTreeRefreshed, last.Topic)
	assert.Equal(t, root.ID(), last.Origin)
}

func TestTrie_ReentrantUpdate(t *testing.T) {
	root, err := New(Shape{"a": Value(), "b": Value()}, nil, quiet)
	require.NoError(t, err)
	a, b := root.Field("a"), root.Field("b")
	bus := root.Events()

	first := record(t, bus)
	_, err = bus.SubscribeFunc(func(evt event.Event) error {
		if evt.Origin == a.ID() {
			b.Update("from a")
		}
		return nil
	})
	require.NoError(t, err)
	last := record(t, bus)

	a.Update("x")

	for _, rec := range []*recorder{first, last} {
		require.Len(t, rec.events, 2)
		assert.Equal(t, a.ID(), rec.events[0].Origin)
		assert.Equal(t, b.ID(), rec.events[1].Origin)
		assert.Equal(t, rec.events[0].Metadata.ID, rec.events[1].Metadata.CausationID)
	}
	assert.Equal(t, "from a", b.Value())
}

func TestTrie_SubscriberFaultIsolated(t *testing.T) {
	root, err := New(Shape{"a": Value()}, nil, quiet)
	require.NoError(t, err)
	bus := root.Events()

	_, err = bus.SubscribeFunc(func(event.Event) error { panic("boom") })
	require.NoError(t, err)
	rec := record(t, bus)

	assert.NotPanics(t, func() { root.Field("a").Update(1) })
	assert.Len(t, rec.events, 1)
	assert.Equal(t, uint64(1), bus.Stats().HandlerPanics)
}
