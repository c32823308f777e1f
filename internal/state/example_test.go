package state_test

import (
	"fmt"

	"github.com/dshills/rehance/internal/event"
	"github.com/dshills/rehance/internal/state"
	"github.com/dshills/rehance/internal/validation"
)

func Example() {
	form, _ := state.New(state.Shape{
		"email": state.Value(validation.Required(), validation.Email()),
		"age":   state.Value().WithDefault(0),
	}, nil)

	form.Events().SubscribeFunc(func(evt event.Event) error {
		fmt.Println("event:", evt.Topic)
		return nil
	})

	email := form.Field("email")
	fmt.Println("valid:", form.IsValid())

	email.Focus()
	email.Update("not-an-email")
	fmt.Println("error:", email.Error())

	email.Update("a@b.com")
	fmt.Println("valid:", form.IsValid(), "changed:", form.Changed())
	fmt.Println(form.Value())

	// Output:
	// valid: false
	// event: field.focused
	// event: value.updated
	// error: This field must be a valid email address.
	// event: value.updated
	// valid: true changed: true
	// map[age:0 email:a@b.com]
}

func ExampleCollectionNode_Append() {
	contacts, _ := state.NewCollection(state.Shape{"name": state.Value()}, nil)

	contacts.Events().SubscribeFunc(func(evt event.Event) error {
		fmt.Println(evt.Topic, evt.Payload)
		return nil
	})

	contacts.Append(map[string]any{"name": "x"})
	contacts.Append(map[string]any{"name": "y"})
	contacts.Drop(0)

	fmt.Println(contacts.Value())

	// Output:
	// collection.appended 0
	// collection.appended 1
	// collection.dropped 0
	// [map[name:y]]
}

func ExampleTrieNode_Find() {
	form, _ := state.New(state.Shape{
		"contacts": state.Collection(state.Shape{"email": state.Value()}),
	}, map[string]any{
		"contacts": []any{map[string]any{"email": "a@b.com"}},
	})

	n, _ := form.Find("contacts.0.email")
	fmt.Println(n.Path(), n.Value())

	// Output: contacts.0.email a@b.com
}
