package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dshills/rehance/internal/config/loader"
	"github.com/dshills/rehance/internal/event"
	"github.com/dshills/rehance/internal/schema"
	"github.com/dshills/rehance/internal/state"
)

// formSource names the inputs of a form.
type formSource struct {
	schemaPath string
	valuesPath string
	sets       []string
}

// form is a built tree and the document it came from.
type form struct {
	doc  *schema.Document
	root *state.TrieNode
	subs *event.Subscriber

	// files holds every document read to build the form, includes too.
	files []string
}

func (f *form) Close() {
	f.subs.Close()
	f.doc.Close()
}

// load builds the form. Values come from the values file, then
// FORMCHECK_VALUE_* variables, then --set flags applied as updates.
func (a *app) load(src formSource) (*form, error) {
	schemaDocs := loader.NewDocumentLoader(src.schemaPath)
	doc, err := schema.LoadWith(schemaDocs, src.schemaPath)
	if err != nil {
		return nil, err
	}
	files := schemaDocs.Files()

	var sources []loader.Loader
	valueDocs := loader.NewDocumentLoader(src.valuesPath)
	if src.valuesPath != "" {
		sources = append(sources, valuesLoader(valueDocs, src.valuesPath))
	}
	sources = append(sources, loader.NewEnvLoader(loader.DefaultEnvPrefix))
	values, err := loader.Merge(sources...)
	if err != nil {
		doc.Close()
		return nil, err
	}

	files = append(files, valueDocs.Files()...)

	root, err := doc.Build(values, state.WithLogger(a.logger))
	if err != nil {
		doc.Close()
		return nil, err
	}

	f := &form{doc: doc, root: root, subs: event.NewSubscriber(root.Events()), files: files}
	if err := a.trace(f); err != nil {
		f.Close()
		return nil, err
	}
	if err := applySets(root, src.sets); err != nil {
		f.Close()
		return nil, err
	}
	a.logger.Debug("form loaded", "schema", src.schemaPath, "values", src.valuesPath, "files", len(files), "root", root.ID())
	return f, nil
}

// trace logs value changes on f at debug level. It runs after every other
// handler so it sees the value the change settled on.
func (a *app) trace(f *form) error {
	_, err := f.subs.Subscribe(event.HandlerFunc(func(evt event.Event) error {
		change, _ := event.PayloadAs[state.ValueChange](evt)
		a.logger.Debug("value changed", "topic", evt.Topic, "origin", evt.Origin, "old", change.Old, "new", change.New)
		return nil
	}), event.WithPriority(event.PriorityLow), event.WithFilter(event.FilterByTopicPrefix("value.")))
	return err
}

// valuesLoader loads a values file and its includes through l. A missing
// file is an error.
func valuesLoader(l *loader.DocumentLoader, path string) loader.LoaderFunc {
	return func() (map[string]any, error) {
		v, err := l.LoadWithIncludes(path, schema.MaxIncludeDepth)
		if err == nil && v == nil {
			err = fmt.Errorf("values %s: %w", path, os.ErrNotExist)
		}
		return v, err
	}
}

// applySets applies path=value assignments to value fields.
func applySets(root *state.TrieNode, sets []string) error {
	for _, set := range sets {
		path, raw, ok := strings.Cut(set, "=")
		if !ok || path == "" {
			return fmt.Errorf("--set %q: want path=value", set)
		}
		n, err := root.Find(path)
		if err != nil {
			return fmt.Errorf("--set %q: %w", set, err)
		}
		field, ok := n.(*state.ValueNode)
		if !ok {
			return fmt.Errorf("--set %q: %s is a %s, not a value", set, path, n.Kind())
		}
		field.Update(loader.ParseValue(raw))
	}
	return nil
}

func sourceArgs(args []string, sets []string) formSource {
	src := formSource{schemaPath: args[0], sets: sets}
	if len(args) > 1 {
		src.valuesPath = args[1]
	}
	return src
}
