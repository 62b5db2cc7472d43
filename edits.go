package inkwell

// Document edit commands shared by the built-in tools. Each captures the
// before and after state at construction so Do and Undo are exact.

// InsertElement returns a command that inserts e at index.
func InsertElement(doc Document, e Element, index int, name string) Command {
	return NewCommand(name,
		func() { doc.Insert(e, index) },
		func() { doc.Remove(e) },
	)
}

// AppendElement returns a command that adds e on top of the document.
func AppendElement(doc Document, e Element, name string) Command {
	return InsertElement(doc, e, len(doc.Children()), name)
}

// RemoveElements returns a command removing es. Undo restores every element
// at its original index.
func RemoveElements(doc Document, es []Element, name string) Command {
	type placed struct {
		e     Element
		index int
	}
	var removed []placed
	return NewCommand(name,
		func() {
			removed = removed[:0]
			for _, e := range es {
				if i := doc.Remove(e); i >= 0 {
					removed = append(removed, placed{e, i})
				}
			}
		},
		func() {
			for i := len(removed) - 1; i >= 0; i-- {
				doc.Insert(removed[i].e, removed[i].index)
			}
		},
	)
}

// SetAttrs returns a command setting name=value on each element.
func SetAttrs(es []Element, name, value, label string) Command {
	before := make([]string, len(es))
	for i, e := range es {
		before[i], _ = e.Attr(name)
	}
	return NewCommand(label,
		func() {
			for _, e := range es {
				e.SetAttr(name, value)
			}
		},
		func() {
			for i, e := range es {
				e.SetAttr(name, before[i])
			}
		},
	)
}

// SetTransforms returns a command moving each element from before[i] to
// after[i].
func SetTransforms(es []Element, before, after []Matrix, name string) Command {
	return NewCommand(name,
		func() {
			for i, e := range es {
				e.SetTransform(after[i])
			}
		},
		func() {
			for i, e := range es {
				e.SetTransform(before[i])
			}
		},
	)
}

// commit runs cmds and reports them as a consumed, redrawing Outcome.
func commit(cmds ...Command) Outcome {
	for _, c := range cmds {
		c.Do()
	}
	return Outcome{Consumed: true, Commands: cmds, Invalidate: true}
}
