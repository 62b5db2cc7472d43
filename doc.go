// Package inkwell is the interaction core of a touch-driven vector editor.
//
// A host feeds raw pointer samples into a [Canvas]. The canvas runs them
// through a [Recognizer], which turns them into gestures (tap, double tap,
// long press, drag, pinch scale and two-finger rotate). Each gesture is
// offered to the registered tools in order and the first tool that can
// handle it gets the rest of that gesture.
//
// Tools change the [Document] through undoable commands kept in a
// [History], move the view through the canvas [Transform], and ask the
// host for text or values through a [Prompter]. Rendering is lazy: the
// [RenderLoop] only draws a frame after something invalidated the view.
//
// # Quick start
//
//	doc := vecdoc.New()
//	c := inkwell.NewCanvas(inkwell.Config{Document: doc})
//	defer c.Close()
//
//	// Per frame:
//	c.Send(inkwell.PointerInput{Sample: sample, Phase: inkwell.PhaseDown})
//	c.Update(now)
//	c.Frame(ctx, surface)
//
// Package ebitenhost runs a canvas inside an Ebitengine window and
// package vecdoc provides an in-memory element tree with a YAML codec.
//
// # Coordinates
//
// Pointer samples and gestures are in screen space. [Transform] maps
// screen to document space; tools convert with [Context.ToDocument]
// before touching elements.
//
// # Constraints
//
// Elements may carry a "constraints" attribute listing operations that are
// forbidden on them, e.g. "move,delete". Tools check [Context.Allows]
// before acting.
package inkwell
