// Package floating holds the shared state every floating-element interaction
// hangs off: the per-instance Context, the FloatingTree node registry used to
// reason about nested floating elements, the tagged event Bus shared across a
// tree, and the Scheduler that stands in for timers and animation frames.
//
// Interactions live in sub-packages (dismiss, hover, focus, listnav,
// interact). Each takes a *Context, contributes a props.Set and tears itself
// down when the Context is closed.
//
// Everything here assumes a single logical UI thread. Nothing is locked; hosts
// that receive input on several goroutines must funnel it through one, which
// is what LoopScheduler and the monitor package do.
package floating
