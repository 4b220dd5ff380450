package listnav

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"

	"github.com/marcus/floatui/pkg/dom"
	"github.com/marcus/floatui/pkg/floating"
	"github.com/marcus/floatui/pkg/floating/props"
)

// DefaultResetDelay is how long typeahead waits before clearing its buffer.
const DefaultResetDelay = time.Second

// MatchFunc returns the index in labels of the item matching typed, or
// None. Labels arrive rotated so the search starts after the last match.
type MatchFunc func(labels []string, typed string) int

// PrefixMatch is the default matcher: the first label starting with typed,
// ignoring case.
func PrefixMatch(labels []string, typed string) int {
	typed = strings.ToLower(typed)
	for i, label := range labels {
		if strings.HasPrefix(strings.ToLower(label), typed) {
			return i
		}
	}
	return None
}

// FuzzyMatch picks the best scoring fuzzy match, preferring earlier labels
// on ties.
func FuzzyMatch(labels []string, typed string) int {
	matches := fuzzy.Find(typed, labels)
	if len(matches) == 0 {
		return None
	}
	return matches[0].Index
}

// TypeaheadOptions configure typeahead.
type TypeaheadOptions struct {
	Enabled bool
	// ResetDelay defaults to DefaultResetDelay.
	ResetDelay time.Duration
	IgnoreKeys []string
	// FindMatch defaults to PrefixMatch.
	FindMatch      MatchFunc
	OnMatch        func(index int)
	OnTypingChange func(typing bool)
	// ActiveIndex reports the list's active index so the next search starts
	// after it.
	ActiveIndex func() int
}

// Typeahead matches typed characters against item labels.
type Typeahead struct {
	ctx  *floating.Context
	opts TypeaheadOptions

	labels     []string
	buffer     string
	prevIndex  int
	matchIndex int
	typing     bool
	reset      floating.Timeout
}

// NewTypeahead attaches typeahead to ctx.
func NewTypeahead(ctx *floating.Context, opts TypeaheadOptions) *Typeahead {
	if opts.ResetDelay <= 0 {
		opts.ResetDelay = DefaultResetDelay
	}
	if opts.FindMatch == nil {
		opts.FindMatch = PrefixMatch
	}
	t := &Typeahead{ctx: ctx, opts: opts, prevIndex: None, matchIndex: None}
	if ctx == nil || !opts.Enabled {
		return t
	}
	unwatch := ctx.Watch(func(open bool) {
		if open {
			t.reset.Clear()
			t.buffer = ""
			t.matchIndex = None
			t.prevIndex = t.active()
		}
	})
	ctx.OnUnmount(func() {
		unwatch()
		t.reset.Clear()
	})
	return t
}

// Labels extracts plain text labels from items.
func Labels(items []*dom.Element) []string {
	out := make([]string, len(items))
	for i, el := range items {
		if el != nil {
			out[i] = el.TextContent()
		}
	}
	return out
}

// SetLabels replaces the searchable labels. Terminal styling is stripped.
func (t *Typeahead) SetLabels(labels []string) {
	t.labels = make([]string, len(labels))
	for i, l := range labels {
		t.labels[i] = ansi.Strip(l)
	}
}

// Buffer returns the characters typed since the last reset.
func (t *Typeahead) Buffer() string {
	return t.buffer
}

// Typing reports whether a search is in progress.
func (t *Typeahead) Typing() bool {
	return t.typing
}

// Props contributes the key handler to the reference and floating element.
func (t *Typeahead) Props() props.Set {
	if t.ctx == nil || !t.opts.Enabled {
		return props.Set{}
	}
	return props.Set{
		Reference: props.New().On(props.OnKeyDown, t.OnKeyDown),
		Floating:  props.New().On(props.OnKeyDown, t.OnKeyDown),
	}
}

func (t *Typeahead) active() int {
	if t.opts.ActiveIndex == nil {
		return None
	}
	return t.opts.ActiveIndex()
}

func (t *Typeahead) setTyping(v bool) {
	if t.typing == v {
		return
	}
	t.typing = v
	t.ctx.Data.Typing = v
	if t.opts.OnTypingChange != nil {
		t.opts.OnTypingChange(v)
	}
}

// find searches labels starting after from, wrapping around.
func (t *Typeahead) find(from int, typed string) int {
	n := len(t.labels)
	if n == 0 {
		return None
	}
	start := 0
	if from != None {
		start = (from + 1) % n
	}
	ordered := make([]string, 0, n)
	ordered = append(ordered, t.labels[start:]...)
	ordered = append(ordered, t.labels[:start]...)
	i := t.opts.FindMatch(ordered, typed)
	if i < 0 || i >= n {
		return None
	}
	return (i + start) % n
}

// rapidCycling reports whether repeating one letter should cycle through
// items sharing that first letter. Labels like "llama" disable it.
func (t *Typeahead) rapidCycling() bool {
	for _, label := range t.labels {
		runes := []rune(strings.ToLower(label))
		if len(runes) >= 2 && runes[0] == runes[1] {
			return false
		}
	}
	return true
}

// OnKeyDown handles one key press.
func (t *Typeahead) OnKeyDown(ev *dom.Event) {
	if t.buffer != "" && t.buffer[0] != ' ' {
		if t.find(t.prevIndex, t.buffer) == None {
			t.setTyping(false)
		} else if ev.Key == " " {
			stop(ev)
		}
	}
	if t.labels == nil || slices.Contains(t.opts.IgnoreKeys, ev.Key) ||
		utf8.RuneCountInString(ev.Key) != 1 || ev.Ctrl || ev.Meta || ev.Alt {
		return
	}
	if t.ctx.Open() && ev.Key != " " {
		stop(ev)
		t.setTyping(true)
	}

	if t.buffer == "" {
		if i := t.active(); i != None {
			t.prevIndex = i
		}
	}
	if t.rapidCycling() && t.buffer == ev.Key {
		t.buffer = ""
		t.prevIndex = t.matchIndex
	}
	t.buffer += ev.Key

	t.reset.Set(t.ctx.Scheduler, t.opts.ResetDelay, func() {
		t.buffer = ""
		t.prevIndex = t.matchIndex
		t.setTyping(false)
	})

	index := t.find(t.prevIndex, t.buffer)
	if index != None {
		t.ctx.Logger.Debug("typeahead: match", "node", t.ctx.NodeID, "buffer", t.buffer, "index", index)
		t.matchIndex = index
		if t.opts.OnMatch != nil {
			t.opts.OnMatch(index)
		}
	} else if ev.Key != " " {
		t.buffer = ""
		t.setTyping(false)
	}
}
