package props

// Set is the contribution of one interaction for every target.
type Set struct {
	Reference Props
	Floating  Props
	Item      Props
}

// Get returns the Props for target.
func (s Set) Get(target Target) Props {
	switch target {
	case Reference:
		return s.Reference
	case Floating:
		return s.Floating
	}
	return s.Item
}

// Contributor is implemented by every interaction that adds props.
type Contributor interface {
	Props() Set
}

// Static adapts a fixed Set to a Contributor.
type Static Set

func (s Static) Props() Set { return Set(s) }

// Interactions aggregates contributors in registration order.
type Interactions struct {
	list []Contributor
}

// Use builds an Interactions from contributors; nil entries are skipped so
// disabled interactions can be passed as-is.
func Use(contributors ...Contributor) *Interactions {
	in := &Interactions{}
	for _, c := range contributors {
		in.Add(c)
	}
	return in
}

// Add appends a contributor.
func (in *Interactions) Add(c Contributor) {
	if c == nil {
		return
	}
	in.list = append(in.list, c)
}

func (in *Interactions) merged(target Target, user Props) Props {
	parts := make([]Props, 0, len(in.list))
	for _, c := range in.list {
		parts = append(parts, c.Props().Get(target))
	}
	return Merge(target, user, parts...)
}

// ReferenceProps merges every contribution for the reference element.
func (in *Interactions) ReferenceProps(user Props) Props {
	return in.merged(Reference, user)
}

// FloatingProps merges every contribution for the floating element.
func (in *Interactions) FloatingProps(user Props) Props {
	return in.merged(Floating, user)
}

// ItemProps merges every contribution for a list item.
func (in *Interactions) ItemProps(user Props) Props {
	return in.merged(Item, user)
}
