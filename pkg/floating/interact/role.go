package interact

import (
	"github.com/google/uuid"

	"github.com/marcus/floatui/pkg/floating"
	"github.com/marcus/floatui/pkg/floating/props"
)

// AriaRole is the semantic role of a floating element.
type AriaRole string

const (
	RoleTooltip     AriaRole = "tooltip"
	RoleDialog      AriaRole = "dialog"
	RoleAlertDialog AriaRole = "alertdialog"
	RoleMenu        AriaRole = "menu"
	RoleListbox     AriaRole = "listbox"
	RoleGrid        AriaRole = "grid"
	RoleTree        AriaRole = "tree"
	RoleSelect      AriaRole = "select"
	RoleCombobox    AriaRole = "combobox"
)

// aria maps select and combobox onto the listbox popup they control.
func (r AriaRole) aria() string {
	switch r {
	case RoleSelect, RoleCombobox:
		return string(RoleListbox)
	}
	return string(r)
}

// Role wires ARIA attributes between a reference and its floating element.
// Open-dependent attributes are rewritten on every open change.
type Role struct {
	ctx  *floating.Context
	role AriaRole

	referenceID string
	floatingID  string
}

func newID() string {
	return "floatui-" + uuid.NewString()[:8]
}

// NewRole attaches role wiring to ctx. An empty role means dialog.
func NewRole(ctx *floating.Context, role AriaRole) *Role {
	if role == "" {
		role = RoleDialog
	}
	r := &Role{ctx: ctx, role: role, referenceID: newID(), floatingID: newID()}
	if ctx == nil {
		return r
	}
	unwatch := ctx.Watch(func(bool) { r.sync() })
	ctx.OnUnmount(unwatch)
	return r
}

// FloatingID returns the id given to the floating element.
func (r *Role) FloatingID() string {
	return r.floatingID
}

// ReferenceID returns the id given to a menu reference.
func (r *Role) ReferenceID() string {
	return r.referenceID
}

func (r *Role) referenceProps(open bool) props.Props {
	p := props.New()
	if r.role == RoleTooltip {
		if open {
			p = p.With("aria-describedby", r.floatingID)
		}
		return p
	}
	popup := r.role.aria()
	if r.role == RoleAlertDialog {
		popup = string(RoleDialog)
	}
	expanded := "false"
	if open {
		expanded = "true"
		p = p.With("aria-controls", r.floatingID)
	}
	p = p.With("aria-expanded", expanded).With("aria-haspopup", popup)
	switch r.role {
	case RoleMenu:
		p = p.With("id", r.referenceID)
		if r.ctx.Nested() {
			p = p.With("role", "menuitem")
		}
	case RoleSelect:
		p = p.With("role", string(RoleCombobox)).With("aria-autocomplete", "none")
	case RoleCombobox:
		p = p.With("role", string(RoleCombobox)).With("aria-autocomplete", "list")
	case RoleListbox:
		p = p.With("role", string(RoleCombobox))
	}
	return p
}

// Props contributes the role attributes for the current open state.
func (r *Role) Props() props.Set {
	if r.ctx == nil {
		return props.Set{}
	}
	fl := props.New().With("id", r.floatingID).With("role", r.role.aria())
	if r.role == RoleMenu {
		fl = fl.With("aria-labelledby", r.referenceID)
	}
	item := props.New()
	switch r.role {
	case RoleMenu:
		item = item.With("role", "menuitem")
	case RoleSelect, RoleCombobox, RoleListbox:
		item = item.With("role", "option")
	}
	return props.Set{
		Reference: r.referenceProps(r.ctx.Open()),
		Floating:  fl,
		Item:      item,
	}
}

// sync rewrites the open-dependent reference attributes in place.
func (r *Role) sync() {
	ref := r.ctx.Refs.Reference
	if ref == nil {
		return
	}
	for _, name := range []string{"aria-describedby", "aria-controls"} {
		ref.RemoveAttr(name)
	}
	p := r.referenceProps(r.ctx.Open())
	for _, name := range p.AttrNames() {
		v, _ := p.Attr(name)
		ref.SetAttr(name, v)
	}
}
