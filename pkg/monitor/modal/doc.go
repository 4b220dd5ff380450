// Package modal renders floating panels (menus, listboxes, dialogs and
// tooltips) as bordered boxes and reports where each row landed, so the
// host can register hit regions for mouse input.
//
// Panels follow a render-then-measure pattern: Render returns the content
// together with the offsets of every row inside it. Hit regions are built
// from those offsets, never from assumed padding.
//
// # Quick Start
//
//	p := modal.Panel{
//	    Title:   "File",
//	    Variant: modal.VariantMenu,
//	    Rows: []modal.Row{
//	        {ID: "new", Label: "New file", Active: true},
//	        {ID: "share", Label: "Share", Submenu: true},
//	        {ID: "quit", Label: "Quit", Disabled: true},
//	    },
//	}
//	r := p.Render()
//	for _, row := range r.Rows {
//	    hits.AddRect(row.ID, x+row.OffsetX, y+row.OffsetY, row.Width, 1, row)
//	}
//
// # Variants
//
//   - VariantMenu: rounded border, cursor on the active row
//   - VariantListbox: like a menu, with a check mark on selected rows
//   - VariantDialog: thick border in the primary color
//   - VariantTooltip: borderless, inverted text
package modal
