// Package selection implements an interactive terminal grid for picking one
// item out of a list with the keyboard.
package selection

// Item is a single selectable entry.
type Item[T any] struct {
	// Value is returned to the caller when the item is picked.
	Value string

	// Title overrides Value as the label shown in the grid.
	Title string

	// Hotkey selects the item directly when typed. Zero means none.
	Hotkey rune

	// Data is an opaque payload handed back in the result.
	Data T
}

// DisplayName returns the label rendered for the item.
func (i Item[T]) DisplayName() string {
	if i.Title != "" {
		return i.Title
	}
	return i.Value
}

// Data is an insertion-ordered collection of items.
type Data[T any] struct {
	items []Item[T]
}

// NewData creates a collection holding the given items.
func NewData[T any](items ...Item[T]) *Data[T] {
	d := &Data[T]{}
	d.items = append(d.items, items...)
	return d
}

// FromStrings creates a collection where every value is its own payload.
func FromStrings(values ...string) *Data[string] {
	d := &Data[string]{}
	for _, v := range values {
		d.Add(v, v)
	}
	return d
}

// Add appends an item with the given value and payload.
func (d *Data[T]) Add(value string, data T) {
	d.items = append(d.items, Item[T]{Value: value, Data: data})
}

// AddWithHotkey appends an item that can be selected by typing hotkey.
func (d *Data[T]) AddWithHotkey(hotkey rune, value, title string, data T) {
	d.items = append(d.items, Item[T]{Value: value, Title: title, Hotkey: hotkey, Data: data})
}

// AddItem appends an item.
func (d *Data[T]) AddItem(item Item[T]) {
	d.items = append(d.items, item)
}

// Len returns the number of stored items, including hidden ones.
func (d *Data[T]) Len() int {
	if d == nil {
		return 0
	}
	return len(d.items)
}

// Items returns a copy of all stored items.
func (d *Data[T]) Items() []Item[T] {
	if d == nil {
		return nil
	}
	out := make([]Item[T], len(d.items))
	copy(out, d.items)
	return out
}

// Visible returns the items that can be rendered and focused: those with a
// non-empty display name, in insertion order.
func (d *Data[T]) Visible() []Item[T] {
	if d == nil {
		return nil
	}
	out := make([]Item[T], 0, len(d.items))
	for _, item := range d.items {
		if item.DisplayName() == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// hotkeyIndex maps each hotkey to the first item in items that uses it.
func hotkeyIndex[T any](items []Item[T]) map[rune]int {
	index := make(map[rune]int)
	for i, item := range items {
		if item.Hotkey == 0 {
			continue
		}
		if _, exists := index[item.Hotkey]; !exists {
			index[item.Hotkey] = i
		}
	}
	return index
}
