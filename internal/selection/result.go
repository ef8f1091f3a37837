package selection

// InputType describes how a session ended.
type InputType int

const (
	// Canceled means the user backed out, or there was nothing to show.
	Canceled InputType = iota

	// Selected means an item was picked.
	Selected

	// Typed means the user entered free text instead of picking an item.
	Typed

	// NotSupported means the terminal cannot host the grid.
	NotSupported
)

// String returns the string representation of the input type.
func (t InputType) String() string {
	switch t {
	case Selected:
		return "selected"
	case Typed:
		return "typed"
	case NotSupported:
		return "not_supported"
	default:
		return "canceled"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t InputType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Result is the outcome of one session.
type Result[T any] struct {
	// Value is the picked item's value, or the typed text.
	Value string

	// Index is the position of the picked item among the visible items,
	// or -1 unless InputType is Selected.
	Index int

	// Data is the picked item's payload.
	Data T

	// Title is the picked item's title, if it has one.
	Title string

	InputType InputType
}

// Ok reports whether the result carries a usable value.
func (r Result[T]) Ok() bool {
	return r.InputType == Selected || r.InputType == Typed
}

func canceledResult[T any]() Result[T] {
	return Result[T]{Index: -1, InputType: Canceled}
}

func notSupportedResult[T any]() Result[T] {
	return Result[T]{Index: -1, InputType: NotSupported}
}

func typedResult[T any](text string) Result[T] {
	return Result[T]{Value: text, Index: -1, InputType: Typed}
}

func selectedResult[T any](items []Item[T], index int) Result[T] {
	item := items[index]
	return Result[T]{
		Value:     item.Value,
		Index:     index,
		Data:      item.Data,
		Title:     item.Title,
		InputType: Selected,
	}
}
