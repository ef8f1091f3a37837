package selection_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pengelbrecht/gridselect/internal/keys"
	"github.com/pengelbrecht/gridselect/internal/selection"
	"github.com/pengelbrecht/gridselect/internal/vterm"
)

func numbered(n int) *selection.Data[int] {
	d := selection.NewData[int]()
	for i := 0; i < n; i++ {
		d.Add(fmt.Sprintf("item%d", i), i*10)
	}
	return d
}

func grid(column, maxRow int) *selection.Options {
	opts := selection.DefaultOptions()
	opts.Column = column
	opts.MaxRow = maxRow
	return opts
}

func start[T any](t *testing.T, screen *vterm.Screen, data *selection.Data[T], opts *selection.Options) *selection.Session[T] {
	t.Helper()
	s := selection.NewSession(screen, data, opts)
	step, err := s.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if step != selection.StepContinue {
		t.Fatalf("expected session to continue, got %v", step)
	}
	return s
}

func press[T any](t *testing.T, s *selection.Session[T], events ...keys.Event) selection.Step {
	t.Helper()
	var step selection.Step
	for _, ev := range events {
		var err error
		step, err = s.HandleKey(ev)
		if err != nil {
			t.Fatalf("key %v: %v", ev, err)
		}
	}
	return step
}

func TestSelectDownEnter(t *testing.T) {
	screen := vterm.New(40, 10)
	screen.Type(keys.Press(keys.KeyDown), keys.Press(keys.KeyEnter))

	res, err := selection.Select(screen, numbered(5), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := selection.Result[int]{Value: "item1", Index: 1, Data: 10, InputType: selection.Selected}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if screen.Resets() == 0 {
		t.Error("expected colors to be reset")
	}
}

func TestSelectEscape(t *testing.T) {
	screen := vterm.New(40, 10)
	screen.Type(keys.Press(keys.KeyEscape))

	res, err := selection.Select(screen, numbered(5), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.InputType != selection.Canceled {
		t.Errorf("expected canceled, got %v", res.InputType)
	}
	if res.Value != "" || res.Index != -1 {
		t.Errorf("expected empty canceled result, got %+v", res)
	}
}

func TestSelectHotkey(t *testing.T) {
	d := selection.NewData[string]()
	d.Add("alpha", "a")
	d.Add("beta", "b")
	d.AddWithHotkey('q', "gamma", "Quit", "g")
	d.Add("delta", "d")

	screen := vterm.New(40, 10)
	screen.Type(keys.Rune('q'))

	res, err := selection.Select(screen, d, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := selection.Result[string]{Value: "gamma", Index: 2, Data: "g", Title: "Quit", InputType: selection.Selected}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestHotkeyIgnoresNavigation(t *testing.T) {
	d := selection.NewData[int]()
	for i := 0; i < 6; i++ {
		d.AddWithHotkey(rune('a'+i), fmt.Sprintf("v%d", i), "", i)
	}

	histories := [][]keys.Event{
		nil,
		{keys.Press(keys.KeyDown), keys.Press(keys.KeyDown)},
		{keys.CtrlPress(keys.KeyEnd), keys.Press(keys.KeyUp)},
	}
	for i, history := range histories {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			s := start(t, vterm.New(40, 10), d, nil)
			press(t, s, history...)
			if step := press(t, s, keys.Rune('d')); step != selection.StepDone {
				t.Fatalf("expected done, got %v", step)
			}
			if got := s.Result(); got.Index != 3 || got.Data != 3 {
				t.Errorf("expected item 3, got %+v", got)
			}
		})
	}
}

func TestDuplicateHotkeyFirstWins(t *testing.T) {
	d := selection.NewData[int]()
	d.AddWithHotkey('x', "first", "", 1)
	d.AddWithHotkey('x', "second", "", 2)

	s := start(t, vterm.New(40, 10), d, nil)
	press(t, s, keys.Rune('x'))
	if got := s.Result(); got.Value != "first" {
		t.Errorf("expected first, got %q", got.Value)
	}
}

func TestPageDown(t *testing.T) {
	s := start(t, vterm.New(90, 20), numbered(10), grid(3, 2))

	if got := s.Layout().PageSize; got != 6 {
		t.Fatalf("expected page size 6, got %d", got)
	}
	press(t, s, keys.Press(keys.KeyPageDown))
	if s.Offset() != 6 || s.Selected() != 6 {
		t.Errorf("expected offset 6 and selection 6, got %d and %d", s.Offset(), s.Selected())
	}

	press(t, s, keys.Press(keys.KeyPageDown))
	if s.Offset() != 6 || s.Selected() != 6 {
		t.Errorf("expected to stay on the last page, got offset %d selection %d", s.Offset(), s.Selected())
	}

	press(t, s, keys.Press(keys.KeyPageUp))
	if s.Offset() != 0 || s.Selected() != 0 {
		t.Errorf("expected offset 0 and selection 0, got %d and %d", s.Offset(), s.Selected())
	}
}

func TestPagingTipsLine(t *testing.T) {
	screen := vterm.New(90, 20)
	s := start(t, screen, numbered(10), grid(3, 2))

	// two grid rows, then the paging line
	if got := screen.Line(2); got != "1-6 of 10 (PgUp/PgDn to turn pages)" {
		t.Errorf("unexpected paging line %q", got)
	}
	press(t, s, keys.Press(keys.KeyPageDown))
	if got := screen.Line(2); got != "7-10 of 10 (PgUp/PgDn to turn pages)" {
		t.Errorf("unexpected paging line %q", got)
	}
	if got := screen.Line(0); got != "item6                         item7                         item8" {
		t.Errorf("unexpected first row %q", got)
	}
	if got := screen.Line(1); got != "item9" {
		t.Errorf("expected stale cells cleared, got %q", got)
	}
}

func TestNavigationCrossesPages(t *testing.T) {
	s := start(t, vterm.New(90, 20), numbered(10), grid(3, 2))

	press(t, s, keys.Press(keys.KeyDown), keys.Press(keys.KeyDown))
	if s.Selected() != 6 || s.Offset() != 6 {
		t.Errorf("expected selection 6 on page 6, got %d on page %d", s.Selected(), s.Offset())
	}
	press(t, s, keys.Press(keys.KeyLeft))
	if s.Selected() != 5 || s.Offset() != 0 {
		t.Errorf("expected selection 5 on page 0, got %d on page %d", s.Selected(), s.Offset())
	}
}

func TestNotSupportedFallback(t *testing.T) {
	screen := vterm.New(0, 10)
	screen.TypeLine("abc")
	opts := selection.DefaultOptions()
	opts.QuestionWhenNotSupported = "Pick: "

	res, err := selection.Select(screen, numbered(3), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.InputType != selection.Typed || res.Value != "abc" {
		t.Errorf("expected typed abc, got %+v", res)
	}
	if got := screen.Line(0); got != "Pick: abc" {
		t.Errorf("expected prompt and echo, got %q", got)
	}
}

func TestNotSupportedWithoutFallback(t *testing.T) {
	tests := []struct {
		name   string
		screen func() *vterm.Screen
	}{
		{"zero width", func() *vterm.Screen { return vterm.New(0, 10) }},
		{"size error", func() *vterm.Screen {
			s := vterm.New(40, 10)
			s.SizeErr = errors.New("not a console")
			return s
		}},
		{"no cursor", func() *vterm.Screen {
			s := vterm.New(40, 10)
			s.NoCursor = true
			return s
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := tt.screen()
			res, err := selection.Select(screen, numbered(3), nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.InputType != selection.NotSupported {
				t.Errorf("expected not supported, got %v", res.InputType)
			}
			if screen.Rows() != 0 {
				t.Errorf("expected nothing drawn, got %q", screen.Text())
			}
		})
	}
}

func TestNotSupportedFallbackReadFails(t *testing.T) {
	screen := vterm.New(0, 10)
	opts := selection.DefaultOptions()
	opts.QuestionWhenNotSupported = "Pick: "

	res, err := selection.Select(screen, numbered(3), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.InputType != selection.NotSupported {
		t.Errorf("expected not supported, got %v", res.InputType)
	}
}

func TestEmptyData(t *testing.T) {
	d := selection.NewData[int]()
	d.Add("", 1)
	d.AddItem(selection.Item[int]{Title: "", Value: ""})

	screen := vterm.New(40, 10)
	res, err := selection.Select(screen, d, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.InputType != selection.Canceled || res.Value != "" {
		t.Errorf("expected empty canceled result, got %+v", res)
	}
	if screen.Rows() != 0 {
		t.Errorf("expected no render, got %q", screen.Text())
	}
}

func TestHiddenItemsShiftIndex(t *testing.T) {
	d := selection.NewData[int]()
	d.Add("", 0)
	d.Add("a", 1)
	d.Add("b", 2)

	s := start(t, vterm.New(40, 10), d, nil)
	press(t, s, keys.Press(keys.KeyDown), keys.Press(keys.KeyEnter))
	if got := s.Result(); got.Index != 1 || got.Data != 2 {
		t.Errorf("expected visible index 1 with data 2, got %+v", got)
	}
}

func TestEnterAndSpaceReturnFocusedData(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	nav := []keys.Event{
		keys.Press(keys.KeyUp), keys.Press(keys.KeyDown),
		keys.Press(keys.KeyLeft), keys.Press(keys.KeyRight),
		keys.Press(keys.KeyPageDown), keys.CtrlPress(keys.KeyEnd),
	}

	for i := 0; i < 20; i++ {
		for _, confirm := range []keys.Event{keys.Press(keys.KeyEnter), keys.Rune(' ')} {
			s := start(t, vterm.New(60, 20), numbered(17), grid(4, 2))
			for j := 0; j < 10; j++ {
				press(t, s, nav[rng.Intn(len(nav))])
			}
			focused := s.Selected()
			press(t, s, confirm)

			res := s.Result()
			if res.InputType != selection.Selected {
				t.Fatalf("expected selected, got %v", res.InputType)
			}
			if res.Index != focused || res.Data != focused*10 {
				t.Errorf("expected item %d, got %+v", focused, res)
			}
		}
	}
}

func TestCancelAfterNavigation(t *testing.T) {
	for _, ev := range []keys.Event{keys.Press(keys.KeyEscape), keys.Press(keys.KeyPause), keys.CtrlPress(keys.KeyBreak)} {
		t.Run(ev.String(), func(t *testing.T) {
			s := start(t, vterm.New(40, 10), numbered(5), nil)
			press(t, s, keys.Press(keys.KeyDown), keys.Press(keys.KeyDown))
			if step := press(t, s, ev); step != selection.StepDone {
				t.Fatalf("expected done, got %v", step)
			}
			if got := s.Result().InputType; got != selection.Canceled {
				t.Errorf("expected canceled, got %v", got)
			}
		})
	}
}

func TestNavigationInvariants(t *testing.T) {
	nav := []keys.Event{
		keys.Press(keys.KeyUp), keys.Press(keys.KeyDown),
		keys.Press(keys.KeyLeft), keys.Press(keys.KeyRight),
		keys.Press(keys.KeyHome), keys.Press(keys.KeyEnd),
		keys.CtrlPress(keys.KeyHome), keys.CtrlPress(keys.KeyEnd),
		keys.Press(keys.KeyPageUp), keys.Press(keys.KeyPageDown),
		keys.CtrlPress(keys.KeyPageUp), keys.CtrlPress(keys.KeyPageDown),
		keys.Press(keys.KeyF5), keys.CtrlPress(keys.KeyF5), keys.Press(keys.KeyF12),
		keys.Press(keys.KeyTab),
	}
	configs := []struct {
		column, maxRow, count int
	}{
		{1, 0, 5},
		{3, 2, 10},
		{4, 3, 29},
		{5, 1, 7},
		{2, 0, 9},
	}

	rng := rand.New(rand.NewSource(42))
	for _, c := range configs {
		t.Run(fmt.Sprintf("%dx%d/%d", c.column, c.maxRow, c.count), func(t *testing.T) {
			s := start(t, vterm.New(80, 24), numbered(c.count), grid(c.column, c.maxRow))
			pageSize := s.Layout().PageSize

			for i := 0; i < 500; i++ {
				ev := nav[rng.Intn(len(nav))]
				press(t, s, ev)

				sel, off := s.Selected(), s.Offset()
				if sel < 0 || sel >= c.count {
					t.Fatalf("after %v: selection %d out of range", ev, sel)
				}
				if off%pageSize != 0 {
					t.Fatalf("after %v: offset %d not a multiple of %d", ev, off, pageSize)
				}
				if sel < off || sel >= off+pageSize {
					t.Fatalf("after %v: selection %d outside page at %d", ev, sel, off)
				}
			}
		})
	}
}

func TestIncrementalRedrawTouchesTwoCells(t *testing.T) {
	screen := vterm.New(60, 20)
	s := start(t, screen, numbered(9), grid(3, 0))
	l := s.Layout()

	steps := []struct {
		ev       keys.Event
		from, to int
	}{
		{keys.Press(keys.KeyRight), 0, 1},
		{keys.Press(keys.KeyDown), 1, 4},
		{keys.Press(keys.KeyEnd), 4, 5},
		{keys.CtrlPress(keys.KeyHome), 5, 0},
	}
	for _, st := range steps {
		before := screen.Snapshot()
		press(t, s, st.ev)
		after := screen.Snapshot()

		if s.Selected() != st.to {
			t.Fatalf("%v: expected selection %d, got %d", st.ev, st.to, s.Selected())
		}

		allowed := map[vterm.Position]bool{}
		for _, idx := range []int{st.from, st.to} {
			col, row := l.Cell(idx, 0)
			for c := col; c < col+l.ItemLen; c++ {
				allowed[vterm.Position{Col: c, Row: row}] = true
			}
		}

		var touched int
		for _, p := range vterm.Diff(before, after) {
			if p.Row >= l.Rows() {
				// prompt echo
				continue
			}
			if !allowed[p] {
				t.Errorf("%v: cell %+v changed outside cells %d and %d", st.ev, p, st.from, st.to)
			}
			touched++
		}
		if touched == 0 {
			t.Errorf("%v: expected the highlight to move", st.ev)
		}
	}
}

func TestSelectedCellColors(t *testing.T) {
	screen := vterm.New(60, 20)
	opts := grid(3, 0)
	s := start(t, screen, numbered(3), opts)

	if got := screen.Cell(0, 0); got.FG != opts.SelectedForegroundColor || got.BG != opts.SelectedBackgroundColor {
		t.Errorf("expected selected colors on item 0, got %+v", got)
	}
	press(t, s, keys.Press(keys.KeyRight))
	if got := screen.Cell(0, 0); got.FG != opts.ForegroundColor || got.BG != opts.BackgroundColor {
		t.Errorf("expected normal colors on item 0, got %+v", got)
	}
	if got := screen.Cell(20, 0); got.BG != opts.SelectedBackgroundColor {
		t.Errorf("expected selected colors on item 1, got %+v", got)
	}
}

func TestEchoFollowsSelection(t *testing.T) {
	screen := vterm.New(40, 10)
	s := start(t, screen, numbered(5), nil)

	// five item rows, tips, then the question
	if got := screen.Line(6); got != "> item0" {
		t.Errorf("expected echo of item0, got %q", got)
	}
	press(t, s, keys.Press(keys.KeyDown), keys.Rune('z'))
	if got := screen.Line(6); got != "> item1" {
		t.Errorf("expected echo of item1, got %q", got)
	}
	col, row, _ := screen.Cursor()
	if col != 2 || row != 6 {
		t.Errorf("expected cursor parked at (2,6), got (%d,%d)", col, row)
	}
}

func TestPrefixesAndTruncation(t *testing.T) {
	screen := vterm.New(20, 10)
	opts := grid(2, 0)
	opts.Prefix = "  "
	opts.SelectedPrefix = "> "
	d := selection.FromStrings("a-very-long-label", "b")

	start(t, screen, d, opts)
	if got := screen.Line(0); got != "> a-very-   b" {
		t.Errorf("unexpected row %q", got)
	}
}

func TestTitleShownInsteadOfValue(t *testing.T) {
	d := selection.NewData[int]()
	d.AddWithHotkey(0, "v", "Visible title", 1)

	screen := vterm.New(40, 10)
	start(t, screen, d, nil)
	if got := screen.Line(0); got != "Visible title" {
		t.Errorf("expected title, got %q", got)
	}
	if got := screen.Line(2); got != "> v" {
		t.Errorf("expected value echo, got %q", got)
	}
}

func TestToggleTips(t *testing.T) {
	screen := vterm.New(80, 10)
	s := start(t, screen, numbered(2), nil)

	if !s.TipsVisible() {
		t.Fatal("expected tips visible by default")
	}
	tips := screen.Line(2)
	if tips == "" {
		t.Fatal("expected tips line")
	}

	press(t, s, keys.Press(keys.KeyF12))
	if s.TipsVisible() {
		t.Error("expected tips hidden")
	}
	if got := screen.Line(2); got != "> item0" {
		t.Errorf("expected question to move up, got %q", got)
	}
	if got := screen.Line(3); got != "" {
		t.Errorf("expected stale question cleared, got %q", got)
	}

	press(t, s, keys.Press(keys.KeyF1))
	if !s.TipsVisible() {
		t.Error("expected F1 to show tips again")
	}
	if got := screen.Line(2); got != tips {
		t.Errorf("expected tips restored, got %q", got)
	}
}

func TestHelpHotkey(t *testing.T) {
	d := selection.NewData[string]()
	d.Add("one", "1")
	d.AddWithHotkey('?', "help", "", "h")

	s := start(t, vterm.New(40, 10), d, nil)
	press(t, s, keys.Press(keys.KeyF1))
	if got := s.Result(); got.InputType != selection.Selected || got.Value != "help" {
		t.Errorf("expected help item selected, got %+v", got)
	}
}

func TestRefresh(t *testing.T) {
	s := start(t, vterm.New(90, 20), numbered(10), grid(3, 2))

	press(t, s, keys.Press(keys.KeyDown), keys.Press(keys.KeyRight), keys.Press(keys.KeyF5))
	if s.Selected() != 4 {
		t.Errorf("expected F5 to keep selection 4, got %d", s.Selected())
	}
	press(t, s, keys.Press(keys.KeyPageDown), keys.CtrlPress(keys.KeyF5))
	if s.Selected() != 0 || s.Offset() != 0 {
		t.Errorf("expected ctrl+F5 to reset to 0, got %d on page %d", s.Selected(), s.Offset())
	}
}

func TestRowAndPageJumps(t *testing.T) {
	tests := []struct {
		name  string
		count int
		keys  []keys.Event
		want  int
	}{
		{"home", 9, []keys.Event{keys.Press(keys.KeyDown), keys.Press(keys.KeyRight), keys.Press(keys.KeyHome)}, 3},
		{"end", 9, []keys.Event{keys.Press(keys.KeyDown), keys.Press(keys.KeyEnd)}, 5},
		{"end on short row", 7, []keys.Event{keys.Press(keys.KeyDown), keys.Press(keys.KeyDown), keys.Press(keys.KeyEnd)}, 6},
		{"ctrl end", 9, []keys.Event{keys.CtrlPress(keys.KeyEnd)}, 8},
		{"ctrl home", 9, []keys.Event{keys.CtrlPress(keys.KeyEnd), keys.CtrlPress(keys.KeyHome)}, 0},
		{"ctrl pgdn", 9, []keys.Event{keys.Press(keys.KeyRight), keys.CtrlPress(keys.KeyPageDown)}, 7},
		{"ctrl pgdn short row", 8, []keys.Event{keys.Press(keys.KeyRight), keys.Press(keys.KeyRight), keys.CtrlPress(keys.KeyPageDown)}, 5},
		{"ctrl pgup", 9, []keys.Event{keys.CtrlPress(keys.KeyEnd), keys.CtrlPress(keys.KeyPageUp)}, 2},
		{"up clamps", 9, []keys.Event{keys.Press(keys.KeyRight), keys.Press(keys.KeyUp)}, 1},
		{"down clamps", 8, []keys.Event{keys.Press(keys.KeyRight), keys.Press(keys.KeyRight), keys.Press(keys.KeyDown), keys.Press(keys.KeyDown)}, 5},
		{"left clamps", 9, []keys.Event{keys.Press(keys.KeyLeft)}, 0},
		{"right wraps rows", 9, []keys.Event{keys.Press(keys.KeyRight), keys.Press(keys.KeyRight), keys.Press(keys.KeyRight)}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := start(t, vterm.New(60, 20), numbered(tt.count), grid(3, 0))
			press(t, s, tt.keys...)
			if got := s.Selected(); got != tt.want {
				t.Errorf("expected selection %d, got %d", tt.want, got)
			}
		})
	}
}

func TestManualEntry(t *testing.T) {
	screen := vterm.New(40, 10)
	opts := selection.DefaultOptions()
	opts.ManualQuestion = "Value: "
	screen.Type(keys.Press(keys.KeyDown), keys.Press(keys.KeyBackspace))
	screen.TypeLine("free text")

	res, err := selection.Select(screen, numbered(3), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.InputType != selection.Typed || res.Value != "free text" || res.Index != -1 {
		t.Errorf("expected typed free text, got %+v", res)
	}
	// three items, tips, question, then the manual prompt
	if got := screen.Line(5); got != "Value: free text" {
		t.Errorf("expected manual prompt below the question, got %q", got)
	}
}

func TestManualEntryStep(t *testing.T) {
	opts := selection.DefaultOptions()
	opts.ManualQuestion = "Value: "
	s := start(t, vterm.New(40, 10), numbered(3), opts)

	if step := press(t, s, keys.Press(keys.KeyDelete)); step != selection.StepReadLine {
		t.Fatalf("expected read-line step, got %v", step)
	}
	// keys are ignored while a line is requested
	if step := press(t, s, keys.Press(keys.KeyEnter)); step != selection.StepReadLine {
		t.Fatalf("expected read-line step, got %v", step)
	}
	if step := s.SubmitText("", errors.New("closed")); step != selection.StepDone {
		t.Fatalf("expected done, got %v", step)
	}
	if got := s.Result().InputType; got != selection.Canceled {
		t.Errorf("expected canceled on read failure, got %v", got)
	}
}

func TestManualWithoutQuestionCancels(t *testing.T) {
	s := start(t, vterm.New(40, 10), numbered(3), nil)
	press(t, s, keys.Press(keys.KeyBackspace))
	if got := s.Result().InputType; got != selection.Canceled {
		t.Errorf("expected canceled, got %v", got)
	}
}

func TestInputClosedCancels(t *testing.T) {
	screen := vterm.New(40, 10)
	screen.Type(keys.Press(keys.KeyDown))

	res, err := selection.Select(screen, numbered(3), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.InputType != selection.Canceled {
		t.Errorf("expected canceled, got %v", res.InputType)
	}
}

func TestNoReentryAfterDone(t *testing.T) {
	s := start(t, vterm.New(40, 10), numbered(3), nil)
	press(t, s, keys.Press(keys.KeyEscape))
	press(t, s, keys.Press(keys.KeyDown), keys.Press(keys.KeyEnter))

	if got := s.Result().InputType; got != selection.Canceled {
		t.Errorf("expected result to stay canceled, got %v", got)
	}
	if !s.Done() {
		t.Error("expected session done")
	}
}

func TestCursorOutOfRangeIsFatal(t *testing.T) {
	screen := vterm.New(40, 10)
	screen.MaxRows = 3

	res, err := selection.Select(screen, numbered(5), nil)
	if !errors.Is(err, selection.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if res.InputType != selection.Canceled {
		t.Errorf("expected canceled, got %v", res.InputType)
	}
}

func TestStartOnDirtyLine(t *testing.T) {
	screen := vterm.New(40, 10)
	screen.Write("$ pick", "", "")

	start(t, screen, numbered(2), nil)
	if got := screen.Line(0); got != "$ pick" {
		t.Errorf("expected existing output kept, got %q", got)
	}
	if got := screen.Line(1); got != "item0" {
		t.Errorf("expected grid on the next line, got %q", got)
	}
}

func TestSelectionLeavesCursorBelow(t *testing.T) {
	screen := vterm.New(40, 10)
	screen.Type(keys.Press(keys.KeyEnter))

	if _, err := selection.Select(screen, numbered(2), nil); err != nil {
		t.Fatal(err)
	}
	col, row, _ := screen.Cursor()
	if col != 0 || row != 4 {
		t.Errorf("expected cursor at (0,4), got (%d,%d)", col, row)
	}
}

func TestFitHeightPagesTallList(t *testing.T) {
	screen := vterm.New(40, 10)
	screen.MaxRows = 10
	opts := selection.DefaultOptions()

	s := selection.NewSession(screen, numbered(30), opts, selection.WithFitHeight())
	if step, err := s.Start(); err != nil || step != selection.StepContinue {
		t.Fatalf("expected session to continue, got %v (%v)", step, err)
	}
	if got := s.Layout().PageSize; got != 7 {
		t.Errorf("expected 7 rows per page, got %d", got)
	}
	if opts.MaxRow != 0 {
		t.Errorf("expected caller options untouched, got MaxRow %d", opts.MaxRow)
	}
	if got := screen.Line(0); got != "item0" {
		t.Errorf("expected first item on row 0, got %q", got)
	}

	press(t, s, keys.Press(keys.KeyPageDown))
	if s.Offset() != 7 || s.Selected() != 7 {
		t.Errorf("expected offset and selection 7, got %d and %d", s.Offset(), s.Selected())
	}
	if got := screen.Line(7); got != "8-14 of 30 (PgUp/PgDn to turn pages)" {
		t.Errorf("unexpected paging tips %q", got)
	}

	if step := press(t, s, keys.Press(keys.KeyEnter)); step != selection.StepDone {
		t.Fatalf("expected done, got %v", step)
	}
	if res := s.Result(); res.InputType != selection.Selected || res.Index != 7 {
		t.Errorf("expected item7 selected, got %+v", res)
	}
}

func TestFitHeightKeepsShortListUnpaged(t *testing.T) {
	screen := vterm.New(40, 10)
	s := selection.NewSession(screen, numbered(5), nil, selection.WithFitHeight())
	if _, err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.Layout().Paged() {
		t.Errorf("expected an unpaged grid, got page size %d", s.Layout().PageSize)
	}
}

func TestFitHeightRespectsMaxRow(t *testing.T) {
	screen := vterm.New(40, 10)
	s := selection.NewSession(screen, numbered(30), grid(0, 2), selection.WithFitHeight())
	if _, err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := s.Layout().PageSize; got != 2 {
		t.Errorf("expected configured page size 2, got %d", got)
	}
}
