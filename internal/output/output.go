// Package output prints selection results for the command line, either
// human readable or as JSON Lines for scripts.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pengelbrecht/gridselect/internal/selection"
)

// Printer formats results and errors.
type Printer struct {
	jsonl     bool
	writer    io.Writer
	errWriter io.Writer
}

// NewPrinter creates a printer on stdout and stderr. If jsonl is true,
// every event is one JSON object per line; otherwise only the chosen value
// is printed on stdout and messages go to stderr.
func NewPrinter(jsonl bool) *Printer {
	return &Printer{
		jsonl:     jsonl,
		writer:    os.Stdout,
		errWriter: os.Stderr,
	}
}

// SetWriter sets a custom writer (mainly for testing).
func (p *Printer) SetWriter(w io.Writer) {
	p.writer = w
}

// SetErrWriter sets the writer for text-mode errors and for notices.
func (p *Printer) SetErrWriter(w io.Writer) {
	p.errWriter = w
}

// Result prints the outcome of a session. In text mode canceled and
// unsupported sessions print nothing; the exit code tells them apart.
func (p *Printer) Result(r selection.Result[string]) {
	if p.jsonl {
		data := map[string]interface{}{
			"type":       "result",
			"input_type": r.InputType,
			"value":      r.Value,
			"index":      r.Index,
		}
		if r.Title != "" {
			data["title"] = r.Title
		}
		p.writeJSON(data)
		return
	}
	if r.Ok() {
		fmt.Fprintln(p.writer, r.Value)
	}
}

// Error prints an error message. JSON errors go to the result stream.
func (p *Printer) Error(err error) {
	if p.jsonl {
		p.writeJSON(map[string]interface{}{
			"type":  "error",
			"error": err.Error(),
		})
		return
	}
	fmt.Fprintf(p.errWriter, "[ERROR] %s\n", err.Error())
}

// Notice prints an informational line such as an update notice on the
// error writer. Empty text is ignored.
func (p *Printer) Notice(text string) {
	if text == "" {
		return
	}
	if p.jsonl {
		b, err := json.Marshal(map[string]interface{}{
			"type": "notice",
			"text": text,
		})
		if err == nil {
			fmt.Fprintln(p.errWriter, string(b))
		}
		return
	}
	fmt.Fprintln(p.errWriter, text)
}

func (p *Printer) writeJSON(data map[string]interface{}) {
	b, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintln(p.writer, string(b))
}
