package outfmt

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/backoffice/backoffice-cli/internal/filter"
)

// Printer writes one command's output.
type Printer struct {
	opts   Options
	out    io.Writer
	errOut io.Writer
	tw     *tabwriter.Writer
}

// NewPrinter creates a printer using the options in ctx.
func NewPrinter(ctx context.Context, out, errOut io.Writer) *Printer {
	return &Printer{
		opts:   FromContext(ctx),
		out:    out,
		errOut: errOut,
		tw:     tabwriter.NewWriter(out, 0, 4, 2, ' ', 0),
	}
}

// Structured reports whether Print should be used instead of a table.
func (p *Printer) Structured() bool {
	return p.opts.Structured()
}

// Print writes v in the configured structured format.
func (p *Printer) Print(v any) error {
	if p.opts.Mode == JSONL && p.opts.Template == "" {
		return p.printLines(v)
	}
	query := p.opts.Query
	if query == "" && p.opts.Template != "" {
		// Templates address JSON field names, so convert even without a query.
		query = "."
	}
	data, err := filter.Apply(envelope(v), query)
	if err != nil {
		return err
	}
	if p.opts.Template != "" {
		return WriteTemplate(p.out, data, p.opts.Template)
	}
	return WriteJSON(p.out, data, p.opts.Compact)
}

// printLines writes one compact JSON document per list element. The query, if any,
// runs against each element.
func (p *Printer) printLines(v any) error {
	items, ok := elements(v)
	if !ok {
		items = []any{v}
	}
	var q *filter.Query
	if p.opts.Query != "" {
		var err error
		if q, err = filter.Compile(p.opts.Query); err != nil {
			return err
		}
	}
	for _, item := range items {
		if q != nil {
			res, err := q.Run(item)
			if err != nil {
				return err
			}
			item = res
		}
		if err := WriteJSON(p.out, item, true); err != nil {
			return err
		}
	}
	return nil
}

// Table writes the header row of a text table.
func (p *Printer) Table(headers ...string) {
	p.Row(headers...)
}

// Row writes one table row.
func (p *Printer) Row(columns ...string) {
	_, _ = fmt.Fprintln(p.tw, strings.Join(columns, "\t"))
}

// Flush writes the buffered table.
func (p *Printer) Flush() error {
	return p.tw.Flush()
}

// Line writes a line of plain text.
func (p *Printer) Line(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

// Empty reports an empty result on stderr so structured stdout stays clean.
func (p *Printer) Empty(message string) {
	_, _ = fmt.Fprintln(p.errOut, message)
}
