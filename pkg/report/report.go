// pkg/report/report.go
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/praetorian-inc/vouch/pkg/types"
)

// Output formats.
const (
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatTable = "table"
)

// Write renders records in the requested format. colorMode is one of
// auto, always, never and only affects the table format.
func Write(w io.Writer, records []*types.Record, format, colorMode string) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatTable:
		return WriteTable(w, records, colorEnabled(colorMode, w))
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// WriteCSV writes one row per record with the raw secret, for piping
// into downstream tooling.
func WriteCSV(w io.Writer, records []*types.Record) error {
	writer := csv.NewWriter(w)

	header := []string{"secret", "type", "checker", "status", "message", "elapsed_ms", "notify_error", "source"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Secret,
			r.Kind,
			r.Checker,
			string(r.Outcome.Status),
			r.Outcome.Message,
			strconv.FormatInt(r.Elapsed.Milliseconds(), 10),
			r.NotifyError,
			r.Metadata["source"],
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// jsonReport is the envelope for JSON output.
type jsonReport struct {
	Timestamp    time.Time       `json:"timestamp"`
	TotalSecrets int             `json:"total_secrets"`
	Results      []*types.Record `json:"results"`
}

// WriteJSON writes an indented JSON envelope with all records.
func WriteJSON(w io.Writer, records []*types.Record) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(jsonReport{
		Timestamp:    time.Now().UTC(),
		TotalSecrets: len(records),
		Results:      records,
	})
}

// styles holds color formatters for table output.
type styles struct {
	valid   *color.Color
	invalid *color.Color
	errored *color.Color
	heading *color.Color
}

// newStyles creates color formatters. enabled=false respects --color=never
// and the NO_COLOR env var.
func newStyles(enabled bool) *styles {
	s := &styles{
		valid:   color.New(color.FgGreen),
		invalid: color.New(color.FgRed),
		errored: color.New(color.FgYellow),
		heading: color.New(color.Bold),
	}

	if !enabled {
		s.valid.DisableColor()
		s.invalid.DisableColor()
		s.errored.DisableColor()
		s.heading.DisableColor()
	}

	return s
}

func (s *styles) status(o types.Outcome) string {
	switch o.Status {
	case types.StatusValid:
		return s.valid.Sprint(o.Status)
	case types.StatusInvalid:
		return s.invalid.Sprint(o.Status)
	default:
		return s.errored.Sprint(o.Status)
	}
}

// WriteTable writes a human-readable table with redacted secrets.
func WriteTable(w io.Writer, records []*types.Record, colored bool) error {
	s := newStyles(colored)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, s.heading.Sprint("SECRET\tTYPE\tCHECKER\tSTATUS\tELAPSED\tDETAIL"))

	for _, r := range records {
		detail := r.Outcome.Message
		if r.NotifyError != "" {
			detail += " [notify failed: " + r.NotifyError + "]"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Redacted(),
			r.Kind,
			r.Checker,
			s.status(r.Outcome),
			r.Elapsed.Round(time.Millisecond),
			detail,
		)
	}

	return tw.Flush()
}

// colorEnabled resolves a color mode against the destination writer.
func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
