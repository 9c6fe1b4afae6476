// pkg/source/file.go
package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// File formats accepted by FileSource.
const (
	FormatText = "text"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// FileSource reads candidate secrets from a local file.
//
// Formats:
//   - text: one secret per line, blank lines and #-comments skipped;
//     the kind comes from the configured default.
//   - csv: header row with "secret" and optional "type" columns; when no
//     secret column exists the first non-empty cell is used.
//   - json: a list of strings, a list of {"secret"/"value", "type"}
//     objects, or an object with a "secrets" list.
type FileSource struct {
	path   string
	format string
	kind   string // default kind when the file doesn't declare one
}

// NewFileSource creates a file source. kind is the fallback secret type
// for records that don't declare their own.
func NewFileSource(path, format, kind string) (*FileSource, error) {
	if format == "" {
		format = FormatText
	}
	switch format {
	case FormatText, FormatCSV, FormatJSON:
	default:
		return nil, fmt.Errorf("unsupported file format: %s", format)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("input file: %w", err)
	}

	return &FileSource{path: path, format: format, kind: kind}, nil
}

// Name returns the name of this source.
func (s *FileSource) Name() string {
	return "File: " + filepath.Base(s.path)
}

// Each yields secrets from the file in file order.
func (s *FileSource) Each(ctx context.Context, callback func(Secret) error) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()

	switch s.format {
	case FormatCSV:
		return s.eachCSV(ctx, f, callback)
	case FormatJSON:
		return s.eachJSON(ctx, f, callback)
	default:
		return s.eachText(ctx, f, callback)
	}
}

func (s *FileSource) eachText(ctx context.Context, r io.Reader, callback func(Secret) error) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		err := callback(Secret{
			Value: text,
			Kind:  s.kind,
			Metadata: map[string]string{
				"source": s.path,
				"line":   strconv.Itoa(line),
			},
		})
		if err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (s *FileSource) eachCSV(ctx context.Context, r io.Reader, callback func(Secret) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("reading CSV header: %w", err)
	}

	secretCol, typeCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "secret":
			secretCol = i
		case "type":
			typeCol = i
		}
	}

	row := 1
	for {
		row++
		if err := ctx.Err(); err != nil {
			return err
		}

		fields, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading CSV row %d: %w", row, err)
		}

		value := cell(fields, secretCol)
		if value == "" {
			// No secret column: fall back to the first non-empty cell.
			for _, f := range fields {
				if strings.TrimSpace(f) != "" {
					value = f
					break
				}
			}
		}
		if strings.TrimSpace(value) == "" {
			continue
		}

		kind := cell(fields, typeCol)
		if kind == "" {
			kind = s.kind
		}

		err = callback(Secret{
			Value: strings.TrimSpace(value),
			Kind:  kind,
			Metadata: map[string]string{
				"source": s.path,
				"row":    strconv.Itoa(row),
			},
		})
		if err != nil {
			return err
		}
	}
}

func cell(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

// jsonEntry is one object-form record in a JSON input file.
type jsonEntry struct {
	Secret string `json:"secret"`
	Value  string `json:"value"`
	Type   string `json:"type"`
}

func (s *FileSource) eachJSON(ctx context.Context, r io.Reader, callback func(Secret) error) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading %s: %w", s.path, err)
	}

	emit := func(i int, value, kind string) error {
		if value == "" {
			return nil
		}
		if kind == "" {
			kind = s.kind
		}
		return callback(Secret{
			Value: value,
			Kind:  kind,
			Metadata: map[string]string{
				"source": s.path,
				"index":  strconv.Itoa(i),
			},
		})
	}

	// List form: strings or objects.
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err == nil {
		for i, raw := range list {
			if err := ctx.Err(); err != nil {
				return err
			}

			var str string
			if json.Unmarshal(raw, &str) == nil {
				if err := emit(i, str, ""); err != nil {
					return err
				}
				continue
			}

			var entry jsonEntry
			if err := json.Unmarshal(raw, &entry); err != nil {
				return fmt.Errorf("parsing %s entry %d: %w", s.path, i, err)
			}
			value := entry.Secret
			if value == "" {
				value = entry.Value
			}
			if err := emit(i, value, entry.Type); err != nil {
				return err
			}
		}
		return nil
	}

	// Object form: {"secrets": [...]}.
	var wrapper struct {
		Secrets []string `json:"secrets"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return fmt.Errorf("parsing %s: %w", s.path, err)
	}
	for i, value := range wrapper.Secrets {
		if err := emit(i, value, ""); err != nil {
			return err
		}
	}
	return nil
}
