// Package record defines the name/phone record and its line-oriented text
// encoding: one record per line, fields joined by [Delimiter].
package record

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Iron-Ham/phonebook/internal/errors"
)

// Delimiter separates the name and phone fields of a stored line.
const Delimiter = " - "

// Record is a single name/phone entry.
type Record struct {
	Name  string
	Phone string
}

// String formats the record as it is stored, without the trailing newline.
func (r Record) String() string {
	return r.Name + Delimiter + r.Phone
}

// Validate checks that the record survives an encode/decode round trip.
// Fields may not contain the delimiter or line breaks, and may not combine
// with the delimiter into a second one at the field boundary (a name ending
// in " -", for example).
func (r Record) Validate() error {
	for _, f := range []struct {
		field, value string
	}{
		{"name", r.Name},
		{"phone", r.Phone},
	} {
		if strings.Contains(f.value, Delimiter) {
			return errors.NewValidationError(fmt.Sprintf("must not contain %q", Delimiter)).
				WithField(f.field).WithValue(f.value)
		}
		if strings.ContainsAny(f.value, "\r\n") {
			return errors.NewValidationError("must not contain line breaks").
				WithField(f.field).WithValue(f.value)
		}
	}
	if got, err := Parse(r.String()); err != nil || got != r {
		return errors.NewValidationError(fmt.Sprintf("fields must not run into %q", Delimiter)).
			WithField("record").WithValue(r.String())
	}
	return nil
}

// Parse decodes a single stored line. The line must split into exactly two
// fields on Delimiter; anything else is a MalformedRecordError. A trailing
// carriage return is ignored.
func Parse(line string) (Record, error) {
	line = strings.TrimSuffix(line, "\r")
	parts := strings.Split(line, Delimiter)
	if len(parts) != 2 {
		return Record{}, errors.NewMalformedRecordError(0, line)
	}
	return Record{Name: parts[0], Phone: parts[1]}, nil
}

// Decode reads every record from r in order. Blank lines are skipped.
// Lines may be of any length. The first malformed line aborts decoding with
// a MalformedRecordError carrying its 1-based line number.
func Decode(r io.Reader) ([]Record, error) {
	var records []Record
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if line == "" {
			return records, nil
		}
		lineNo++

		line = strings.TrimSuffix(line, "\n")
		if strings.TrimSpace(line) != "" {
			rec, perr := Parse(line)
			if perr != nil {
				var malformed *errors.MalformedRecordError
				if errors.As(perr, &malformed) {
					malformed.Line = lineNo
				}
				return nil, perr
			}
			records = append(records, rec)
		}

		if err != nil {
			return records, nil
		}
	}
}

// Encode writes records to w, one line each with a trailing newline.
func Encode(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := bw.WriteString(rec.String() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// IndexByName returns the index of the first record with the given name, or -1.
func IndexByName(records []Record, name string) int {
	for i, rec := range records {
		if rec.Name == name {
			return i
		}
	}
	return -1
}

// IndexByPhone returns the index of the first record with the given phone, or -1.
func IndexByPhone(records []Record, phone string) int {
	for i, rec := range records {
		if rec.Phone == phone {
			return i
		}
	}
	return -1
}

// RemoveName returns records without any entry named name, preserving order,
// and the number of entries dropped. The input slice is not modified.
func RemoveName(records []Record, name string) ([]Record, int) {
	kept := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.Name != name {
			kept = append(kept, rec)
		}
	}
	return kept, len(records) - len(kept)
}
