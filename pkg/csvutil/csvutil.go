package csvutil

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	pkgerrors "github.com/harborline/slopchest-backend/pkg/errors"
)

// ReadRows parses a header-rowed CSV file into one map per data row,
// keyed by lowercased header name. Malformed input surfaces as a
// validation error so bulk imports fail before anything is written.
func ReadRows(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "csv header is unreadable")
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "csv row is malformed")
		}
		row := make(map[string]string, len(header))
		for i, value := range record {
			if i < len(header) {
				row[header[i]] = value
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseInt reads an integer field, treating blanks and junk as zero the
// way the import surfaces tolerate hand-edited spreadsheets.
func ParseInt(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}
