// Package universe loads the tracked-company list. The matcher is
// first-match-wins in list order, so the loader preserves file order
// exactly.
package universe

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// headerPreference is the column lookup order. "Name" is what the NBI
// export uses; "Company Name" and "Symbol" cover older files.
var headerPreference = []string{"Name", "Company Name", "Symbol"}

// LoadCSV reads one company display name per row from a spreadsheet export.
// The first matching header column wins for the whole file. A UTF-8 BOM on
// the first header cell is tolerated.
func LoadCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open companies file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(f)
}

// Read parses CSV company rows from r. Split out from LoadCSV so tests and
// alternative inputs can feed readers directly.
func Read(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("companies file is empty")
		}
		return nil, fmt.Errorf("read companies header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	col := -1
	for _, want := range headerPreference {
		for i, h := range header {
			if strings.TrimSpace(h) == want {
				col = i
				break
			}
		}
		if col >= 0 {
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("companies file has no recognized name column (header: %s)", strings.Join(header, ","))
	}

	var companies []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read companies row: %w", err)
		}
		if col >= len(record) {
			continue
		}
		name := strings.TrimSpace(record[col])
		if name != "" {
			companies = append(companies, name)
		}
	}
	return companies, nil
}
