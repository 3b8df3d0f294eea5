package source

import (
	"context"
	"fmt"
	"os"
)

// CSVFile reads a CSV export from disk.
type CSVFile struct {
	Path string
}

func (c *CSVFile) Name() string { return c.Path }

func (c *CSVFile) Rows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.Path, err)
	}
	defer f.Close()

	rows, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Path, err)
	}
	return rows, nil
}
