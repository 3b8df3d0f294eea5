package tree

import "github.com/RamXX/redsheet/internal/model"

// FromTable decodes rows, builds the tree and projects it.
func FromTable(rows [][]string, dec model.Decoder, opts ProjectOptions) (*Projection, error) {
	issues, err := dec.DecodeTable(rows)
	if err != nil {
		return nil, err
	}
	return Project(Build(issues), opts)
}
