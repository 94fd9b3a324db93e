package export

import (
	"encoding/json"
	"io"

	"github.com/passbook-dev/passbook/internal/statement"
)

// JSONRenderer writes the statement as indented JSON.
type JSONRenderer struct{}

// Format returns the renderer name.
func (r *JSONRenderer) Format() string { return "json" }

// Render writes the statement to w.
func (r *JSONRenderer) Render(w io.Writer, st *statement.Statement) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}
