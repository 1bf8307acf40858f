package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/skusdev/profile/internal/domain"
)

var csvHeader = []string{"Name", "District", "Gender", "Email", "Contributions"}

// ExportCSV writes one row per member, in the order given, which callers keep
// as the current filtered and sorted view. Fields are quoted as needed, so a
// name or district containing a comma cannot corrupt the file.
func ExportCSV(w io.Writer, members []domain.Member) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, m := range members {
		row := []string{
			m.FullName(),
			m.District,
			string(m.Gender),
			m.Email,
			strconv.Itoa(m.Contributions),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
