// Package export writes purchase plans to CSV files for downstream use.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adamistheanswer/pokebay/internal/domain/model"
)

// CSVExporter writes one file per exported plan into a target directory.
type CSVExporter struct {
	dir    string
	prefix string
	now    func() time.Time
}

// NewCSVExporter creates an exporter writing into dir with the given
// filename prefix. The directory is created if it does not exist.
func NewCSVExporter(dir, prefix string) *CSVExporter {
	return &CSVExporter{dir: dir, prefix: prefix, now: time.Now}
}

// Export writes the plan to a new timestamped CSV file and returns its path.
// The file has one row per purchase plus a trailing totals row.
func (e *CSVExporter) Export(plan *model.Plan) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s.csv", e.prefix, e.now().UTC().Format("20060102-150405.000"))
	path := filepath.Join(e.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"item", "number", "vendor", "price", "shipping", "link"}); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	for _, p := range plan.Purchases {
		row := []string{
			p.Item.Name,
			p.Item.Number,
			p.Offer.Vendor,
			formatAmount(p.Offer.Price),
			formatAmount(p.Offer.ShippingCost),
			p.Offer.Link,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}

	total := []string{"total", "", "", formatAmount(plan.TotalCost), "", ""}
	if err := w.Write(total); err != nil {
		return "", fmt.Errorf("write totals: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush export file: %w", err)
	}
	return path, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
