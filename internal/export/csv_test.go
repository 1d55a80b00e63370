package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adamistheanswer/pokebay/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planFixture() *model.Plan {
	return &model.Plan{
		TotalCost: 23.70,
		Purchases: []model.Purchase{
			{
				Item:  model.Item{ID: "base1-25", Name: "Pikachu", Number: "025/102"},
				Offer: model.Offer{ID: "l1", Vendor: "cardkingdom", Price: 12.50, ShippingCost: 1.20, Link: "https://example.com/l1"},
			},
			{
				Item:  model.Item{ID: "base1-4", Name: "Charizard", Number: "004/102"},
				Offer: model.Offer{ID: "l2", Vendor: "pokegallery", Price: 9.99, ShippingCost: 0, Link: "https://example.com/l2"},
			},
		},
		Vendors: []string{"cardkingdom", "pokegallery"},
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	e := NewCSVExporter(dir, "purchase-plan")
	e.now = func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) }

	path, err := e.Export(planFixture())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "purchase-plan-20260314-092653.000.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"item", "number", "vendor", "price", "shipping", "link"}, rows[0])
	assert.Equal(t, []string{"Pikachu", "025/102", "cardkingdom", "12.50", "1.20", "https://example.com/l1"}, rows[1])
	assert.Equal(t, []string{"Charizard", "004/102", "pokegallery", "9.99", "0.00", "https://example.com/l2"}, rows[2])
	assert.Equal(t, []string{"total", "", "", "23.70", "", ""}, rows[3])
}

func TestExport_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	e := NewCSVExporter(dir, "plan")

	path, err := e.Export(planFixture())
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestExport_UniqueFilenames(t *testing.T) {
	e := NewCSVExporter(t.TempDir(), "plan")

	first, err := e.Export(planFixture())
	require.NoError(t, err)
	// Millisecond timestamps keep back-to-back exports from colliding.
	time.Sleep(2 * time.Millisecond)
	second, err := e.Export(planFixture())
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
