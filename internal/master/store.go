package master

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"chat-insights-go/internal/dataset"
	"chat-insights-go/internal/logger"
)

// dateLayout renders run dates like "July 01, 2024".
const dateLayout = "January 02, 2006"

// Store merges metric rows into one master workbook. The (Department, Date)
// pair is the row key: at most one row per key, last writer wins. Path and
// clock are injected so nothing here reaches for ambient state.
type Store struct {
	Path        string
	FallbackDir string
	Now         func() time.Time
}

func NewStore(path, fallbackDir string) *Store {
	return &Store{Path: path, FallbackDir: fallbackDir, Now: time.Now}
}

// Push upserts one metrics row for today's date. When columns is non-empty,
// only those columns (plus Date/Department) participate: a named metric that
// was not computed defaults to 0 on a brand-new row but is left untouched on
// an existing row, and columns outside the list are never touched. Merge
// failures do not propagate: the metrics are written to a standalone fallback
// file instead and the run goes on.
func (s *Store) Push(department string, metrics map[string]float64, columns []string, fallbackPrefix string) error {
	log := logger.New().WithFields(map[string]interface{}{
		"component":  "master.store",
		"master":     s.Path,
		"department": department,
	})

	date := s.Now().Format(dateLayout)
	participating := participatingCells(metrics, columns)

	if err := s.merge(department, date, participating, columns); err != nil {
		log.WithError(err).Error("master merge failed, writing fallback file")
		if ferr := s.writeFallback(department, date, participating, fallbackPrefix); ferr != nil {
			return fmt.Errorf("master merge failed (%v) and fallback write failed: %w", err, ferr)
		}
		return nil
	}
	log.WithField("date", date).WithField("columns", len(participating)).Info("metrics merged into master")
	return nil
}

func (s *Store) merge(department, date string, cells map[string]float64, columns []string) error {
	t, err := loadTable(s.Path)
	if err != nil {
		return err
	}

	t.ensureColumn("Date")
	t.ensureColumn("Department")

	if i := t.findRow(department, date); i >= 0 {
		// overwrite only the columns actually computed; everything else,
		// including allow-listed metrics missing from this push, keeps its value
		for _, col := range sortedKeys(cells) {
			t.ensureColumn(col)
			t.Rows[i][col] = formatValue(cells[col])
		}
	} else {
		row := map[string]string{"Date": date, "Department": department}
		// named-but-missing metrics default to 0 on a brand-new row only
		for _, col := range columns {
			t.ensureColumn(col)
			row[col] = formatValue(0)
		}
		for _, col := range sortedKeys(cells) {
			t.ensureColumn(col)
			row[col] = formatValue(cells[col])
		}
		t.Rows = append(t.Rows, row)
	}

	return saveTable(s.Path, t)
}

// participatingCells narrows metrics to the allow-list, keeping only metrics
// that were actually computed.
func participatingCells(metrics map[string]float64, columns []string) map[string]float64 {
	if len(columns) == 0 {
		out := make(map[string]float64, len(metrics))
		for k, v := range metrics {
			out[k] = v
		}
		return out
	}
	out := make(map[string]float64, len(columns))
	for _, col := range columns {
		if v, ok := metrics[col]; ok {
			out[col] = v
		}
	}
	return out
}

func (s *Store) writeFallback(department, date string, cells map[string]float64, prefix string) error {
	stamp := s.Now().Format("2006-01-02_15-04-05")
	name := fmt.Sprintf("%s_%s_%s.csv", prefix, strings.ToLower(department), stamp)
	path := filepath.Join(s.FallbackDir, name)

	header := append([]string{"Date", "Department"}, sortedKeys(cells)...)
	row := []string{date, department}
	for _, col := range header[2:] {
		row = append(row, formatValue(cells[col]))
	}
	return dataset.WriteRows(path, header, [][]string{row})
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// sortedKeys keeps new-column order deterministic across runs.
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
