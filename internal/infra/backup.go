package infra

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hygpos/internal/model"
)

// JSONBackup writes each weekly archive run to its own file under dir.
type JSONBackup struct {
	dir string
	now func() time.Time
}

func NewJSONBackup(dir string) *JSONBackup {
	return &JSONBackup{dir: dir, now: time.Now}
}

type backupFile struct {
	From       time.Time             `json:"from"`
	To         time.Time             `json:"to"`
	ArchivedAt time.Time             `json:"archived_at"`
	Count      int                   `json:"count"`
	Orders     []model.ArchivedOrder `json:"orders"`
}

// Write stores the archived orders as orders_<from>_<to>.json. An empty run
// still produces a file so every week is accounted for.
func (b *JSONBackup) Write(from, to time.Time, orders []model.ArchivedOrder) (string, error) {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", fmt.Errorf("backup: create dir: %w", err)
	}
	if orders == nil {
		orders = []model.ArchivedOrder{}
	}
	data, err := json.MarshalIndent(backupFile{
		From:       from,
		To:         to,
		ArchivedAt: b.now().UTC(),
		Count:      len(orders),
		Orders:     orders,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("backup: encode: %w", err)
	}

	name := fmt.Sprintf("orders_%s_%s.json", from.Format("20060102"), to.Format("20060102"))
	path := filepath.Join(b.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("backup: write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("backup: rename: %w", err)
	}
	return path, nil
}
