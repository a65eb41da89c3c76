package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoSnapshot indicates no CSV snapshot exists where one was expected.
// Callers treat this as fatal for the affected pass only.
var ErrNoSnapshot = errors.New("no csv snapshot found")

// ReadCSV reads a CSV file and returns its header row and data rows.
func ReadCSV(path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

// WriteCSV writes header and rows to path atomically via a temp file rename.
func WriteCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp := path + ".tmp"
	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("write csv rows: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// LatestCSV returns the most recently modified *.csv file under dir,
// searching recursively. Returns ErrNoSnapshot when none exists.
func LatestCSV(dir string) (string, error) {
	var latest string
	var latestMod time.Time

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest = path
			latestMod = info.ModTime()
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNoSnapshot, dir)
		}
		return "", fmt.Errorf("scan %s: %w", dir, err)
	}
	if latest == "" {
		return "", fmt.Errorf("%w: %s", ErrNoSnapshot, dir)
	}
	return latest, nil
}

// DatedDir returns base/YYYY/MM/DD for the given time, creating it if needed.
func DatedDir(base string, t time.Time) (string, error) {
	dir := filepath.Join(base, t.Format("2006"), t.Format("01"), t.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dated directory %q: %w", dir, err)
	}
	return dir, nil
}
