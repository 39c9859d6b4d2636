// Package export writes drawn price samples to files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// FormatFromPath derives the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", filepath.Ext(path))
	}
}

// WriteJSON writes the samples to w as a JSON array.
func WriteJSON(w io.Writer, samples []float64) error {
	if samples == nil {
		samples = []float64{}
	}
	enc := json.NewEncoder(w)
	return enc.Encode(samples)
}

// WriteCSV writes the samples to w with an index column.
func WriteCSV(w io.Writer, samples []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "price_inr_per_kwh"}); err != nil {
		return err
	}
	for i, s := range samples {
		rec := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(s, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the samples to path in the format given by its extension.
func WriteFile(path string, samples []float64) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if format == FormatCSV {
		return WriteCSV(f, samples)
	}
	return WriteJSON(f, samples)
}
