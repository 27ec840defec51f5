package dataflows

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"dolarwatch/config"
	"dolarwatch/internal/models"
)

// ErrNoBatchData is reported when the analysis stage runs before any fetch
// has persisted data. The message goes to the operator as is.
var ErrNoBatchData = errors.New("no se encontraron archivos de datos de cotizaciones")

const historyFileName = "dolar_historico.csv"

var snapshotHeader = []string{"moneda", "casa", "nombre", "compra", "venta", "fecha_actualizacion"}

// Store persists quote batches under the data directory: a dated JSON and
// CSV snapshot per fetch run plus an append-only history CSV.
type Store struct {
	dataDir string
}

// NewStore creates a store rooted at the configured data directory.
func NewStore(cfg *config.Config) *Store {
	return &Store{dataDir: cfg.DataDir}
}

// SaveBatch writes the dated JSON and CSV snapshots for one fetch run and
// returns the JSON path. File timestamps come from the batch envelope so the
// name and the content agree.
func (s *Store) SaveBatch(batch *models.QuoteBatch) (string, error) {
	if err := batch.Validate(); err != nil {
		return "", err
	}

	stamp := batchFileStamp(batch)

	jsonPath := filepath.Join(s.dataDir, fmt.Sprintf("dolar_data_%s.json", stamp))
	if err := SaveDataToFile(batch, jsonPath); err != nil {
		return "", fmt.Errorf("save batch JSON: %w", err)
	}

	csvPath := filepath.Join(s.dataDir, fmt.Sprintf("dolar_data_%s.csv", stamp))
	if err := writeSnapshotCSV(csvPath, batch); err != nil {
		return "", fmt.Errorf("save batch CSV: %w", err)
	}

	return jsonPath, nil
}

// AppendHistory adds the batch records to the rolling history CSV, writing
// the header only when the file is new. Every row carries the envelope's
// consulta timestamp so runs can be told apart later.
func (s *Store) AppendHistory(batch *models.QuoteBatch) error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	path := filepath.Join(s.dataDir, historyFileName)
	writeHeader := !FileExists(path)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if writeHeader {
		header := append([]string{"fecha_consulta"}, snapshotHeader...)
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("write history header: %w", err)
		}
	}

	for _, rec := range batch.Datos {
		row := []string{
			batch.TimestampConsulta,
			rec.Moneda,
			rec.Casa,
			rec.Nombre,
			rec.Compra.String(),
			rec.Venta.String(),
			rec.FechaActualizacion,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write history row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// LatestBatchFile returns the newest persisted batch. The zero-padded
// timestamp in the name makes lexical order chronological.
func (s *Store) LatestBatchFile() (string, error) {
	pattern := filepath.Join(s.dataDir, "dolar_data_*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("search batch files: %w", err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w (directorio %s)", ErrNoBatchData, s.dataDir)
	}

	sort.Strings(files)
	return files[len(files)-1], nil
}

// LoadBatch reads and validates a persisted batch.
func (s *Store) LoadBatch(path string) (*models.QuoteBatch, error) {
	var batch models.QuoteBatch
	if err := LoadDataFromFile(path, &batch); err != nil {
		return nil, fmt.Errorf("load batch %s: %w", path, err)
	}
	if err := batch.Validate(); err != nil {
		return nil, fmt.Errorf("batch %s: %w", filepath.Base(path), err)
	}
	return &batch, nil
}

// BatchCount reports how many batch snapshots exist, for the status panel.
func (s *Store) BatchCount() int {
	files, err := filepath.Glob(filepath.Join(s.dataDir, "dolar_data_*.json"))
	if err != nil {
		return 0
	}
	return len(files)
}

func batchFileStamp(batch *models.QuoteBatch) string {
	if ts, err := time.Parse(time.RFC3339, batch.TimestampConsulta); err == nil {
		return ts.Format("20060102_150405")
	}
	return time.Now().Format("20060102_150405")
}

func writeSnapshotCSV(path string, batch *models.QuoteBatch) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(snapshotHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, rec := range batch.Datos {
		row := []string{
			rec.Moneda,
			rec.Casa,
			rec.Nombre,
			rec.Compra.String(),
			rec.Venta.String(),
			rec.FechaActualizacion,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
