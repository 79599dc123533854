// Package storage persists propagation runs: metadata, the accepted step
// trace, and the result vector.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/expmv/internal/krylov"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string    `json:"id"`
	Preset        string    `json:"preset"`
	Timestamp     time.Time `json:"timestamp"`
	T             float64   `json:"t"`
	Tol           float64   `json:"tol"`
	M             int       `json:"m"`
	Dim           int       `json:"dim"`
	Steps         int       `json:"steps"`
	Rejected      int       `json:"rejected"`
	MatVecs       int       `json:"matvecs"`
	Breakdowns    int       `json:"breakdowns"`
	ErrorEstimate float64   `json:"error_estimate"`
}

// Save writes one run under a fresh run directory and returns its ID.
func (s *Store) Save(preset string, t, tol float64, m, dim int, stats krylov.Stats, steps []krylov.Step, result []float64) (string, error) {
	runID := fmt.Sprintf("%s_%d", preset, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Preset:        preset,
		Timestamp:     time.Now(),
		T:             t,
		Tol:           tol,
		M:             m,
		Dim:           dim,
		Steps:         stats.Steps,
		Rejected:      stats.Rejected,
		MatVecs:       stats.MatVecs,
		Breakdowns:    stats.Breakdowns,
		ErrorEstimate: stats.ErrorEstimate,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "result.json"), result); err != nil {
		return "", err
	}
	if err := writeSteps(filepath.Join(runDir, "steps.csv"), steps); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSteps(path string, steps []krylov.Step) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"time", "tau", "err", "norm", "basis_size"}); err != nil {
		return err
	}
	for _, st := range steps {
		row := []string{
			strconv.FormatFloat(st.Time, 'g', 12, 64),
			strconv.FormatFloat(st.Tau, 'g', 12, 64),
			strconv.FormatFloat(st.Err, 'g', 12, 64),
			strconv.FormatFloat(st.Norm, 'g', 12, 64),
			strconv.Itoa(st.BasisSize),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadResult(runID string) ([]float64, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "result.json"))
	if err != nil {
		return nil, err
	}

	var result []float64
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) LoadSteps(runID string) ([]krylov.Step, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "steps.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []krylov.Step{}, nil
	}

	steps := make([]krylov.Step, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 5 {
			continue
		}
		tm, err1 := strconv.ParseFloat(record[0], 64)
		tau, err2 := strconv.ParseFloat(record[1], 64)
		errLoc, err3 := strconv.ParseFloat(record[2], 64)
		nrm, err4 := strconv.ParseFloat(record[3], 64)
		size, err5 := strconv.Atoi(record[4])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			continue
		}
		steps = append(steps, krylov.Step{Time: tm, Tau: tau, Err: errLoc, Norm: nrm, BasisSize: size})
	}
	return steps, nil
}
