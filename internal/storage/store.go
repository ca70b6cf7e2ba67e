// Package storage persists completed solver runs as a metadata.json plus a
// points.csv per run, under a common base directory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/odelab/internal/solver"
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

// RunMetadata summarizes one stored run. Components is 1 for scalar runs.
type RunMetadata struct {
	ID         string    `json:"id"`
	Equations  []string  `json:"equations"`
	Method     string    `json:"method"`
	Timestamp  time.Time `json:"timestamp"`
	T0         float64   `json:"t0"`
	TEnd       float64   `json:"tEnd"`
	StepSize   float64   `json:"stepSize"`
	Components int       `json:"components"`
	PointCount int       `json:"pointCount"`
	ComputeMS  float64   `json:"computeMs"`
}

// Save stores a successful scalar solution and returns its run ID.
func (s *Store) Save(equation string, sol *solver.Solution) (string, error) {
	if !sol.Success {
		return "", fmt.Errorf("refusing to store a failed solution: %s", sol.Error)
	}

	runID := fmt.Sprintf("ode_%d", time.Now().UnixNano())
	meta := RunMetadata{
		ID:         runID,
		Equations:  []string{equation},
		Method:     sol.Method,
		Timestamp:  time.Now(),
		T0:         sol.Meta.T0,
		TEnd:       sol.Meta.TEnd,
		StepSize:   sol.Meta.StepSize,
		Components: 1,
		PointCount: sol.Meta.PointCount,
		ComputeMS:  float64(sol.ComputeTime.Microseconds()) / 1000,
	}

	rows := make([][]string, 0, len(sol.Points))
	for _, p := range sol.Points {
		rows = append(rows, []string{
			formatFloat(p.T), formatFloat(p.Y), formatFloat(p.Dydt),
		})
	}
	header := []string{"t", "y", "dydt"}

	if err := s.writeRun(runID, meta, header, rows); err != nil {
		return "", err
	}
	return runID, nil
}

// SaveSystem stores a successful coupled solution and returns its run ID.
func (s *Store) SaveSystem(equations []string, sol *solver.SystemSolution) (string, error) {
	if !sol.Success {
		return "", fmt.Errorf("refusing to store a failed solution: %s", sol.Error)
	}
	if len(sol.Points) == 0 {
		return "", fmt.Errorf("solution has no points")
	}

	n := len(sol.Points[0].Y)
	runID := fmt.Sprintf("system_%d", time.Now().UnixNano())
	meta := RunMetadata{
		ID:         runID,
		Equations:  equations,
		Method:     sol.Method,
		Timestamp:  time.Now(),
		T0:         sol.Meta.T0,
		TEnd:       sol.Meta.TEnd,
		StepSize:   sol.Meta.StepSize,
		Components: n,
		PointCount: sol.Meta.PointCount,
		ComputeMS:  float64(sol.ComputeTime.Microseconds()) / 1000,
	}

	header := []string{"t"}
	for i := 1; i <= n; i++ {
		header = append(header, fmt.Sprintf("y%d", i))
	}
	for i := 1; i <= n; i++ {
		header = append(header, fmt.Sprintf("dy%d", i))
	}

	rows := make([][]string, 0, len(sol.Points))
	for _, p := range sol.Points {
		row := make([]string, 0, 1+2*n)
		row = append(row, formatFloat(p.T))
		for _, v := range p.Y {
			row = append(row, formatFloat(v))
		}
		for _, v := range p.Dydt {
			row = append(row, formatFloat(v))
		}
		rows = append(rows, row)
	}

	if err := s.writeRun(runID, meta, header, rows); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) writeRun(runID string, meta RunMetadata, header []string, rows [][]string) error {
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "points.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
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

// LoadPoints reads a run's trajectory back: the time column, the value
// columns (state components followed by derivatives), and the column names.
func (s *Store) LoadPoints(runID string) ([]float64, [][]float64, []string, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "points.csv"))
	if err != nil {
		return nil, nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, [][]float64{}, nil, nil
	}

	header := records[0]
	times := make([]float64, 0, len(records)-1)
	values := make([][]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) != len(header) {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		row := make([]float64, 0, len(record)-1)
		ok := true
		for _, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				ok = false
				break
			}
			row = append(row, v)
		}
		if !ok {
			continue
		}
		times = append(times, t)
		values = append(values, row)
	}
	return times, values, header[1:], nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 12, 64)
}
