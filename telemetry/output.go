package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/dendrite/config"
)

// OutputManager handles structured run output: window stats and the radii
// series as CSV, plus a snapshot of the run configuration.
type OutputManager struct {
	dir           string
	telemetryFile *os.File
	radiiFile     *os.File

	telemetryHeaderWritten bool
}

// NewOutputManager creates the output directory and its files. Returns nil
// if dir is empty (output disabled); all methods are no-ops on a nil
// manager.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	om.telemetryFile = f

	f, err = os.Create(filepath.Join(dir, "radii.csv"))
	if err != nil {
		om.telemetryFile.Close()
		return nil, fmt.Errorf("creating radii.csv: %w", err)
	}
	om.radiiFile = f

	return om, nil
}

// Dir returns the output directory.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// WriteConfig saves the run configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteWindow appends a window stats record to telemetry.csv.
func (om *OutputManager) WriteWindow(stats WindowStats) error {
	if om == nil {
		return nil
	}

	records := []WindowStats{stats}

	if !om.telemetryHeaderWritten {
		if err := gocsv.Marshal(records, om.telemetryFile); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		om.telemetryHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.telemetryFile); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
	}

	return nil
}

// WriteRadii writes the full radii series to radii.csv.
func (om *OutputManager) WriteRadii(samples []RadiusSample) error {
	if om == nil {
		return nil
	}
	if err := gocsv.Marshal(samples, om.radiiFile); err != nil {
		return fmt.Errorf("writing radii: %w", err)
	}
	return nil
}

// CreateFile opens an extra output file in the run directory.
func (om *OutputManager) CreateFile(name string) (*os.File, error) {
	if om == nil {
		return nil, nil
	}
	f, err := os.Create(filepath.Join(om.dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return f, nil
}

// Close flushes and closes the CSV files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	if err := om.telemetryFile.Close(); err != nil {
		firstErr = err
	}
	if err := om.radiiFile.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
