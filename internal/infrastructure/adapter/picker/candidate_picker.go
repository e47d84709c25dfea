package picker

import (
	"context"
	"fmt"
	"os"

	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	pickerport "github.com/amirhossein-jamali/atm-console/internal/domain/port/picker"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/tunnel"
)

// CandidatePicker chooses the first readable file from a configured list.
// A headless console has no dialog, so the list stands in for the operator's choice.
type CandidatePicker struct {
	candidates []string
	logger     coreport.Logger
}

var _ pickerport.FilePicker = (*CandidatePicker)(nil)

// NewCandidatePicker creates a picker over candidates, tried in order
func NewCandidatePicker(candidates []string, logger coreport.Logger) *CandidatePicker {
	return &CandidatePicker{
		candidates: candidates,
		logger:     logger,
	}
}

// PickFile returns the first candidate that is a regular file. ok is false when none is.
func (p *CandidatePicker) PickFile(ctx context.Context) (string, bool, error) {
	for _, candidate := range p.candidates {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}

		path := tunnel.ExpandHome(candidate)
		info, err := os.Stat(path)
		switch {
		case os.IsNotExist(err):
			continue
		case err != nil:
			return "", false, fmt.Errorf("failed to inspect %s: %w", path, err)
		case !info.Mode().IsRegular():
			continue
		}

		p.logger.Info("Key file picked", map[string]any{"path": path})
		return path, true, nil
	}

	p.logger.Info("No key file found", map[string]any{"candidates": len(p.candidates)})
	return "", false, nil
}
