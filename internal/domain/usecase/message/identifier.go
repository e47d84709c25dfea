package message

import (
	"context"
	"fmt"

	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
)

// Identifier widths and ranges
const (
	TraceNumberDigits = 6
	RrnDigits         = 12

	maxTraceNumber = 999_999
	maxRrn         = 999_999_999_999

	// DefaultMaxAttempts bounds redraws when a candidate was already issued
	DefaultMaxAttempts = 16
)

// UsageChecker reports whether an identifier was already issued
type UsageChecker interface {
	TraceNumberExists(ctx context.Context, traceNumber string) (bool, error)
	RrnExists(ctx context.Context, rrn string) (bool, error)
}

// IdentifierGenerator draws STAN and RRN values
type IdentifierGenerator struct {
	random      coreport.RandomSource
	maxAttempts int
}

// NewIdentifierGenerator creates a generator drawing from random
func NewIdentifierGenerator(random coreport.RandomSource, maxAttempts int) *IdentifierGenerator {
	if random == nil {
		panic("random source cannot be nil")
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &IdentifierGenerator{random: random, maxAttempts: maxAttempts}
}

// TraceNumber returns a 6 digit zero padded STAN drawn from [0, 999999]
func (g *IdentifierGenerator) TraceNumber() string {
	return fmt.Sprintf("%0*d", TraceNumberDigits, g.random.Int63n(maxTraceNumber+1))
}

// Rrn returns a 12 digit zero padded RRN drawn from [0, 999999999999]
func (g *IdentifierGenerator) Rrn() string {
	return fmt.Sprintf("%0*d", RrnDigits, g.random.Int63n(maxRrn+1))
}

// UniqueTraceNumber draws a STAN that checker has not seen. A nil checker accepts the first draw.
func (g *IdentifierGenerator) UniqueTraceNumber(ctx context.Context, checker UsageChecker) (string, error) {
	if checker == nil {
		return g.TraceNumber(), nil
	}
	return g.unique(ctx, "trace number", g.TraceNumber, checker.TraceNumberExists)
}

// UniqueRrn draws an RRN that checker has not seen. A nil checker accepts the first draw.
func (g *IdentifierGenerator) UniqueRrn(ctx context.Context, checker UsageChecker) (string, error) {
	if checker == nil {
		return g.Rrn(), nil
	}
	return g.unique(ctx, "rrn", g.Rrn, checker.RrnExists)
}

func (g *IdentifierGenerator) unique(
	ctx context.Context,
	name string,
	draw func() string,
	exists func(context.Context, string) (bool, error),
) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		candidate := draw()
		used, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check %s %s: %w", name, candidate, err)
		}
		if !used {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s after %d attempts", errs.ErrIdentifierExhausted, name, g.maxAttempts)
}
