// Package oracle composes extraction oracles.
package oracle

import (
	"context"
	"errors"
	"fmt"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
)

var ErrNoOracle = errors.New("no extraction oracle configured")

// Logger is the subset of the application logger the chain writes to.
type Logger interface {
	Warn(module, message string, details map[string]interface{})
}

// Named is an oracle that can identify itself in logs.
type Named interface {
	intake.Oracle
	Name() string
}

// Chain tries each oracle in order and returns the first successful
// extraction. A cancelled context stops the chain immediately.
type Chain struct {
	oracles []Named
	logger  Logger
}

func NewChain(logger Logger, oracles ...Named) *Chain {
	return &Chain{oracles: oracles, logger: logger}
}

func (c *Chain) Extract(ctx context.Context, req intake.OracleRequest) (*intake.Extraction, error) {
	if len(c.oracles) == 0 {
		return nil, ErrNoOracle
	}

	var lastErr error
	for i, o := range c.oracles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := o.Extract(ctx, req)
		if err == nil && out != nil {
			return out, nil
		}
		if err == nil {
			err = fmt.Errorf("%s oracle returned no extraction", o.Name())
		}
		lastErr = err
		if c.logger != nil && i < len(c.oracles)-1 {
			c.logger.Warn("oracle", "Extraction failed, falling back", map[string]interface{}{
				"oracle":   o.Name(),
				"fallback": c.oracles[i+1].Name(),
				"error":    err.Error(),
			})
		}
	}
	return nil, lastErr
}

func (c *Chain) Name() string {
	name := "chain"
	for i, o := range c.oracles {
		if i == 0 {
			name += ":"
		} else {
			name += ","
		}
		name += o.Name()
	}
	return name
}
