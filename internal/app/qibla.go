// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/relabs-tech/view360/internal/bearing"
	"github.com/relabs-tech/view360/internal/config"
)

// RunQibla performs a single bearing lookup with the configured source and
// prints the result.
func RunQibla(out io.Writer, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return printBearing(ctx, out, bearingSource(config.Get()))
}

func printBearing(ctx context.Context, out io.Writer, src bearing.Source) error {
	res, err := src.Bearing(ctx)
	if err != nil {
		return fmt.Errorf("bearing lookup: %w", err)
	}
	fmt.Fprintf(out, "%s\n", res)
	return nil
}
