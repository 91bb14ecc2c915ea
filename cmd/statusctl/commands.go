package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"shipment-status/internal/core/cache"
	"shipment-status/internal/features/status/adapters"
	"shipment-status/internal/features/status/domain"

	"github.com/dustin/go-humanize"
)

// unmappedTimeout bounds the Redis query of the unmapped command.
const unmappedTimeout = 5 * time.Second

// NormalizeCmd normalizes statuses given as arguments or read from stdin.
type NormalizeCmd struct {
	Raw    []string `arg:"" optional:"" help:"Raw statuses. Reads stdin when omitted."`
	Format string   `short:"f" enum:"table,yaml,json" default:"table" help:"Output format (table, yaml, json)"`
}

// Run prints one row per input status, in input order.
func (c *NormalizeCmd) Run(out io.Writer, in io.Reader) error {
	raws := c.Raw
	if len(raws) == 0 {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			raws = append(raws, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	}

	rows := make([]normalizedRow, 0, len(raws))
	for _, raw := range raws {
		rows = append(rows, normalizedRow{Raw: raw, Result: domain.Normalize(raw)})
	}

	return render(out, c.Format, rows, func() string { return normalizeTable(rows) })
}

// StagesCmd prints every canonical stage.
type StagesCmd struct {
	Format string `short:"f" enum:"table,yaml,json" default:"table" help:"Output format (table, yaml, json)"`
}

// Run prints the stage table in stage order.
func (c *StagesCmd) Run(out io.Writer) error {
	stages := domain.Stages()
	return render(out, c.Format, stages, func() string { return stagesTable(stages) })
}

// UnmappedCmd reads fall-through counters from Redis.
type UnmappedCmd struct {
	RedisURL string `name:"redis-url" env:"REDIS_URL" required:"" help:"Redis URL (redis://host:port/db)"`
	Limit    int    `short:"n" default:"20" help:"Number of statuses to print"`
	Format   string `short:"f" enum:"table,yaml,json" default:"table" help:"Output format (table, yaml, json)"`
}

// Run prints the most frequent unmapped statuses.
func (c *UnmappedCmd) Run(out io.Writer) error {
	redisCache, err := cache.NewRedisAdapter(c.RedisURL)
	if err != nil {
		return err
	}
	defer redisCache.Close()

	ctx, cancel := context.WithTimeout(context.Background(), unmappedTimeout)
	defer cancel()

	statuses, err := adapters.NewRedisUnmappedRecorder(redisCache, adapters.DefaultMaxMembers).Top(ctx, c.Limit)
	if err != nil {
		return err
	}

	if c.Format == "table" && len(statuses) == 0 {
		_, err := fmt.Fprintln(out, "No unmapped statuses recorded.")
		return err
	}

	return render(out, c.Format, statuses, func() string { return unmappedTable(statuses) })
}

// formatCount renders a counter with thousands separators.
func formatCount(n int64) string {
	return humanize.Comma(n)
}
