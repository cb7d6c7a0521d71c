package dataprocessing

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"spreadcli/internal/spread"
)

// LoadSeriesPair parses both input files concurrently. The first error wins
// and cancels the other load.
func LoadSeriesPair(ctx context.Context, path1, path2 string, logger *slog.Logger) ([]spread.SeriesPoint, []spread.SeriesPoint, error) {
	var s1, s2 []spread.SeriesPoint

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		pts, err := ParseSeriesFile(path1, logger)
		if err != nil {
			return err
		}
		s1 = pts
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		pts, err := ParseSeriesFile(path2, logger)
		if err != nil {
			return err
		}
		s2 = pts
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return s1, s2, nil
}
