// Command panoblend-compose composites a set of views described by a
// YAML manifest into a single panorama, written in panoblend's
// self-describing tiled-float format.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/panoblend/panoblend"
	"github.com/panoblend/panoblend/ioformat"
)

func main() {
	width := flag.Int("width", 4096, "panorama width in pixels")
	height := flag.Int("height", 2048, "panorama height in pixels")
	tileSize := flag.Int("tile-size", 512, "tile edge length in pixels")
	levels := flag.Int("levels", 6, "number of Laplacian pyramid levels")
	maxResident := flag.Int("max-resident-tiles", 2048, "resident tile budget")
	scratchDir := flag.String("scratch-dir", "", "directory for evicted tiles (default: tilestore's own default)")
	manifestPath := flag.String("manifest", "", "path to a YAML view manifest")
	output := flag.String("output", "panorama.pblend", "output file path")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		panoblend.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if *manifestPath == "" {
		fmt.Fprintln(os.Stderr, "panoblend-compose: -manifest is required")
		os.Exit(2)
	}

	if err := run(*width, *height, *tileSize, *levels, *maxResident, *scratchDir, *manifestPath, *output); err != nil {
		fmt.Fprintln(os.Stderr, "panoblend-compose:", err)
		os.Exit(1)
	}
}

func run(width, height, tileSize, levels, maxResident int, scratchDir, manifestPath, output string) error {
	manifest, err := ioformat.LoadViewManifest(manifestPath)
	if err != nil {
		return err
	}

	opts := []panoblend.Option{
		panoblend.WithTileSize(tileSize),
		panoblend.WithLevels(levels),
		panoblend.WithMaxResidentTiles(maxResident),
	}
	if scratchDir != "" {
		opts = append(opts, panoblend.WithScratchDir(scratchDir))
	}
	c, err := panoblend.New(width, height, opts...)
	if err != nil {
		return fmt.Errorf("create compositer: %w", err)
	}
	defer c.Close()

	for i, entry := range manifest.Views {
		color, mask, weight, err := ioformat.LoadColorMaskWeight(entry)
		if err != nil {
			return fmt.Errorf("view %d: %w", i, err)
		}
		view := panoblend.NewView(color, mask, weight, entry.OffsetX, entry.OffsetY)
		if err := c.Apply(view); err != nil {
			return fmt.Errorf("view %d: apply: %w", i, err)
		}
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	if err := c.Finish(ioformat.NewTiledFloatWriter(f), 0); err != nil {
		return fmt.Errorf("finish: %w", err)
	}

	stats := c.Stats()
	fmt.Printf("wrote %s (%d views, %d/%d tiles resident)\n", output, len(manifest.Views), stats.ResidentTiles, stats.TotalTiles)
	return nil
}
