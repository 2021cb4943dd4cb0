package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"webpress/internal/codec"
	"webpress/internal/pipeline"
	"webpress/internal/session"
)

var sourceExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".heic": true,
	".heif": true,
}

type options struct {
	outDir   string
	targetKB int
	quality  int
	parallel int
	delay    time.Duration
}

func newRootCommand() *cobra.Command {
	var opts options
	var delayMS int

	cmd := &cobra.Command{
		Use:   "webpress <directory|file>...",
		Short: "Compress images to size-budgeted lossy WebP",
		Long: `webpress converts raster images (JPEG, PNG, GIF, WebP, HEIC) to
lossy WebP. The encode quality is suggested from each image's visual
complexity; with --target-kb the quality is stepped down until the
output fits the budget or the quality floor is reached.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.delay = time.Duration(delayMS) * time.Millisecond
			return run(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "compressed", "Output directory")
	cmd.Flags().IntVarP(&opts.targetKB, "target-kb", "t", 0, "Size budget per image in KB (0 disables the adaptive search)")
	cmd.Flags().IntVarP(&opts.quality, "quality", "q", 0, "Fixed quality 30-100, overriding the complexity-derived suggestion")
	cmd.Flags().IntVarP(&opts.parallel, "parallel", "p", 1, "Number of images converted concurrently")
	cmd.Flags().IntVar(&delayMS, "delay", 0, "Pause between exported files in milliseconds")

	return cmd
}

func run(cmd *cobra.Command, args []string, opts options) error {
	sources, err := collectSources(args)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no supported images found")
	}

	sess := session.New(pipeline.New(codec.WebP{}), opts.targetKB)
	for _, path := range sources {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		it := sess.Add(path, data)
		if opts.quality != 0 {
			sess.SetQuality(it.ID, opts.quality)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var failed int
	if opts.parallel > 1 {
		failed = sess.ConvertConcurrent(ctx, opts.parallel)
	} else {
		failed = sess.ConvertAll(ctx)
	}

	out := cmd.OutOrStdout()
	for _, it := range sess.Items() {
		if it.Err != nil {
			fmt.Fprintf(out, "%s: FAILED: %v\n", it.Name, it.Err)
			continue
		}
		fmt.Fprintf(out, "%s -> %s (quality %d, %.1f KB)\n",
			it.Name, session.OutputName(it.Name), it.Result.Quality, float64(len(it.Result.Data))/1024)
	}

	exporter := &session.Exporter{Dir: opts.outDir, Delay: opts.delay}
	written, err := exporter.ExportAll(ctx, sess)
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}

	fmt.Fprintf(out, "Wrote %d of %d images to %s\n", written, sess.Len(), opts.outDir)
	if failed > 0 {
		return fmt.Errorf("%d of %d images failed to convert", failed, sess.Len())
	}
	return nil
}

// collectSources expands arguments into a list of image files.
// Directories are scanned one level deep for supported extensions;
// explicit file arguments are accepted as-is.
func collectSources(args []string) ([]string, error) {
	var sources []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			sources = append(sources, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if sourceExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
				sources = append(sources, filepath.Join(arg, entry.Name()))
			}
		}
	}
	return sources, nil
}
