package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/giladbarnea/spaceup"
	"github.com/giladbarnea/spaceup/internal/config"
	"github.com/giladbarnea/spaceup/internal/fileutil"
	"github.com/giladbarnea/spaceup/internal/hints"
)

// maxAutoWorkers caps the worker count derived from GOMAXPROCS.
const maxAutoWorkers = 8

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input spaceup.Input) (*spaceup.ConvertResult, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*spaceup.Converter)(nil)

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	title        string
	date         string
	standalone   bool
	rewriteLinks bool
	toc          *spaceup.TOC
	quiet        bool
	stdout       io.Writer // target for an output path of "-"
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Size       int
	Err        error
	Duration   time.Duration
}

// resolveWorkers determines the worker count.
// Priority: explicit value > GOMAXPROCS (adjusted by automaxprocs for containers).
func resolveWorkers(n int) int {
	if n > 0 {
		return min(n, config.MaxWorkers)
	}
	return min(max(runtime.GOMAXPROCS(0), 1), maxAutoWorkers)
}

// convertBatch converts files concurrently. The converter is shared by all
// workers; results keep the order of files.
func convertBatch(ctx context.Context, conv CLIConverter, workers int, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(max(workers, 1), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile converts a single file and returns the result.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	source, err := readSource(f.InputPath, nil)
	if err != nil {
		return fail(err)
	}

	input := spaceup.Input{
		Source:     source,
		Title:      params.title,
		Date:       params.date,
		TOC:        params.toc,
		Standalone: params.standalone,
	}
	if params.rewriteLinks {
		input.SourceDir = filepath.Dir(f.InputPath)
	}

	converted, err := conv.Convert(ctx, input)
	if err != nil {
		return fail(err)
	}
	result.Size = len(converted.HTML)

	if f.OutputPath == stdio {
		if _, err := params.stdout.Write(converted.HTML); err != nil {
			return fail(fmt.Errorf("%w: %w", ErrWriteOutput, err))
		}
	} else if err := fileutil.WriteFileAtomic(f.OutputPath, converted.HTML); err != nil {
		return fail(fmt.Errorf("%w: %w%s", ErrWriteOutput, err, hints.ForOutputDirectory()))
	}

	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Bytes     int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		summary.Bytes += r.Size
	}
	return summary
}

// printResults reports each result and returns the failure count.
// Output written to stdout is not announced.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet || r.OutputPath == stdio {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%s, %v)\n", r.InputPath, r.OutputPath,
				humanize.Bytes(uint64(r.Size)), r.Duration.Round(time.Millisecond)) // #nosec G115 -- sizes are non-negative
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed (%s written)\n",
			summary.Succeeded, summary.Failed, humanize.Bytes(uint64(summary.Bytes))) // #nosec G115 -- sizes are non-negative
	}

	return summary.Failed
}
