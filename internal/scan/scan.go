// Package scan reads database files and inspects their headers, one file per worker.
package scan

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-andiamo/kdbxinfo"
	"github.com/go-andiamo/kdbxinfo/internal/digest"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
)

// Result is the outcome of inspecting one file
type Result struct {
	Path     string
	Size     int64
	Digests  digest.Set
	Database *kdbxinfo.Database
	// Err is the read or parse error - Database is nil when set
	Err error
}

// Failed reports whether the file could not be read or its header is malformed
func (r Result) Failed() bool {
	return r.Err != nil
}

// Warned reports whether the header parsed with soft conditions
func (r Result) Warned() bool {
	return r.Database != nil && len(r.Database.Warnings()) > 0
}

// Options configures a Scanner
type Options struct {
	// Workers bounds the number of files processed concurrently (values < 1 mean 1)
	Workers int
	// Algorithms are the whole-file digests to compute
	Algorithms []digest.Algorithm
	// Parse is passed to kdbxinfo.Parse
	Parse *kdbxinfo.ParseOptions
	// Logger defaults to slog.Default()
	Logger *slog.Logger
}

type Scanner struct {
	fs      afero.Fs
	workers int
	algs    []digest.Algorithm
	parse   *kdbxinfo.ParseOptions
	logger  *slog.Logger
}

func New(fs afero.Fs, opts Options) *Scanner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		fs:      fs,
		workers: max(opts.Workers, 1),
		algs:    opts.Algorithms,
		parse:   opts.Parse,
		logger:  logger.With("component", "scan"),
	}
}

// Scan inspects every path and returns the results in input order
//
// a failing file never stops the others; files not started before ctx is done get ctx's error
func (s *Scanner) Scan(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(s.workers)
	for i, path := range paths {
		p.Go(func(ctx context.Context) error {
			results[i] = s.ScanFile(ctx, path)
			return nil
		})
	}
	_ = p.Wait()
	return results
}

// ScanFile reads one file, digests it and parses its header
func (s *Scanner) ScanFile(ctx context.Context, path string) Result {
	result := Result{Path: path}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		result.Err = fmt.Errorf("read %s: %w", path, err)
		s.logger.Warn("Unable to read file", "path", path, "error", err)
		return result
	}
	result.Size = int64(len(data))
	if result.Digests, err = digest.Sum(data, s.algs...); err != nil {
		result.Err = fmt.Errorf("digest %s: %w", path, err)
		return result
	}
	db, err := kdbxinfo.Parse(data, s.parse)
	if err != nil {
		result.Err = fmt.Errorf("parse %s: %w", path, err)
		s.logger.Warn("Malformed database header", "path", path, "error", err)
		return result
	}
	result.Database = db
	for _, w := range db.Warnings() {
		s.logger.Warn("Database header warning", "path", path, "warning", w)
	}
	s.logger.Debug("Parsed database header",
		"path", path,
		"container", db.Kind(),
		"variant", db.Signature.Variant(),
		"header_size", db.HeaderSize())
	return result
}
