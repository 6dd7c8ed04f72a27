package cmd

import (
	"fmt"

	"github.com/go-andiamo/kdbxinfo"
	"github.com/go-andiamo/kdbxinfo/internal/config"
	"github.com/go-andiamo/kdbxinfo/internal/digest"
	"github.com/go-andiamo/kdbxinfo/internal/report"
	"github.com/go-andiamo/kdbxinfo/internal/scan"
	"github.com/spf13/cobra"
)

// DefaultDatabase is inspected when no files are given
const DefaultDatabase = "passwords.kdbx"

type inspectFlags struct {
	output           string
	workers          int
	digests          []string
	terminatorLength int
	noFormatVersion  bool
	strict           bool
}

func (a *app) inspectCommand() *cobra.Command {
	f := &inspectFlags{}
	cmd := &cobra.Command{
		Use:   "inspect [files...]",
		Short: "Report the header metadata of KeePass databases",
		Long: `Reads each database header and reports its container kind, format variant and header fields, together with the file size and digests.

Files that cannot be read or whose header is malformed are reported and make the command exit with status 1. With --strict, header warnings (such as an unsupported cipher) do too.`,
		Example: `  kdbxinfo inspect passwords.kdbx
  kdbxinfo inspect --output json --digest sha256 *.kdbx
  kdbxinfo inspect --terminator-length 4 keepass2.kdbx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInspect(cmd, f, args)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "", "output format: text, json or yaml")
	flags.IntVarP(&f.workers, "workers", "w", 0, "number of files inspected concurrently")
	flags.StringSliceVar(&f.digests, "digest", nil, "digest algorithm to report (repeatable): sha1, sha256, sha512, blake2b-256")
	flags.IntVar(&f.terminatorLength, "terminator-length", 0, "value length of the end of header record")
	flags.BoolVar(&f.noFormatVersion, "no-format-version", false, "header records start directly after the signature")
	flags.BoolVar(&f.strict, "strict", false, "treat header warnings as failures")
	return cmd
}

// apply overrides cfg with the flags that were set explicitly
func (f *inspectFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = f.output
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("digest") {
		cfg.Digests = f.digests
	}
	if flags.Changed("terminator-length") {
		cfg.TerminatorLength = f.terminatorLength
	}
	if flags.Changed("no-format-version") {
		cfg.NoFormatVersion = f.noFormatVersion
	}
	if flags.Changed("strict") {
		cfg.Strict = f.strict
	}
}

func (a *app) runInspect(cmd *cobra.Command, f *inspectFlags, args []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	f.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	logger, closer, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		_ = closer.Close()
	}()

	format, err := report.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}
	algs, err := digest.ParseAlgorithms(cfg.Digests)
	if err != nil {
		return err
	}
	parseOptions, err := newParseOptions(cfg)
	if err != nil {
		return err
	}
	paths := args
	if len(paths) == 0 {
		paths = []string{DefaultDatabase}
	}

	logger.Debug("Inspecting databases", "files", len(paths), "workers", cfg.Workers, "output", format)
	scanner := scan.New(a.fs, scan.Options{
		Workers:    cfg.Workers,
		Algorithms: algs,
		Parse:      parseOptions,
		Logger:     logger,
	})
	results := scanner.Scan(cmd.Context(), paths)
	if err := report.Render(cmd.OutOrStdout(), format, results); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	failed, warned := 0, 0
	for _, r := range results {
		switch {
		case r.Failed():
			failed++
		case r.Warned():
			warned++
		}
	}
	logger.Info("Inspection complete", "files", len(results), "failed", failed, "warned", warned)
	if failed > 0 || (cfg.Strict && warned > 0) {
		return fmt.Errorf("%w (%d failed, %d with warnings)", ErrInspectFailed, failed, warned)
	}
	return nil
}

func newParseOptions(cfg *config.Config) (*kdbxinfo.ParseOptions, error) {
	opts := &kdbxinfo.ParseOptions{
		Mode:            kdbxinfo.ParseFull,
		NoFormatVersion: cfg.NoFormatVersion,
	}
	if cfg.TerminatorLength != config.DefaultTerminatorLength {
		registry, err := kdbxinfo.TLVFields.WithTerminatorLength(cfg.TerminatorLength)
		if err != nil {
			return nil, err
		}
		opts.Registry = registry
	}
	return opts, nil
}
