package cmd

import (
	"errors"

	"github.com/go-andiamo/kdbxinfo/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// exit statuses
const (
	ExitOK     = 0
	ExitFailed = 1 // at least one file failed (or warned, with --strict)
	ExitUsage  = 2
)

// ErrInspectFailed is returned once every file has been reported and at least one failed
var ErrInspectFailed = errors.New("one or more databases could not be inspected")

// ExitCode maps a command error to a process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInspectFailed):
		return ExitFailed
	}
	return ExitUsage
}

type app struct {
	fs         afero.Fs
	configFile string
	logLevel   string
	logFile    string
}

// NewRootCommand builds the kdbxinfo command tree reading files (and the config file) from fs
func NewRootCommand(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs}
	root := &cobra.Command{
		Use:           "kdbxinfo",
		Short:         "Inspect KeePass database headers",
		Long:          `kdbxinfo reads the unencrypted header of KeePass 1.x (.kdb) and 2.x (.kdbx) databases and reports its metadata. No password is needed and nothing is decrypted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "write logs to this file (rotated) instead of stderr")

	root.AddCommand(a.inspectCommand(), versionCommand())
	return root
}

// loadConfig loads the config file and environment, then applies the persistent flags
//
// the result is not validated again - callers apply their own flags first
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(a.fs, a.configFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = a.logFile
	}
	return cfg, nil
}
