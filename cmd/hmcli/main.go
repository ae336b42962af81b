// Command hmcli is an interactive shell over an in-memory hash table with
// opaque byte keys and values.
package main

import (
	"os"

	"github.com/fzft/go-hashmap/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newRootCommand() *cobra.Command {
	config := defaultConfig()
	rcFile := getDotfilePath(HmcliRCFileEnv, HmcliRCFileDefault)
	rcErr := loadPreferences(rcFile, &config)

	cmd := &cobra.Command{
		Use:   "hmcli",
		Short: "Interactive shell over an in-memory hash table",
		Long: `hmcli keeps one hash table in memory and runs commands against it.
Commands are read from a terminal with line editing, from piped lines, or
RESP encoded with --pipe. Defaults can be set in ~/.hmclirc (YAML).`,
		Version:      version(gitSHA1, gitDirty),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rcErr != nil {
				return rcErr
			}
			if err := config.Validate(); err != nil {
				return err
			}

			level := zapcore.InfoLevel
			if config.Verbose {
				level = zapcore.DebugLevel
			}
			if err := log.InitLogger(level); err != nil {
				return err
			}
			defer log.Logger.Sync()

			cli, err := NewCli(&config, cmd.OutOrStdout(), log.Logger)
			if err != nil {
				return err
			}
			defer cli.Close()
			log.Logger.Debug("table ready",
				zap.String("hash", config.Hash),
				zap.Int("capacity", config.Capacity),
				zap.String("preferences", rcFile))
			return cli.Run(cmd.InOrStdin())
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
