package main

import (
	"github.com/spf13/cobra"

	"github.com/backmassage/aniconvert/internal/config"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	config   string
	logLevel string
	logFile  string
	color    string
}

type commandContext struct {
	flags *globalFlags
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

// loadConfig layers defaults, the config file and the global flags the user
// set. Command flags and validation are left to the caller.
func (c *commandContext) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, _, _, err := c.loadConfigFile(cmd)
	return cfg, err
}

// loadConfigFile is loadConfig that also reports the resolved config path and
// whether a file was read.
func (c *commandContext) loadConfigFile(cmd *cobra.Command) (*config.Config, string, bool, error) {
	cfg, path, exists, err := config.Load(c.flags.config)
	if err != nil {
		return nil, "", false, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = c.flags.logLevel
	}
	if flags.Changed("log-file") {
		logFile, err := config.ExpandPath(c.flags.logFile)
		if err != nil {
			return nil, "", false, err
		}
		cfg.Logging.File = logFile
	}
	if flags.Changed("color") {
		cfg.Logging.Color = config.ColorMode(c.flags.color)
	}
	return cfg, path, exists, nil
}
