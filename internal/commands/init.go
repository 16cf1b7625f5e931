package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/prreview/internal/config"
	"github.com/tildaslashalef/prreview/internal/utils"
)

// InitCommand returns the CLI command for initializing the configuration directory
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create the prreview configuration directory and .env file",
		Description: "Writes a commented .env with every PRREVIEW_* setting and its default. " +
			"An existing file is kept unless --force is given, in which case a dated backup is made first.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config-dir",
				Usage: "Configuration directory (default: ~/.prreview)",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Back up and replace an existing .env file",
			},
		},
		Action: func(c *cli.Context) error {
			utils.PrintHeading("Initializing prreview")

			configDir := c.String("config-dir")
			if configDir == "" {
				dir, err := config.DefaultConfigDir()
				if err != nil {
					utils.PrintError(err.Error())
					return err
				}
				configDir = dir
			}
			utils.PrintInfo("Configuration directory: " + color.YellowString("%s", configDir))

			envPath, err := config.SetupConfigDirectory(configDir, c.Bool("force"))
			if err != nil {
				utils.PrintError(fmt.Sprintf("Failed to set up configuration files: %s", err))
				return fmt.Errorf("failed to set up configuration directory: %w", err)
			}

			// Load what was written so a broken file is reported now
			if _, err := config.LoadFromEnv(configDir, envPath); err != nil {
				utils.PrintError(fmt.Sprintf("Failed to load configuration: %s", err))
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			utils.PrintSuccess("prreview initialized successfully!")
			utils.PrintInfo("Configuration file: " + color.YellowString("%s", envPath))
			fmt.Println("")
			utils.PrintInfo("Run " + color.CyanString("prreview --base-ref main") + " to review your branch.")

			return nil
		},
	}
}
