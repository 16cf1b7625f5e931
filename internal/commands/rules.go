package commands

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/prreview/internal/app"
	"github.com/tildaslashalef/prreview/internal/rules"
	"github.com/tildaslashalef/prreview/internal/utils"
)

// RulesCommand returns the CLI command that prints the active rule catalogue
func RulesCommand() *cli.Command {
	return &cli.Command{
		Name:        "rules",
		Usage:       "List the active thresholds, naming conventions, and issue patterns",
		Description: "Prints the rule configuration a review would use, including overrides from the environment.",
		Action: func(c *cli.Context) error {
			application, err := app.FromContext(c)
			if err != nil {
				return err
			}

			rc, err := application.Config.RuleConfig()
			if err != nil {
				return fmt.Errorf("invalid rule configuration: %w", err)
			}

			printRules(rc, !application.Config.Output.Color)
			return nil
		},
	}
}

func printRules(rc rules.Config, plain bool) {
	utils.PrintHeading("Thresholds")
	utils.PrintTable(
		[]string{"Metric", "Limit", "Severity"},
		[][]string{
			{rules.MetricFunctionLength, strconv.Itoa(rc.LengthThreshold), "medium"},
			{rules.MetricParameterCount, strconv.Itoa(rc.ParamThreshold), "medium"},
			{rules.MetricNestingDepth, strconv.Itoa(rc.NestingThreshold), "medium"},
		},
		utils.TableOptions{Plain: plain},
	)
	utils.PrintKeyValue("Line resolution", string(rc.LineResolution))
	fmt.Println()

	utils.PrintHeading("Naming conventions")
	naming := make([][]string, 0, len(rc.NamingConventions))
	for _, nc := range rc.NamingConventions {
		naming = append(naming, []string{string(nc.Role), nc.Pattern.String(), nc.Message})
	}
	utils.PrintTable([]string{"Role", "Pattern", "Message"}, naming, utils.TableOptions{Plain: plain})
	fmt.Println()

	utils.PrintHeading("Issue patterns")
	patterns := make([][]string, 0, len(rc.IssuePatterns))
	for _, p := range rc.IssuePatterns {
		patterns = append(patterns, []string{p.ID, string(p.Severity), p.Message})
	}
	utils.PrintTable([]string{"ID", "Severity", "Message"}, patterns, utils.TableOptions{Plain: plain})
}
