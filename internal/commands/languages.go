package commands

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/prreview/internal/app"
	"github.com/tildaslashalef/prreview/internal/parser"
	"github.com/tildaslashalef/prreview/internal/utils"
)

// LanguagesCommand returns the CLI command that prints the language families
func LanguagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "languages",
		Usage: "List the file extensions each language family covers",
		Description: "Files of other extensions are still scanned for issue patterns " +
			"but get no function or identifier extraction.",
		Action: func(c *cli.Context) error {
			application, err := app.FromContext(c)
			if err != nil {
				return err
			}

			classifier := parser.NewClassifier(application.Logger)
			rows := make([][]string, 0, len(parser.Families()))
			for _, family := range parser.Families() {
				exts := classifier.Extensions(family)
				if len(exts) == 0 {
					continue
				}
				rows = append(rows, []string{string(family), strings.Join(exts, " ")})
			}

			utils.PrintTable([]string{"Family", "Extensions"}, rows, utils.TableOptions{Plain: !application.Config.Output.Color})
			return nil
		},
	}
}
