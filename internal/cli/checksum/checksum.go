// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package checksum

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/fabrica/internal/appfile"
	"github.com/platform-engineering-labs/fabrica/internal/cli/cmd"
	"github.com/platform-engineering-labs/fabrica/internal/cli/config"
	"github.com/platform-engineering-labs/fabrica/internal/cli/display"
	"github.com/platform-engineering-labs/fabrica/internal/eval"
	"github.com/platform-engineering-labs/fabrica/internal/logging"
)

func ChecksumCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "checksum",
		Short: "Show the content checksum of every resource in an application",
		PreRun: func(cmd *cobra.Command, args []string) {
			// The table renders to stdout; keep the console free of log noise.
			logging.SetupClientLogging(fmt.Sprintf("%s/log/client.log", config.Config.DataDirectory()), logging.NoLoggingLevel)
		},
		RunE: func(command *cobra.Command, args []string) error {
			if command.Flags().Arg(0) == "" {
				return cmd.FlagErrorf("an application file is required")
			}
			return runChecksum(command.Flags().Arg(0))
		},
		Annotations: map[string]string{
			"type":     "Application",
			"examples": "{{.Name}} {{.Command}} app.yaml",
			"args":     "<application file>",
		},
		SilenceErrors: true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)

	return command
}

func runChecksum(file string) error {
	app, err := appfile.Load(file)
	if err != nil {
		return err
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.On}},
		})))

	table.Header(display.LightBlue("Resource"), "Kind", display.Gold("Checksum"))

	for _, res := range app.Resources {
		sum, err := eval.Checksum(app, res)
		if err != nil {
			return fmt.Errorf("cannot checksum resource %s: %w", res.Label, err)
		}
		if err := table.Append([]string{display.Green(res.Label), res.Kind, sum}); err != nil {
			return fmt.Errorf("error formatting checksum table: %v", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("error rendering checksum table: %v", err)
	}

	fmt.Print(buf.String())
	return nil
}
