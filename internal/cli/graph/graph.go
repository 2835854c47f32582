// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package graph

import (
	"fmt"
	"strings"

	"github.com/ddddddO/gtree"
	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/fabrica/internal/appfile"
	"github.com/platform-engineering-labs/fabrica/internal/cli/cmd"
	"github.com/platform-engineering-labs/fabrica/internal/cli/config"
	"github.com/platform-engineering-labs/fabrica/internal/cli/display"
	"github.com/platform-engineering-labs/fabrica/internal/logging"
	"github.com/platform-engineering-labs/fabrica/pkg/model"
)

func GraphCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "graph",
		Short: "Show the cross-resource reference graph of an application",
		PreRun: func(cmd *cobra.Command, args []string) {
			// The tree renders to stdout; keep the console free of log noise.
			logging.SetupClientLogging(fmt.Sprintf("%s/log/client.log", config.Config.DataDirectory()), logging.NoLoggingLevel)
		},
		RunE: func(command *cobra.Command, args []string) error {
			if command.Flags().Arg(0) == "" {
				return cmd.FlagErrorf("an application file is required")
			}
			return runGraph(command.Flags().Arg(0))
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

func runGraph(file string) error {
	app, err := appfile.Load(file)
	if err != nil {
		return err
	}

	root := gtree.NewRoot(display.Gold(app.Name))

	for _, res := range app.Resources {
		node := root.Add(display.Green(res.Label) + " " + display.Grey(res.Kind))

		for _, name := range res.SortedParameterNames() {
			if edge := referenceEdge(res.Parameters[name]); edge != "" {
				node.Add(name + " " + display.Grey("->") + " " + display.LightBlue(edge))
			}
		}
	}

	var buf strings.Builder
	if err := gtree.OutputFromRoot(&buf, root); err != nil {
		return err
	}

	fmt.Print(buf.String())
	return nil
}

func referenceEdge(value model.ParameterValue) string {
	switch v := value.(type) {
	case model.OutputRef:
		return v.Expr()
	case model.SecretOutputRef:
		return v.Expr()
	case model.ConnectionRef:
		return v.Expr()
	case model.RuntimeParamRef:
		return "{params." + v.Name + "}"
	default:
		return ""
	}
}
