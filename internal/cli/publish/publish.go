// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package publish

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/fabrica/internal/appfile"
	"github.com/platform-engineering-labs/fabrica/internal/cli/cmd"
	"github.com/platform-engineering-labs/fabrica/internal/cli/config"
	"github.com/platform-engineering-labs/fabrica/internal/cli/display"
	"github.com/platform-engineering-labs/fabrica/internal/logging"
	"github.com/platform-engineering-labs/fabrica/internal/manifest"
	"github.com/platform-engineering-labs/fabrica/internal/util"
)

type PublishOptions struct {
	AppFiles []string
	OutDir   string
	Beautify bool
}

func validatePublishOptions(opts *PublishOptions) error {
	if len(opts.AppFiles) == 0 {
		return cmd.FlagErrorf("at least one application file is required")
	}
	if opts.OutDir == "" {
		return cmd.FlagErrorf("output directory must not be empty")
	}
	return nil
}

func PublishCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "publish",
		Short: "Compile application definitions into deployment manifests",
		PreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupClientLogging(fmt.Sprintf("%s/log/client.log", config.Config.DataDirectory()), slog.LevelWarn)
		},
		RunE: func(command *cobra.Command, args []string) error {
			opts := &PublishOptions{}
			opts.AppFiles = args
			out, _ := command.Flags().GetString("out")
			opts.OutDir = util.ExpandHomePath(out)
			opts.Beautify, _ = command.Flags().GetBool("beautify")

			return runPublish(opts)
		},
		Annotations: map[string]string{
			"type":     "Application",
			"examples": "{{.Name}} {{.Command}} app.yaml  |  {{.Name}} {{.Command}} --out dist shop.yaml billing.yaml",
			"args":     "<application file>...",
		},
		SilenceErrors: true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)

	command.Flags().String("out", "manifests", "Directory the manifests and materialized templates are written to")
	command.Flags().Bool("beautify", true, "beautify manifest output")

	return command
}

func runPublish(opts *PublishOptions) error {
	if err := validatePublishOptions(opts); err != nil {
		return err
	}

	display.PrintBanner()

	// Independent applications publish concurrently; a single application is
	// always a single pass.
	results := make([]error, len(opts.AppFiles))
	var wg conc.WaitGroup
	for i, file := range opts.AppFiles {
		wg.Go(func() {
			results[i] = publishOne(file, opts)
		})
	}
	wg.Wait()

	failed := 0
	for i, err := range results {
		if err != nil {
			failed++
			display.Error(fmt.Sprintf("%s: %v", opts.AppFiles[i], err))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d applications failed to publish", failed, len(opts.AppFiles))
	}

	display.Success(fmt.Sprintf("Published %d application(s) to %s", len(opts.AppFiles), opts.OutDir))
	return nil
}

func publishOne(file string, opts *PublishOptions) error {
	app, err := appfile.Load(file)
	if err != nil {
		return err
	}

	manifestPath := filepath.Join(opts.OutDir, app.Name+".manifest.json")
	return manifest.Publish(app, manifestPath, opts.Beautify)
}
