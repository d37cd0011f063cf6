package main

import (
	"github.com/spf13/cobra"

	"cloudproxy/internal/services"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var request requestFlags

	ctx := newCommandContext(&configFlag, &request)

	rootCmd := &cobra.Command{
		Use:   "cloudproxy",
		Short: "Run one adaptation cycle for a gateway request",
		Long: `Run one adaptation cycle for a gateway request.

The input file is staged under its correlation id, handed to the adaptation
service and, when the service produces an artifact, copied to the output path.
The process exit code is the cycle outcome:

  0  rebuilt      1  failed      2  error      3  unprocessed`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCycle(cmd, ctx)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&request.fileID, "file-id", "f", "", "Correlation id for this request (env FILE_ID)")
	flags.StringVarP(&request.input, "input", "i", "", "Input file path (env INPUT_FILEPATH)")
	flags.StringVarP(&request.output, "output", "o", "", "Output file path (env OUTPUT_FILEPATH)")
	flags.StringVarP(&request.returnConfig, "return-config", "r", "", "Return configuration path (accepted, unused)")
	flags.StringVarP(&request.timeout, "timeout", "t", "", "Processing timeout in seconds or as a duration (env PROCESSING_TIMEOUT_SECONDS)")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		if cmd != rootCmd {
			return err
		}
		return services.Wrap(services.ErrConfiguration, "", "", "", err)
	})

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newStagingCommand(ctx))
	rootCmd.AddCommand(newLoopbackCommand(ctx))

	return rootCmd
}
