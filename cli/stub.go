package cli

import (
	"github.com/spf13/cobra"

	"github.com/webchat-dev/webchat/stubserver"
)

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Run the in-memory development backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := stubserver.New(stubserver.Config{
			Secret:         []byte(config.Stub.Secret),
			TokenTTL:       config.Stub.TokenTTL,
			AllowedOrigins: config.Stub.AllowedOrigins,
		}, logger())
		return server.ListenAndServe(cmd.Context(), config.Stub.Addr)
	},
}

func init() {
	rootCmd.AddCommand(stubCmd)
}
