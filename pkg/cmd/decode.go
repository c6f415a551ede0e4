package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var decodeRaw bool

func init() {
	DecodeCmd.Flags().BoolVar(&decodeRaw, "raw", false, "include the backend payload in the output")
}

var DecodeCmd = &cobra.Command{
	Use:   DecodeCmdName,
	Short: DecodeCmdShort,
	Long:  DecodeCmdLong,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		result := a.resolver.Decode(cmd.Context(), args[0])
		if !decodeRaw {
			result.Raw = nil
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}
