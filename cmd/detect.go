package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mevwatcher/evm"
	"mevwatcher/logger"
	"mevwatcher/utils"
)

var detectExplain bool

var detectCmd = cobra.Command{
	Use:   "detect [file]",
	Short: "Read a JSON list of transactions (file or stdin) and print whether it is a sandwich",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger.InitLogs("detect")

		in := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				logger.DetectLogger.Error(utils.READ_FAILURE, "file", args[0], "err", err)
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", utils.READ_FAILURE, err)
				fmt.Fprintln(cmd.OutOrStdout(), false)
				return
			}
			defer f.Close()
			in = f
		}
		runDetect(finderFromConfig(), in, cmd.OutOrStdout(), cmd.ErrOrStderr(), detectExplain)
	},
}

// runDetect prints the verdict on out. Malformed input yields false on out and the reason on errOut,
// so a parse failure can be told apart from a negative verdict.
func runDetect(finder evm.SandwichFinder, in io.Reader, out, errOut io.Writer, explain bool) bool {
	doc, err := io.ReadAll(in)
	if err != nil {
		logger.DetectLogger.Error(utils.READ_FAILURE, "err", err)
		fmt.Fprintf(errOut, "%s: %v\n", utils.READ_FAILURE, err)
		fmt.Fprintln(out, false)
		return false
	}

	verdict, err := finder.InspectJSON(doc)
	if err != nil {
		fmt.Fprintln(errOut, err)
		fmt.Fprintln(out, false)
		return false
	}
	if !explain {
		fmt.Fprintln(out, verdict.Sandwich)
		return verdict.Sandwich
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(verdict); err != nil {
		logger.DetectLogger.Error("Failed to print verdict", "err", err)
	}
	return verdict.Sandwich
}

func init() {
	detectCmd.Flags().BoolVarP(&detectExplain, "explain", "x", false, "print the full verdict as JSON instead of true/false")
	RootCmd.AddCommand(&detectCmd)
}
