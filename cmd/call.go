package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ivanzzeth/ethereum-jsonrpc-client/core"
)

var flagBlock int64

var callCmd = &cobra.Command{
	Use:   "call <method> [param...]",
	Short: "Issue a raw JSON-RPC call and print the result",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient()
		defer client.Close()

		params := make([]interface{}, 0, len(args)-1)
		for _, arg := range args[1:] {
			params = append(params, arg)
		}

		res, err := client.MakeRequest(args[0], params)

		if err != nil {
			logrus.Fatal(err)
		}

		fmt.Println(string(res))
	},
}

var blockNumberCmd = &cobra.Command{
	Use:   "block-number",
	Short: "Print the current block number",
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient()
		defer client.Close()

		number, err := client.BlockNumber()

		if err != nil {
			logrus.Fatal(err)
		}

		fmt.Println(number)
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "Print an account balance in wei",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient()
		defer client.Close()

		block := core.LatestBlock
		if flagBlock >= 0 {
			block = core.BlockNumber(flagBlock)
		}

		balance, err := client.GetBalance(common.HexToAddress(args[0]), block)

		if err != nil {
			logrus.Fatal(err)
		}

		fmt.Println(balance.String())
	},
}

func init() {
	balanceCmd.Flags().Int64Var(&flagBlock, "block", -1, "block height to query at, default latest")

	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(blockNumberCmd)
	rootCmd.AddCommand(balanceCmd)
}
