package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ivanzzeth/ethereum-jsonrpc-client/core"
)

var (
	flagMaxWait int
	flagSleep   int
)

var waitBlockCmd = &cobra.Command{
	Use:   "wait-block <number>",
	Short: "Block until the chain reaches a height, then print that block",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		number, err := strconv.ParseUint(args[0], 10, 63)

		if err != nil {
			logrus.Fatalf("invalid block number %s", args[0])
		}

		client := newClient()
		defer client.Close()

		block, err := core.WaitForBlock(client, core.BlockNumber(number),
			time.Duration(flagMaxWait)*time.Second, time.Duration(flagSleep)*time.Second)

		if err != nil {
			logrus.Fatal(err)
		}

		bts, _ := json.MarshalIndent(block, "", "  ")
		fmt.Println(string(bts))
	},
}

var waitTxCmd = &cobra.Command{
	Use:   "wait-tx <hash>",
	Short: "Block until a transaction is mined, then print its receipt",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient()
		defer client.Close()

		receipt, err := core.WaitForTransaction(client, common.HexToHash(args[0]),
			time.Duration(flagMaxWait)*time.Second, time.Duration(flagSleep)*time.Second)

		if err != nil {
			logrus.Fatal(err)
		}

		bts, _ := json.MarshalIndent(receipt, "", "  ")
		fmt.Println(string(bts))
	},
}

func init() {
	for _, c := range []*cobra.Command{waitBlockCmd, waitTxCmd} {
		c.Flags().IntVar(&flagMaxWait, "max-wait", 60, "give up after this many seconds")
		c.Flags().IntVar(&flagSleep, "sleep", 5, "seconds between polling attempts")
	}

	rootCmd.AddCommand(waitBlockCmd)
	rootCmd.AddCommand(waitTxCmd)
}
