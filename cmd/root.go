package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ivanzzeth/ethereum-jsonrpc-client/core"
)

var (
	flagUrl     string
	flagConfig  string
	flagAsync   bool
	flagTimeout int
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ethrpc",
	Short: "Command line JSON-RPC client for Ethereum nodes",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagUrl, "url", "http://127.0.0.1:8545", "node url (http, https, ws, wss)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a json config file, overrides the other flags")
	rootCmd.PersistentFlags().BoolVar(&flagAsync, "async", false, "serialize requests through a background dispatcher")
	rootCmd.PersistentFlags().IntVar(&flagTimeout, "timeout", 10, "request timeout in seconds")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
}

func newClient() *core.Client {
	config := &core.Config{
		Url:     flagUrl,
		Async:   flagAsync,
		Timeout: flagTimeout,
	}

	if flagConfig != "" {
		loaded, err := core.LoadConfig(flagConfig)

		if err != nil {
			logrus.Fatal(err)
		}

		config = loaded
	}

	client, err := core.NewClient(context.Background(), config)

	if err != nil {
		logrus.Fatal(err)
	}

	return client
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
