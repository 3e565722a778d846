package main

import "github.com/ivanzzeth/ethereum-jsonrpc-client/cmd"

func main() {
	cmd.Execute()
}
