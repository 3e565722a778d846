package core

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const (
	DefaultMaxWait       = 60 * time.Second
	DefaultSleepInterval = 5 * time.Second
)

// Both waiters attempt first and check the deadline only after a failed
// attempt, before sleeping. That guarantees at least one attempt, never
// sleeps past the deadline, and keeps the two loops on one policy.

// WaitForBlock polls the current height every sleepInterval until it reaches
// blockNumber, then returns that block fully fetched. Fails with
// DeadlineExceededError once maxWait has elapsed.
func WaitForBlock(client *Client, blockNumber BlockNumber, maxWait, sleepInterval time.Duration) (*Block, error) {
	if blockNumber < 0 {
		return nil, fmt.Errorf("wait target must be a concrete block number")
	}

	start := time.Now()

	for {
		current, err := client.BlockNumber()

		if err != nil {
			return nil, err
		}

		if current >= uint64(blockNumber) {
			block, err := client.GetBlockByNumber(blockNumber, true)

			if err != nil {
				return nil, err
			}

			// height was observed but the block is gone again, likely a
			// short rewind; keep polling
			if block != nil {
				return block, nil
			}
		}

		if time.Since(start) >= maxWait {
			return nil, DeadlineExceededError
		}

		time.Sleep(sleepInterval)
	}
}

// WaitForTransaction polls for the transaction receipt every sleepInterval
// and returns the first non-nil one. Fails with ReceiptNotFoundError once
// maxWait has elapsed without the transaction being mined.
func WaitForTransaction(client *Client, txHash common.Hash, maxWait, sleepInterval time.Duration) (*Receipt, error) {
	start := time.Now()

	for {
		receipt, err := client.GetTransactionReceipt(txHash)

		if err != nil {
			return nil, err
		}

		if receipt != nil {
			return receipt, nil
		}

		if time.Since(start) >= maxWait {
			return nil, ReceiptNotFoundError
		}

		time.Sleep(sleepInterval)
	}
}
