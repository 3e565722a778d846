package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var nullResult = []byte("null")

func isNullResult(res json.RawMessage) bool {
	return len(res) == 0 || bytes.Equal(res, nullResult)
}

func decodeBig(res json.RawMessage) (*big.Int, error) {
	var v hexutil.Big

	if err := json.Unmarshal(res, &v); err != nil {
		return nil, err
	}

	return (*big.Int)(&v), nil
}

func decodeUint64(res json.RawMessage) (uint64, error) {
	var v hexutil.Uint64

	if err := json.Unmarshal(res, &v); err != nil {
		return 0, err
	}

	return uint64(v), nil
}

func decodeBytes(res json.RawMessage) (hexutil.Bytes, error) {
	var v hexutil.Bytes

	if err := json.Unmarshal(res, &v); err != nil {
		return nil, err
	}

	return v, nil
}

func decodeString(res json.RawMessage) (string, error) {
	var v string

	if err := json.Unmarshal(res, &v); err != nil {
		return "", err
	}

	return v, nil
}

// Coinbase wraps eth_coinbase.
func (c *Client) Coinbase() (common.Address, error) {
	res, err := c.MakeRequest("eth_coinbase", nil)

	if err != nil {
		return common.Address{}, err
	}

	var addr common.Address

	if err := json.Unmarshal(res, &addr); err != nil {
		return common.Address{}, err
	}

	return addr, nil
}

// GasPrice wraps eth_gasPrice.
func (c *Client) GasPrice() (*big.Int, error) {
	res, err := c.MakeRequest("eth_gasPrice", nil)

	if err != nil {
		return nil, err
	}

	return decodeBig(res)
}

// GetBalance wraps eth_getBalance.
func (c *Client) GetBalance(address common.Address, block BlockNumber) (*big.Int, error) {
	res, err := c.MakeRequest("eth_getBalance", []interface{}{address, block.arg()})

	if err != nil {
		return nil, err
	}

	return decodeBig(res)
}

// GetCode wraps eth_getCode.
func (c *Client) GetCode(address common.Address, block BlockNumber) (hexutil.Bytes, error) {
	res, err := c.MakeRequest("eth_getCode", []interface{}{address, block.arg()})

	if err != nil {
		return nil, err
	}

	return decodeBytes(res)
}

// Call wraps eth_call. A zero From is filled in with DefaultFromAddress.
func (c *Client) Call(params *TransactionParams, block BlockNumber) (hexutil.Bytes, error) {
	if params.From == (common.Address{}) {
		from, err := c.DefaultFromAddress()

		if err != nil {
			return nil, err
		}

		params.From = from
	}

	res, err := c.MakeRequest("eth_call", []interface{}{params, block.arg()})

	if err != nil {
		return nil, err
	}

	return decodeBytes(res)
}

// SendTransaction wraps eth_sendTransaction and returns the transaction hash.
func (c *Client) SendTransaction(params *TransactionParams) (common.Hash, error) {
	if params.From == (common.Address{}) {
		from, err := c.DefaultFromAddress()

		if err != nil {
			return common.Hash{}, err
		}

		params.From = from
	}

	res, err := c.MakeRequest("eth_sendTransaction", []interface{}{params})

	if err != nil {
		return common.Hash{}, err
	}

	var hash common.Hash

	if err := json.Unmarshal(res, &hash); err != nil {
		return common.Hash{}, err
	}

	return hash, nil
}

// GetTransactionReceipt wraps eth_getTransactionReceipt. A nil receipt with
// nil error means the transaction is not mined yet.
func (c *Client) GetTransactionReceipt(txHash common.Hash) (*Receipt, error) {
	res, err := c.MakeRequest("eth_getTransactionReceipt", []interface{}{txHash})

	if err != nil {
		return nil, err
	}

	if isNullResult(res) {
		return nil, nil
	}

	receipt := &Receipt{}

	if err := json.Unmarshal(res, receipt); err != nil {
		return nil, err
	}

	return receipt, nil
}

// GetTransactionByHash wraps eth_getTransactionByHash. The transaction object
// is returned opaque.
func (c *Client) GetTransactionByHash(txHash common.Hash) (json.RawMessage, error) {
	return c.MakeRequest("eth_getTransactionByHash", []interface{}{txHash})
}

// BlockNumber wraps eth_blockNumber.
func (c *Client) BlockNumber() (uint64, error) {
	res, err := c.MakeRequest("eth_blockNumber", nil)

	if err != nil {
		return 0, err
	}

	return decodeUint64(res)
}

// GetBlockByHash wraps eth_getBlockByHash. Blocks are immutable under their
// hash, so responses are served from the client cache when possible.
func (c *Client) GetBlockByHash(blockHash common.Hash, fullTransactions bool) (*Block, error) {
	cacheKey := fmt.Sprintf("%s/%v", blockHash.Hex(), fullTransactions)

	if val, ok := c.blockCache.Get(cacheKey); ok {
		return val.(*Block), nil
	}

	res, err := c.MakeRequest("eth_getBlockByHash", []interface{}{blockHash, fullTransactions})

	if err != nil {
		return nil, err
	}

	if isNullResult(res) {
		return nil, nil
	}

	block := &Block{}

	if err := json.Unmarshal(res, block); err != nil {
		return nil, err
	}

	c.blockCache.Add(cacheKey, block)

	return block, nil
}

// GetBlockByNumber wraps eth_getBlockByNumber. A nil block with nil error
// means no block at that height yet.
func (c *Client) GetBlockByNumber(block BlockNumber, fullTransactions bool) (*Block, error) {
	res, err := c.MakeRequest("eth_getBlockByNumber", []interface{}{block.arg(), fullTransactions})

	if err != nil {
		return nil, err
	}

	if isNullResult(res) {
		return nil, nil
	}

	b := &Block{}

	if err := json.Unmarshal(res, b); err != nil {
		return nil, err
	}

	return b, nil
}

// Accounts wraps eth_accounts.
func (c *Client) Accounts() ([]common.Address, error) {
	res, err := c.MakeRequest("eth_accounts", nil)

	if err != nil {
		return nil, err
	}

	var accounts []common.Address

	if err := json.Unmarshal(res, &accounts); err != nil {
		return nil, err
	}

	return accounts, nil
}

// NewFilter wraps eth_newFilter and returns the filter id.
func (c *Client) NewFilter(query *FilterQuery) (string, error) {
	res, err := c.MakeRequest("eth_newFilter", []interface{}{query.arg()})

	if err != nil {
		return "", err
	}

	return decodeString(res)
}

// NewBlockFilter wraps eth_newBlockFilter.
func (c *Client) NewBlockFilter() (string, error) {
	res, err := c.MakeRequest("eth_newBlockFilter", nil)

	if err != nil {
		return "", err
	}

	return decodeString(res)
}

// NewPendingTransactionFilter wraps eth_newPendingTransactionFilter.
func (c *Client) NewPendingTransactionFilter() (string, error) {
	res, err := c.MakeRequest("eth_newPendingTransactionFilter", nil)

	if err != nil {
		return "", err
	}

	return decodeString(res)
}

// UninstallFilter wraps eth_uninstallFilter.
func (c *Client) UninstallFilter(filterID string) (bool, error) {
	res, err := c.MakeRequest("eth_uninstallFilter", []interface{}{filterID})

	if err != nil {
		return false, err
	}

	var ok bool

	if err := json.Unmarshal(res, &ok); err != nil {
		return false, err
	}

	return ok, nil
}

// GetFilterChanges wraps eth_getFilterChanges.
func (c *Client) GetFilterChanges(filterID string) (json.RawMessage, error) {
	return c.MakeRequest("eth_getFilterChanges", []interface{}{filterID})
}

// GetFilterLogs wraps eth_getFilterLogs.
func (c *Client) GetFilterLogs(filterID string) (json.RawMessage, error) {
	return c.MakeRequest("eth_getFilterLogs", []interface{}{filterID})
}

// GetLogs wraps eth_getLogs.
func (c *Client) GetLogs(query *FilterQuery) (json.RawMessage, error) {
	return c.MakeRequest("eth_getLogs", []interface{}{query.arg()})
}

// MaxGas returns the gas limit of the latest block.
func (c *Client) MaxGas() (uint64, error) {
	block, err := c.GetBlockByNumber(LatestBlock, false)

	if err != nil {
		return 0, err
	}

	if block == nil {
		return 0, fmt.Errorf("no latest block")
	}

	return uint64(block.GasLimit), nil
}
