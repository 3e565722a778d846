package core

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// BlockNumber designates a block either by height or by one of the named
// tags understood by the node. The choice is made once here, so no call
// site ever inspects a value's dynamic type before hex-encoding it.
type BlockNumber int64

const (
	LatestBlock   BlockNumber = -1
	PendingBlock  BlockNumber = -2
	EarliestBlock BlockNumber = -3
)

func (bn BlockNumber) arg() string {
	switch bn {
	case LatestBlock:
		return "latest"
	case PendingBlock:
		return "pending"
	case EarliestBlock:
		return "earliest"
	default:
		return hexutil.EncodeUint64(uint64(bn))
	}
}

// Block number is nil for pending blocks.
type Block struct {
	Number       *hexutil.Big    `json:"number"`
	Hash         common.Hash     `json:"hash"`
	ParentHash   common.Hash     `json:"parentHash"`
	Miner        common.Address  `json:"miner"`
	GasLimit     hexutil.Uint64  `json:"gasLimit"`
	GasUsed      hexutil.Uint64  `json:"gasUsed"`
	Timestamp    hexutil.Uint64  `json:"timestamp"`
	Transactions json.RawMessage `json:"transactions"`
}

type Receipt struct {
	TransactionHash   common.Hash     `json:"transactionHash"`
	BlockHash         common.Hash     `json:"blockHash"`
	BlockNumber       *hexutil.Big    `json:"blockNumber"`
	GasUsed           hexutil.Uint64  `json:"gasUsed"`
	CumulativeGasUsed hexutil.Uint64  `json:"cumulativeGasUsed"`
	ContractAddress   *common.Address `json:"contractAddress"`
	Status            hexutil.Uint64  `json:"status"`
	Logs              json.RawMessage `json:"logs"`
}

// TransactionParams is the object form of eth_call/eth_sendTransaction
// arguments. A zero From is filled in from the cached coinbase.
type TransactionParams struct {
	From     common.Address  `json:"from"`
	To       *common.Address `json:"to,omitempty"`
	Gas      *hexutil.Big    `json:"gas,omitempty"`
	GasPrice *hexutil.Big    `json:"gasPrice,omitempty"`
	Value    *hexutil.Big    `json:"value,omitempty"`
	Data     hexutil.Bytes   `json:"data,omitempty"`
}

type FilterQuery struct {
	FromBlock *BlockNumber
	ToBlock   *BlockNumber
	Address   []common.Address
	Topics    []interface{}
}

func (q *FilterQuery) arg() map[string]interface{} {
	params := map[string]interface{}{}

	if q.FromBlock != nil {
		params["fromBlock"] = q.FromBlock.arg()
	}

	if q.ToBlock != nil {
		params["toBlock"] = q.ToBlock.arg()
	}

	if len(q.Address) > 0 {
		params["address"] = q.Address
	}

	if len(q.Topics) > 0 {
		params["topics"] = q.Topics
	}

	return params
}
