package core

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/ivanzzeth/ethereum-jsonrpc-client/utils"
)

const (
	DefaultTimeout = 10 * time.Second

	// how often an asynchronous caller checks the registry for its outcome
	resultPollInterval = time.Millisecond

	coinbaseCacheTTL = 30 * time.Second
)

// Client issues JSON-RPC calls against a single node. In asynchronous mode
// every call is handed to one background dispatch goroutine, so concurrent
// callers never reach the transport concurrently. In synchronous mode calls
// run on the caller's own goroutine with no serialization at all.
type Client struct {
	logger    *logrus.Entry
	transport Transport
	async     bool
	timeout   time.Duration

	queue    *requestQueue
	registry *resultRegistry

	nonce int64 // envelope id only, never used for correlation

	allowedMethods map[string]bool // nil means no limitation

	mu               sync.Mutex
	coinbase         common.Address
	coinbaseCachedAt time.Time

	blockCache *lru.TwoQueueCache
}

func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	transport, err := NewTransport(ctx, cfg.Url, cfg.timeout())

	if err != nil {
		return nil, err
	}

	return NewClientWithTransport(transport, cfg), nil
}

func NewClientWithTransport(transport Transport, cfg *Config) *Client {
	c := &Client{
		logger:     logrus.WithFields(logrus.Fields{"client_id": utils.RandStringRunes(8)}),
		transport:  transport,
		async:      cfg.Async,
		timeout:    cfg.timeout(),
		blockCache: initCache(blockCacheSize),
	}

	if cfg.MethodLimitationEnabled {
		c.allowedMethods = make(map[string]bool)
		for i := 0; i < len(cfg.AllowedMethods); i++ {
			c.allowedMethods[cfg.AllowedMethods[i]] = true
		}
	}

	if c.async {
		c.queue = newRequestQueue()
		c.registry = newResultRegistry()
		go c.processRequests()
	}

	return c
}

// Close stops the dispatch goroutine. Callers still polling for an outcome
// fail with their timeout.
func (c *Client) Close() {
	if c.queue != nil {
		c.queue.close()
	}
}

// MakeRequest issues one JSON-RPC call and returns its raw result. In
// asynchronous mode the call is enqueued under a fresh correlation id and the
// caller polls the registry until the outcome arrives or the client timeout
// elapses. Transport failures surface verbatim either way.
func (c *Client) MakeRequest(method string, params []interface{}) (json.RawMessage, error) {
	if err := c.checkMethodAllowed(method); err != nil {
		return nil, err
	}

	if params == nil {
		params = []interface{}{}
	}

	Count(method)

	startTime := time.Now()
	defer func() {
		Time(method, float64(time.Since(startTime).Nanoseconds())/1000000)
	}()

	data := &RequestData{
		JsonRpc: "2.0",
		ID:      c.nextNonce(),
		Method:  method,
		Params:  params,
	}

	if !c.async {
		return c.transport.Execute(data)
	}

	id := uuid.New()
	c.logger.Debugf("enqueue %s %s", method, id)
	c.queue.enqueue(&queuedRequest{id: id, data: data})

	start := time.Now()
	for time.Since(start) < c.timeout {
		if o, ok := c.registry.take(id); ok {
			if o.err != nil {
				return nil, o.err
			}
			return o.result, nil
		}
		time.Sleep(resultPollInterval)
	}

	return nil, &RequestTimeoutError{ID: id}
}

func (c *Client) nextNonce() int64 {
	return atomic.AddInt64(&c.nonce, 1)
}

// DefaultFromAddress returns the node coinbase, cached so that building a
// transaction does not cost an extra round trip every time.
func (c *Client) DefaultFromAddress() (common.Address, error) {
	c.mu.Lock()
	cached := c.coinbase
	fresh := !c.coinbaseCachedAt.IsZero() && time.Since(c.coinbaseCachedAt) < coinbaseCacheTTL
	c.mu.Unlock()

	if fresh {
		return cached, nil
	}

	coinbase, err := c.Coinbase()

	if err != nil {
		return common.Address{}, err
	}

	c.mu.Lock()
	c.coinbase = coinbase
	c.coinbaseCachedAt = time.Now()
	c.mu.Unlock()

	return coinbase, nil
}
