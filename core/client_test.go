package core

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/ivanzzeth/ethereum-jsonrpc-client/utils"
)

// stubTransport records calls and trips a flag when Execute is re-entered
// while another call is still in flight.
type stubTransport struct {
	delay     time.Duration
	handler   func(req *RequestData) (json.RawMessage, error)
	calls     int32
	inFlight  int32
	reentered int32
}

func (t *stubTransport) Execute(req *RequestData) (json.RawMessage, error) {
	if atomic.AddInt32(&t.inFlight, 1) > 1 {
		atomic.StoreInt32(&t.reentered, 1)
	}
	defer atomic.AddInt32(&t.inFlight, -1)

	atomic.AddInt32(&t.calls, 1)

	if t.delay > 0 {
		time.Sleep(t.delay)
	}

	return t.handler(req)
}

func (t *stubTransport) URL() string {
	return "stub://node"
}

func (t *stubTransport) Latency() int64 {
	return int64(time.Millisecond)
}

func (t *stubTransport) IsAlive() bool {
	return true
}

func (t *stubTransport) wasReentered() bool {
	return atomic.LoadInt32(&t.reentered) == 1
}

func (t *stubTransport) callCount() int {
	return int(atomic.LoadInt32(&t.calls))
}

// newTestClient builds a client with a sub-second timeout, which the
// seconds-based Config cannot express.
func newTestClient(transport Transport, async bool, timeout time.Duration) *Client {
	c := &Client{
		logger:     logrus.WithFields(logrus.Fields{"client_id": utils.RandStringRunes(8)}),
		transport:  transport,
		async:      async,
		timeout:    timeout,
		blockCache: initCache(blockCacheSize),
	}

	if async {
		c.queue = newRequestQueue()
		c.registry = newResultRegistry()
		go c.processRequests()
	}

	return c
}

func echoHandler(req *RequestData) (json.RawMessage, error) {
	return json.RawMessage(fmt.Sprintf(`"echo %s"`, req.Method)), nil
}

func TestMakeRequestAsyncMatchesSync(t *testing.T) {
	syncClient := newTestClient(&stubTransport{handler: echoHandler}, false, time.Second)
	asyncClient := newTestClient(&stubTransport{handler: echoHandler}, true, time.Second)
	defer asyncClient.Close()

	for _, method := range []string{"eth_blockNumber", "eth_gasPrice", "eth_accounts"} {
		syncRes, err := syncClient.MakeRequest(method, nil)
		assert.Nil(t, err)

		asyncRes, err := asyncClient.MakeRequest(method, nil)
		assert.Nil(t, err)

		assert.Equal(t, syncRes, asyncRes)
	}
}

func TestAsyncModeSerializesTransportCalls(t *testing.T) {
	transport := &stubTransport{handler: echoHandler, delay: 2 * time.Millisecond}
	client := newTestClient(transport, true, 5*time.Second)
	defer client.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.MakeRequest("eth_blockNumber", nil)
			assert.Nil(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, transport.callCount())
	assert.False(t, transport.wasReentered())
}

func TestSyncModeDoesNotSerialize(t *testing.T) {
	transport := &stubTransport{handler: echoHandler, delay: 10 * time.Millisecond}
	client := newTestClient(transport, false, 5*time.Second)

	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, _ = client.MakeRequest("eth_blockNumber", nil)
		}()
	}
	close(start)
	wg.Wait()

	assert.True(t, transport.wasReentered())
}

func TestMakeRequestTimeout(t *testing.T) {
	timeout := 50 * time.Millisecond

	transport := &stubTransport{handler: echoHandler, delay: 300 * time.Millisecond}
	client := newTestClient(transport, true, timeout)
	defer client.Close()

	start := time.Now()
	_, err := client.MakeRequest("eth_blockNumber", nil)
	elapsed := time.Since(start)

	timeoutErr, ok := err.(*RequestTimeoutError)
	assert.True(t, ok)
	assert.NotEqual(t, "", timeoutErr.ID.String())

	assert.True(t, elapsed >= timeout)
	assert.True(t, elapsed < timeout+100*time.Millisecond)
}

func TestMakeRequestPropagatesTransportError(t *testing.T) {
	transportErr := fmt.Errorf("connection refused")
	transport := &stubTransport{handler: func(req *RequestData) (json.RawMessage, error) {
		return nil, transportErr
	}}

	client := newTestClient(transport, true, time.Second)
	defer client.Close()

	_, err := client.MakeRequest("eth_blockNumber", nil)
	assert.Equal(t, transportErr, err)

	// a failed request never stops the dispatch loop
	_, err = client.MakeRequest("eth_gasPrice", nil)
	assert.Equal(t, transportErr, err)
	assert.Equal(t, 2, transport.callCount())
}

func TestMakeRequestMethodLimitation(t *testing.T) {
	transport := &stubTransport{handler: echoHandler}
	client := NewClientWithTransport(transport, &Config{
		MethodLimitationEnabled: true,
		AllowedMethods:          []string{"eth_blockNumber"},
	})

	_, err := client.MakeRequest("eth_blockNumber", nil)
	assert.Nil(t, err)

	_, err = client.MakeRequest("eth_sendTransaction", nil)
	assert.Equal(t, MethodNotAllowedError, err)
	assert.Equal(t, 1, transport.callCount())
}

func TestNonceIncrements(t *testing.T) {
	var ids []int64
	var mu sync.Mutex

	transport := &stubTransport{handler: func(req *RequestData) (json.RawMessage, error) {
		mu.Lock()
		ids = append(ids, req.ID)
		mu.Unlock()
		return json.RawMessage(`"0x0"`), nil
	}}

	client := newTestClient(transport, false, time.Second)

	for i := 0; i < 3; i++ {
		_, err := client.MakeRequest("eth_blockNumber", nil)
		assert.Nil(t, err)
	}

	assert.Equal(t, []int64{1, 2, 3}, ids)
}

func TestDefaultFromAddressCached(t *testing.T) {
	coinbase := common.HexToAddress("0x407d73d8a49eeb85d32cf465507dd71d507100c1")

	transport := &stubTransport{handler: func(req *RequestData) (json.RawMessage, error) {
		assert.Equal(t, "eth_coinbase", req.Method)
		return json.RawMessage(fmt.Sprintf(`"%s"`, coinbase.Hex())), nil
	}}

	client := newTestClient(transport, false, time.Second)

	for i := 0; i < 3; i++ {
		from, err := client.DefaultFromAddress()
		assert.Nil(t, err)
		assert.Equal(t, coinbase, from)
	}

	assert.Equal(t, 1, transport.callCount())
}

func TestNodeInfo(t *testing.T) {
	client := newTestClient(&stubTransport{handler: echoHandler}, false, time.Second)

	info := client.NodeInfo()
	assert.Equal(t, "stub://node", info.RpcUrl)
	assert.True(t, info.IsAlive)
}
