package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"math"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

var httpClient *http.Client

const (
	maxIdleConnections int = 200
	requestTimeout     int = 10
)

func init() {
	httpClient = createHTTPClient()
}

// createHTTPClient for connection re-use
func createHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConnsPerHost: maxIdleConnections,
		},
		Timeout: time.Duration(requestTimeout) * time.Second,
	}
}

// Transport performs one JSON-RPC call against a node. Execute is the only
// operation the client core needs; the rest feeds NodeInfo.
type Transport interface {
	Execute(req *RequestData) (json.RawMessage, error)
	URL() string
	Latency() int64
	IsAlive() bool
}

func NewTransport(ctx context.Context, urlString string, timeout time.Duration) (Transport, error) {
	u, err := url.Parse(urlString)

	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "http", "https":
		return newHttpTransport(u), nil
	case "ws", "wss":
		return newWsTransport(ctx, u, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported url scheme %s", u.Scheme)
	}
}

type HttpTransport struct {
	url     string
	latency int64
}

func newHttpTransport(u *url.URL) *HttpTransport {
	return &HttpTransport{url: u.String()}
}

func (t *HttpTransport) Execute(req *RequestData) (json.RawMessage, error) {
	logrus.Debugf("%v sent to %v", req.Method, t.url)

	reqBytes, err := json.Marshal(req)

	if err != nil {
		return nil, err
	}

	httpReq, _ := http.NewRequest("POST", t.url, bytes.NewReader(reqBytes))
	httpReq.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	res, err := httpClient.Do(httpReq)

	if err != nil {
		atomic.StoreInt64(&t.latency, math.MaxInt64)
		logrus.Errorf("http transport do request error: %+v", err)
		return nil, err
	}

	defer res.Body.Close()

	bts, err := ioutil.ReadAll(res.Body)

	if err != nil {
		atomic.StoreInt64(&t.latency, math.MaxInt64)
		logrus.Errorf("http transport io readall error: %+v", err)
		return nil, err
	}

	atomic.StoreInt64(&t.latency, int64(time.Since(startTime)))

	return parseResponse(bts)
}

func (t *HttpTransport) URL() string {
	return t.url
}

func (t *HttpTransport) Latency() int64 {
	return atomic.LoadInt64(&t.latency)
}

func (t *HttpTransport) IsAlive() bool {
	return atomic.LoadInt64(&t.latency) != math.MaxInt64
}

// parseResponse unwraps a JSON-RPC envelope into its raw result.
func parseResponse(bts []byte) (json.RawMessage, error) {
	var res JsonRpcResponse

	if err := json.Unmarshal(bts, &res); err != nil {
		return nil, err
	}

	if res.Err != nil && res.Err.Code != 0 {
		return nil, &RPCError{Code: res.Err.Code, Message: res.Err.Message}
	}

	return res.Result, nil
}
