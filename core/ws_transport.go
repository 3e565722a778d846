package core

import (
	"context"
	"encoding/json"
	"math"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ivanzzeth/ethereum-jsonrpc-client/utils"
)

type wsCall struct {
	data     *RequestData
	id       int64
	resBytes chan []byte
}

type wsResponseID struct {
	ID int64 `json:"id"`
}

// WsTransport keeps one long-lived websocket connection to the node and
// correlates responses to in-flight calls by wire id.
type WsTransport struct {
	url       string
	timeout   time.Duration
	callQueue chan *wsCall
	nextID    int64     // wire call id
	calls     *sync.Map // wire call id => call
	latency   int64
}

func newWsTransport(ctx context.Context, u *url.URL, timeout time.Duration) *WsTransport {
	t := &WsTransport{
		url:       u.String(),
		timeout:   timeout,
		callQueue: make(chan *wsCall),
		nextID:    time.Now().Unix(),
		calls:     &sync.Map{},
	}

	logrus.Infof("new ws transport %s", u)
	go t.run(ctx)

	return t
}

func (t *WsTransport) Execute(req *RequestData) (json.RawMessage, error) {
	logrus.Debugf("%v sent to %v", req.Method, t.url)

	// resBytes is buffered so a response landing after the caller gave up
	// never blocks the response loop; the caller reads at most once.
	call := &wsCall{
		data:     req,
		id:       atomic.AddInt64(&t.nextID, 1),
		resBytes: make(chan []byte, 1),
	}

	t.calls.Store(call.id, call)
	defer t.calls.Delete(call.id)

	startTime := time.Now()

	select {
	case t.callQueue <- call:
	case <-time.After(t.timeout):
		atomic.StoreInt64(&t.latency, math.MaxInt64)
		return nil, TimeoutError
	}

	select {
	case res := <-call.resBytes:
		atomic.StoreInt64(&t.latency, int64(time.Since(startTime)))
		return parseResponse(res)
	case <-time.After(t.timeout):
		atomic.StoreInt64(&t.latency, math.MaxInt64)
		return nil, TimeoutError
	}
}

func (t *WsTransport) URL() string {
	return t.url
}

func (t *WsTransport) Latency() int64 {
	return atomic.LoadInt64(&t.latency)
}

func (t *WsTransport) IsAlive() bool {
	return atomic.LoadInt64(&t.latency) != math.MaxInt64
}

func (t *WsTransport) run(ctx context.Context) {
	logrus.Debugf("ws %s run", t.url)
	defer logrus.Debugf("ws %s run exit", t.url)

	for {
		conn, _, err := websocket.DefaultDialer.Dial(t.url, nil)

		if err != nil {
			seconds := 5
			logrus.Errorf("ws transport %s %v, will retry after %d seconds", t.url, err, seconds)

			select {
			case <-ctx.Done():
				// global stop
				return
			case <-time.After(time.Second * time.Duration(seconds)):
				continue
			}
		}

		logrus.Infof("ws transport %s connected", t.url)
		t.runConn(ctx, conn)

		select {
		case <-ctx.Done():
			// global stop
			return
		default:
		}
	}
}

func (t *WsTransport) runConn(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	// connContext is for current connection
	// any error occurs, the context will be cancelled
	connContext, done := context.WithCancel(ctx)

	// request loop
	go func() {
		logrus.Debugf("conn request loop start")
		defer logrus.Debugf("conn request loop stop")
		defer done()

		for {
			select {
			case <-connContext.Done():
				// if the conn is invalid, exit
				return
			case call := <-t.callQueue:
				// use the wire id so the response loop can match it
				call.data.ID = call.id

				bts, _ := json.Marshal(call.data)
				err := conn.WriteMessage(websocket.TextMessage, bts)

				if err != nil {
					logrus.Errorf("write request to node failed %v", err)
					return
				}
			}
		}
	}()

	// response loop
	go func() {
		logrus.Debugf("conn response loop start")
		defer logrus.Debugf("conn response loop stop")
		defer done()

		for {
			mt, p, err := conn.ReadMessage()

			if err != nil {
				logrus.Errorf("read response from node failed %v", err)
				break
			}

			if mt != websocket.TextMessage {
				logrus.Infof("not a text message %v", p)
				continue
			}

			if !utils.NoErrorFieldInJSON(string(p)) {
				logrus.Debugf("response carries error field: %s", string(p))
			}

			var res wsResponseID
			_ = json.Unmarshal(p, &res)

			if v, exist := t.calls.Load(res.ID); exist {
				if call, ok := v.(*wsCall); ok {
					call.resBytes <- p
				}
			}
		}
	}()

	<-connContext.Done()
}
