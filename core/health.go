package core

import (
	"fmt"
	"time"
)

type NodeInfo struct {
	RpcUrl  string `json:"rpcUrl"` // only first 30 chars
	Latency string `json:"latency"`
	IsAlive bool   `json:"isAlive"`
}

// NodeInfo reports the node url and the latency observed on the most recent
// transport call.
func (c *Client) NodeInfo() NodeInfo {
	url := c.transport.URL()
	if len(url) > 30 {
		url = url[:30]
	}

	return NodeInfo{
		RpcUrl:  url,
		Latency: fmt.Sprintf("%s", time.Duration(c.transport.Latency())),
		IsAlive: c.transport.IsAlive(),
	}
}
