package core

import (
	"encoding/json"
	"io/ioutil"
	"time"
)

// Config is fixed at client construction. Timeout is in seconds, like every
// duration knob in our config files.
type Config struct {
	Url                     string   `json:"url"`
	Async                   bool     `json:"async"`
	Timeout                 int      `json:"timeout"`
	MethodLimitationEnabled bool     `json:"methodLimitationEnabled"`
	AllowedMethods          []string `json:"allowedMethods"`
}

func (c *Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}

	return time.Duration(c.Timeout) * time.Second
}

func LoadConfig(path string) (*Config, error) {
	bts, err := ioutil.ReadFile(path)

	if err != nil {
		return nil, err
	}

	config := &Config{}

	if err := json.Unmarshal(bts, config); err != nil {
		return nil, err
	}

	return config, nil
}
