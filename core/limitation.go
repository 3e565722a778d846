package core

// method limit, for apps that must not reach state-changing calls
func (c *Client) checkMethodAllowed(method string) error {
	if c.allowedMethods == nil {
		return nil
	}

	if !c.allowedMethods[method] {
		c.logger.Printf("method %s not allowed, skip\n", method)
		return MethodNotAllowedError
	}

	return nil
}
