package capabilities

import (
	"context"
	"time"

	"metaverse-session/source/llsd"
)

// LoginTimeout is the §5 timeout for the login XML-RPC call.
const LoginTimeout = 30 * time.Second

// Login performs the login_to_simulator XML-RPC call against loginURL
// and parses the response, per §4.2/§6.3.
func (c *Client) Login(ctx context.Context, loginURL string, req llsd.LoginRequest) (llsd.LoginResponse, error) {
	body := llsd.EncodeLoginRequest(req)
	respBody, err := c.call(ctx, "POST", loginURL, "text/xml", body)
	if err != nil {
		return llsd.LoginResponse{}, err
	}
	resp, err := llsd.DecodeLoginResponse(respBody)
	if err != nil {
		return llsd.LoginResponse{}, &CallError{Kind: ErrorDecode, Err: err}
	}
	return resp, nil
}
