package jobboard

import "context"

const (
	testAPIToken = "11235813213455"
	testEmail    = "tony@starkindustries.com"
	testPassword = "iamironman"
)

type staticTokenSource string

func (s staticTokenSource) AccessToken(context.Context) (string, error) {
	return string(s), nil
}

func testClientOptions() *ClientOptions {
	return &ClientOptions{
		TokenSource: staticTokenSource(testAPIToken),
	}
}
