package jobboard

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/publicsuffix"
)

// TokenSource supplies the access token that authenticated requests carry as
// a bearer token. An empty token means the request is sent without an
// Authorization header.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// ClientOptions encapsulates optional API client configuration.
type ClientOptions struct {
	// AllowInsecure indicates whether TLS certificate verification should be
	// skipped.
	AllowInsecure bool
	// TokenSource, if non-nil, is consulted for a bearer token before every
	// authenticated request.
	TokenSource TokenSource
	// Jar holds cookies set by the API server. The refresh credential travels
	// exclusively through it. If nil, an in-memory jar is used.
	Jar http.CookieJar
}

type baseClient struct {
	apiAddress  string
	tokenSource TokenSource
	httpClient  *http.Client
}

func newBaseClient(apiAddress string, opts *ClientOptions) *baseClient {
	if opts == nil {
		opts = &ClientOptions{}
	}
	jar := opts.Jar
	if jar == nil {
		jar = newMemoryJar()
	}
	return &baseClient{
		apiAddress:  strings.TrimSuffix(apiAddress, "/"),
		tokenSource: opts.TokenSource,
		httpClient: &http.Client{
			Jar: jar,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: opts.AllowInsecure, // nolint: gosec
				},
			},
		},
	}
}

func newMemoryJar() http.CookieJar {
	// cookiejar.New never returns a non-nil error
	jar, _ := cookiejar.New(
		&cookiejar.Options{PublicSuffixList: publicsuffix.List},
	)
	return jar
}

func (b *baseClient) bearerTokenAuthHeaders(
	ctx context.Context,
) (map[string]string, error) {
	if b.tokenSource == nil {
		return nil, nil
	}
	token, err := b.tokenSource.AccessToken(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error retrieving access token")
	}
	if token == "" {
		return nil, nil
	}
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}, nil
}

func (b *baseClient) executeAPIRequest(
	ctx context.Context,
	apiReq apiRequest,
) error {
	resp, err := b.submitAPIRequest(ctx, apiReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if apiReq.respObj == nil {
		return nil
	}
	respBodyBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "error reading response body")
	}
	envelope := apiResponse{}
	if err := json.Unmarshal(respBodyBytes, &envelope); err != nil {
		return errors.Wrap(err, "error unmarshaling response body")
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return errors.New("response body did not include a result")
	}
	if err := json.Unmarshal(envelope.Result, apiReq.respObj); err != nil {
		return errors.Wrap(err, "error unmarshaling response result")
	}
	return nil
}

func (b *baseClient) submitAPIRequest(
	ctx context.Context,
	apiReq apiRequest,
) (*http.Response, error) {
	var reqBodyReader io.Reader
	if apiReq.reqBodyObj != nil {
		switch rb := apiReq.reqBodyObj.(type) {
		case []byte:
			reqBodyReader = bytes.NewBuffer(rb)
		default:
			reqBodyBytes, err := json.Marshal(apiReq.reqBodyObj)
			if err != nil {
				return nil, errors.Wrap(err, "error marshaling request body")
			}
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	req, err := http.NewRequestWithContext(
		ctx,
		apiReq.method,
		fmt.Sprintf("%s/%s", b.apiAddress, apiReq.path),
		reqBodyReader,
	)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error creating request %s %s",
			apiReq.method,
			apiReq.path,
		)
	}
	if len(apiReq.queryParams) > 0 {
		q := req.URL.Query()
		for k, v := range apiReq.queryParams {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}
	if reqBodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range apiReq.authHeaders {
		req.Header.Add(k, v)
	}
	for k, v := range apiReq.headers {
		req.Header.Add(k, v)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "error invoking API")
	}

	successCode := apiReq.successCode
	if successCode == 0 {
		successCode = http.StatusOK
	}
	if resp.StatusCode == successCode {
		return resp, nil
	}

	defer resp.Body.Close()
	bodyBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "error reading error response body")
	}
	return nil, errorFromResponse(resp.StatusCode, bodyBytes)
}

// errorFromResponse converts an unsuccessful API response into a typed error.
// The HTTP status hints at the sort of error; the envelope's code refines it.
func errorFromResponse(statusCode int, bodyBytes []byte) error {
	envelope := apiResponse{}
	if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
		// Not every failure comes back wrapped in an envelope (e.g. a proxy in
		// front of the API server); fall back to the status text.
		envelope.Message = http.StatusText(statusCode)
	}
	code, msg := envelope.Code, envelope.Message
	if code == CodeTokenExpired {
		return &ErrTokenExpired{Code: code, Message: msg}
	}
	switch statusCode {
	case http.StatusUnauthorized:
		return &ErrAuthentication{Code: code, Message: msg}
	case http.StatusForbidden:
		return &ErrAuthorization{Code: code, Message: msg}
	case http.StatusBadRequest:
		return &ErrBadRequest{Code: code, Message: msg}
	case http.StatusNotFound:
		return &ErrNotFound{Code: code, Message: msg}
	case http.StatusConflict:
		return &ErrConflict{Code: code, Message: msg}
	case http.StatusTooManyRequests:
		return &ErrTooManyRequests{Code: code, Message: msg}
	case http.StatusInternalServerError:
		return &ErrInternalServer{Code: code, Message: msg}
	}
	return errors.Errorf("received %d from API server", statusCode)
}
