package myhttpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"time"

	"github.com/MarcGrol/travelshop/lib/mylog"
)

const (
	defaultTimeout = 5 * time.Second
)

type jsonHTTPClient struct {
	logger     mylog.Logger
	httpClient *http.Client
	dump       bool
}

func newJSONHTTPClient(logger mylog.Logger, timeout time.Duration) HTTPSender {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &jsonHTTPClient{
		logger: logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		dump: os.Getenv("HTTP_DUMP") != "",
	}
}

func (hc jsonHTTPClient) Send(c context.Context, method string, url string, body []byte) (int, []byte, error) {
	var bodyReader io.Reader
	if len(body) > 0 {
		bodyReader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(c, method, url, bodyReader)
	if err != nil {
		return 0, []byte{}, fmt.Errorf("error creating http request for %s %s: %w", method, url, err)
	}

	if len(body) > 0 {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	if hc.dump {
		reqDump, err := httputil.DumpRequestOut(httpReq, true)
		if err == nil {
			hc.logger.Log(c, "", mylog.SeverityDebug, "HTTP-req:\n%s", string(reqDump))
		}
	}

	hc.logger.Log(c, "", mylog.SeverityDebug, "HTTP request: %s %s", method, url)

	httpResp, err := hc.httpClient.Do(httpReq)
	if err != nil {
		return 0, []byte{}, fmt.Errorf("error sending %s %s: %w", method, url, err)
	}
	defer httpResp.Body.Close()

	if hc.dump {
		respDump, err := httputil.DumpResponse(httpResp, true)
		if err == nil {
			hc.logger.Log(c, "", mylog.SeverityDebug, "HTTP-resp:\n%s", string(respDump))
		}
	}

	respPayload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return 0, []byte{}, fmt.Errorf("error reading response %s %s: %w", method, url, err)
	}

	hc.logger.Log(c, "", mylog.SeverityDebug, "HTTP resp: %s %s -> %d", method, url, httpResp.StatusCode)

	return httpResp.StatusCode, respPayload, nil
}
