package main

import (
	"fmt"

	"github.com/go-resty/resty/v2"
)

// call performs one REST request and returns the raw response body.
// Non-2xx statuses come back as errors with the body included.
func call(method, url string, payload interface{}) ([]byte, error) {
	req := resty.New().R()
	if tokenFlag != "" {
		req.SetAuthToken(tokenFlag)
	}
	if payload != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(payload)
	}
	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}

func doGet(url string) ([]byte, error) { return call("GET", url, nil) }

func doPostJSON(url string, payload interface{}) ([]byte, error) {
	return call("POST", url, payload)
}

func doDelete(url string) ([]byte, error) { return call("DELETE", url, nil) }
