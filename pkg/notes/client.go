package notes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the justification text endpoints over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Justification fetches the stored text for a proposal id. A missing
// file is not an error: proposals without justifications are normal.
func (c *Client) Justification(id uint64) (string, error) {
	resp, err := c.http.Get(fmt.Sprintf("%s/api/readFile/%d.txt", c.baseURL, id))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("justification read for %d: status %d", id, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Save persists justification text keyed by a proposal id.
func (c *Client) Save(id uint64, justification string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"justification": justification,
		"id":            id,
	})
	if err != nil {
		return err
	}
	resp, err := c.http.Post(c.baseURL+"/api/saveText", "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("justification save for %d: status %d", id, resp.StatusCode)
	}
	return nil
}
