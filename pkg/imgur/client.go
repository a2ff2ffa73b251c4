package imgur

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Client 匿名上传图片到 Imgur
type Client struct {
	clientID string
	apiURL   string
	http     *http.Client
}

func NewClient(clientID, apiURL string) *Client {
	if apiURL == "" {
		apiURL = "https://api.imgur.com/3/image"
	}
	return &Client{clientID: clientID, apiURL: apiURL, http: &http.Client{}}
}

// UploadResult 上传结果
type UploadResult struct {
	URL        string `json:"url"`
	DeleteHash string `json:"deleteHash"`
	ID         string `json:"id"`
}

type imgurResponse struct {
	Success bool `json:"success"`
	Data    struct {
		ID         string `json:"id"`
		Link       string `json:"link"`
		DeleteHash string `json:"deletehash"`
		Error      any    `json:"error"`
	} `json:"data"`
}

// Upload 上传 base64 图片。data-URI 前缀（data:image/...;base64,）会被剥掉。
func (c *Client) Upload(imageBase64, title string) (*UploadResult, error) {
	if c.clientID == "" {
		return nil, errors.New("imgur client id not configured")
	}

	if idx := strings.Index(imageBase64, "base64,"); idx >= 0 {
		imageBase64 = imageBase64[idx+len("base64,"):]
	}

	form := url.Values{}
	form.Set("image", imageBase64)
	form.Set("type", "base64")
	if title != "" {
		form.Set("title", title)
	}

	req, err := http.NewRequest("POST", c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Client-ID "+c.clientID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body imgurResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if !body.Success || body.Data.Link == "" {
		return nil, fmt.Errorf("imgur upload failed with status %d", resp.StatusCode)
	}

	return &UploadResult{
		URL:        body.Data.Link,
		DeleteHash: body.Data.DeleteHash,
		ID:         body.Data.ID,
	}, nil
}
