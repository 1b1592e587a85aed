package vision

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Extraction is the OCR service's output for one image: the raw recognized
// text plus an average recognition confidence in [0, 1].
type Extraction struct {
	Text       string   `json:"text"`
	Lines      []string `json:"lines"`
	Confidence float64  `json:"confidence"`
	Error      string   `json:"error,omitempty"`
}

// ErrUnavailable means the OCR service could not be reached; callers should
// fall back to manual entry rather than failing the upload.
var ErrUnavailable = errors.New("vision: ocr service unavailable")

// Client talks to the external OCR extraction service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	baseURL := os.Getenv("OCR_SERVICE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type extractRequest struct {
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Extract sends image bytes for OCR and returns the recognized text.
func (c *Client) Extract(image []byte, contentType string) (*Extraction, error) {
	payload, err := json.Marshal(extractRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(image),
		MimeType:    contentType,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(c.baseURL+"/extract", "application/json", bytes.NewReader(payload))
	if err != nil {
		logrus.WithError(err).Warn("OCR service unreachable")
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision: unexpected status %d", resp.StatusCode)
	}

	var out Extraction
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, fmt.Errorf("vision: %s", out.Error)
	}

	return &out, nil
}
