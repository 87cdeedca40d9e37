package plantnet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/tr33-app/tr33-backend/pkg/apperror"
)

// Match is the normalized top-ranked species match. Score is the
// service's match probability in [0,1], taken at face value.
type Match struct {
	CommonName     string  `json:"common_name"`
	ScientificName string  `json:"scientific_name"`
	Family         string  `json:"family"`
	Score          float64 `json:"score"`
}

// Client calls the Pl@ntNet identification API with one image and
// returns the best match.
type Client interface {
	Identify(ctx context.Context, image io.Reader, fileName string) (*Match, error)
}

type client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) Client {
	if baseURL == "" {
		baseURL = "https://my-api.plantnet.org/v2/identify/all"
	}
	if apiKey == "" {
		apiKey = os.Getenv("PLANTNET_API_KEY")
	}

	return &client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type identifyResponse struct {
	Results []struct {
		Score   float64 `json:"score"`
		Species struct {
			ScientificNameWithoutAuthor string   `json:"scientificNameWithoutAuthor"`
			CommonNames                 []string `json:"commonNames"`
			Family                      struct {
				ScientificNameWithoutAuthor string `json:"scientificNameWithoutAuthor"`
			} `json:"family"`
		} `json:"species"`
	} `json:"results"`
}

func (c *client) Identify(ctx context.Context, image io.Reader, fileName string) (*Match, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("images", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if err := writer.WriteField("organs", "auto"); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}

	reqURL := fmt.Sprintf("%s?api-key=%s", c.baseURL, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrTransport, err)
	}
	defer resp.Body.Close()

	// Pl@ntNet answers 404 when nothing in the image could be matched.
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: no species match found", apperror.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: identification service returned status %d", apperror.ErrTransport, resp.StatusCode)
	}

	var parsed identifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to decode identification response: %v", apperror.ErrTransport, err)
	}

	if len(parsed.Results) == 0 {
		return nil, fmt.Errorf("%w: no species match found", apperror.ErrNotFound)
	}

	// The consumer reads only the top-ranked entry.
	top := parsed.Results[0]

	commonName := top.Species.ScientificNameWithoutAuthor
	if len(top.Species.CommonNames) > 0 {
		commonName = top.Species.CommonNames[0]
	}

	return &Match{
		CommonName:     commonName,
		ScientificName: top.Species.ScientificNameWithoutAuthor,
		Family:         top.Species.Family.ScientificNameWithoutAuthor,
		Score:          top.Score,
	}, nil
}
