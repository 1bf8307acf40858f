package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/skusdev/profile/internal/domain"
)

// HTTPSource fetches the initial record set from a remote roster API:
// a single GET {base}/members/ returning a JSON array of members. No
// pagination or filter parameters are sent; all view operations are local
// over the full returned set.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates an HTTPSource for the given base URL.
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.Member, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/members/", nil)
	if err != nil {
		return nil, fmt.Errorf("build members request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrSourceUnavailable, resp.StatusCode)
	}

	var members []domain.Member
	if err := json.NewDecoder(resp.Body).Decode(&members); err != nil {
		return nil, fmt.Errorf("%w: decode members: %v", domain.ErrSourceUnavailable, err)
	}
	return members, nil
}
