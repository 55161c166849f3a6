package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mishannn/explore-go/internal/listing"
	"github.com/mishannn/explore-go/internal/utils"
)

// HTTPClient reads the directory from two JSON endpoints returning arrays
// of hosts and categories.
type HTTPClient struct {
	httpClient *http.Client

	listingsURL   string
	categoriesURL string
}

func NewHTTPClient(httpClient *http.Client, listingsURL string, categoriesURL string) *HTTPClient {
	return &HTTPClient{
		httpClient:    httpClient,
		listingsURL:   listingsURL,
		categoriesURL: categoriesURL,
	}
}

// flexValue accepts a JSON string, number or null and keeps its text.
type flexValue string

func (v *flexValue) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = flexValue(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*v = flexValue(n.String())
	return nil
}

func (v flexValue) Float() float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
	if err != nil {
		return 0
	}
	return f
}

// host has only the fields the explore screen shows
type host struct {
	HostCode  flexValue `json:"Host_code"`
	Name      string    `json:"nom"`
	About     string    `json:"About"`
	Price     flexValue `json:"price"`
	Rating    flexValue `json:"Rating"`
	Latitude  flexValue `json:"latitude"`
	Longitude flexValue `json:"longitude"`
	Category  struct {
		Code string `json:"category_code"`
	} `json:"category"`
	Image []struct {
		SecureURL string `json:"secure_url"`
	} `json:"image"`
}

type category struct {
	Code  string `json:"category_code"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

func (c *HTTPClient) get(ctx context.Context, endpoint string, lang string, dest any) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: can't parse url: %w", ErrDirectoryUnavailable, err)
	}

	if lang != "" {
		q := u.Query()
		q.Set("lang", lang)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: can't create request: %w", ErrDirectoryUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: can't do request: %w", ErrDirectoryUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: can't read response body: %w", ErrDirectoryUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: server sent http error: %d, %s", ErrDirectoryUnavailable, resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, dest); err != nil {
		return fmt.Errorf("%w: can't parse response body: %w", ErrDirectoryUnavailable, err)
	}

	return nil
}

func (c *HTTPClient) FetchListings(ctx context.Context, lang string) ([]listing.Listing, error) {
	var hosts []host
	if err := c.get(ctx, c.listingsURL, lang, &hosts); err != nil {
		return nil, err
	}

	listings := make([]listing.Listing, 0, len(hosts))
	for _, h := range hosts {
		id := strings.TrimSpace(string(h.HostCode))
		if id == "" {
			log.Debug().Str("name", h.Name).Msg("Skipping listing without host code")
			continue
		}

		l := listing.Listing{
			ID:           id,
			Title:        h.Name,
			Description:  h.About,
			CategoryCode: h.Category.Code,
			Price:        h.Price.Float(),
			Rating:       h.Rating.Float(),
		}
		if len(h.Image) > 0 {
			l.ImageURL = h.Image[0].SecureURL
		}

		coords, err := listing.ParsePosition(id, string(h.Latitude), string(h.Longitude))
		if err != nil {
			log.Debug().Err(err).Str("listing", id).Msg("Listing kept off the map")
		}
		l.Coordinates = coords

		listings = append(listings, l)
	}

	unique := utils.RemoveDuplicates(listings, func(l listing.Listing) string { return l.ID })
	if dropped := len(listings) - len(unique); dropped > 0 {
		log.Warn().Int("dropped", dropped).Str("lang", lang).Msg("Duplicate host codes in directory response")
	}

	return unique, nil
}

func (c *HTTPClient) FetchCategories(ctx context.Context, lang string) ([]listing.Category, error) {
	var raw []category
	if err := c.get(ctx, c.categoriesURL, lang, &raw); err != nil {
		return nil, err
	}

	categories := make([]listing.Category, 0, len(raw))
	for _, rc := range raw {
		if rc.Code == "" {
			continue
		}
		categories = append(categories, listing.Category{Code: rc.Code, Name: rc.Name, ImageURL: rc.Image})
	}

	return utils.RemoveDuplicates(categories, func(c listing.Category) string { return c.Code }), nil
}
