// Package vk implements the matching.Client interface on top of the VK HTTP
// API. Only the three methods the core depends on are wrapped: users.get,
// users.search and photos.get.
package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"vkinder/pkg/matching"
)

// VK API error codes the core distinguishes.
const (
	errCodePrivateProfile = 30
)

// photos.get page size; VK caps it at 1000, the profile album rarely exceeds
// a few hundred.
const photosPerRequest = 200

// Client talks to the VK API. Safe for concurrent use.
type Client struct {
	httpc   *http.Client
	baseURL string
	token   string
	version string
	log     zerolog.Logger
}

func New(baseURL, token, version string, log zerolog.Logger) *Client {
	return &Client{
		httpc:   &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
		token:   token,
		version: version,
		log:     log,
	}
}

// apiError is the VK error envelope.
type apiError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("vk api error %d: %s", e.Code, e.Message)
}

// call performs one API method call and decodes the "response" payload into out.
func (c *Client) call(ctx context.Context, method string, params url.Values, out any) error {
	params.Set("access_token", c.token)
	params.Set("v", c.version)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/"+method+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("vk %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("vk %s: read body: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vk %s: unexpected status %d", method, resp.StatusCode)
	}

	var envelope struct {
		Error    *apiError       `json:"error"`
		Response json.RawMessage `json:"response"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("vk %s: decode envelope: %w", method, err)
	}
	if envelope.Error != nil {
		if envelope.Error.Code == errCodePrivateProfile {
			return matching.ErrPrivacyRestricted
		}
		return envelope.Error
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Response, out); err != nil {
			return fmt.Errorf("vk %s: decode response: %w", method, err)
		}
	}
	return nil
}

// wireUser is the user object shape shared by users.get and users.search.
type wireUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate string `json:"bdate"`
	City      *struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"city"`
	Country *struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"country"`
	Sex         int    `json:"sex"`
	PhotoURL    string `json:"photo_100"`
	Deactivated string `json:"deactivated"`
}

func (u wireUser) cityTitle() string {
	if u.City == nil {
		return ""
	}
	return u.City.Title
}

func (u wireUser) countryTitle() string {
	if u.Country == nil {
		return ""
	}
	return u.Country.Title
}

// FetchProfile resolves a single profile via users.get. An empty result maps
// to matching.ErrNotFound.
func (c *Client) FetchProfile(ctx context.Context, id int64) (matching.Profile, error) {
	params := url.Values{}
	params.Set("user_ids", strconv.FormatInt(id, 10))
	params.Set("fields", "bdate,city,country,sex")

	var users []wireUser
	if err := c.call(ctx, "users.get", params, &users); err != nil {
		return matching.Profile{}, err
	}
	if len(users) == 0 {
		return matching.Profile{}, matching.ErrNotFound
	}

	u := users[0]
	p := matching.Profile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		City:      u.cityTitle(),
		Country:   u.countryTitle(),
		Sex:       matching.Sex(u.Sex),
	}
	if age, ok := matching.CalculateAge(u.BirthDate); ok {
		p.Age = &age
	}
	return p, nil
}

// SearchProfiles runs users.search with the derived parameters. Zero-valued
// optional filters (sex, city) are omitted from the query.
func (c *Client) SearchProfiles(ctx context.Context, sp matching.SearchParams) ([]matching.RawCandidate, error) {
	params := url.Values{}
	params.Set("count", strconv.Itoa(sp.Count))
	params.Set("fields", sp.Fields)
	params.Set("sort", strconv.Itoa(sp.Sort))
	params.Set("country", strconv.FormatInt(sp.CountryID, 10))
	params.Set("age_from", strconv.Itoa(sp.AgeFrom))
	params.Set("age_to", strconv.Itoa(sp.AgeTo))
	if sp.HasPhoto {
		params.Set("has_photo", "1")
	}
	if sp.Sex != matching.SexUnknown {
		params.Set("sex", strconv.Itoa(int(sp.Sex)))
	}
	if sp.CityID != 0 {
		params.Set("city", strconv.FormatInt(sp.CityID, 10))
	}

	var response struct {
		Count int        `json:"count"`
		Items []wireUser `json:"items"`
	}
	if err := c.call(ctx, "users.search", params, &response); err != nil {
		return nil, err
	}

	raw := make([]matching.RawCandidate, 0, len(response.Items))
	for _, u := range response.Items {
		raw = append(raw, matching.RawCandidate{
			ID:          u.ID,
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			BirthDate:   u.BirthDate,
			City:        u.cityTitle(),
			Country:     u.countryTitle(),
			Sex:         matching.Sex(u.Sex),
			PhotoURL:    u.PhotoURL,
			Deactivated: u.Deactivated,
		})
	}
	return raw, nil
}

// FetchPhotos pulls the profile album with engagement counts. A private
// profile surfaces as matching.ErrPrivacyRestricted (mapped in call).
func (c *Client) FetchPhotos(ctx context.Context, ownerID int64) ([]matching.RawPhoto, error) {
	params := url.Values{}
	params.Set("owner_id", strconv.FormatInt(ownerID, 10))
	params.Set("album_id", "profile")
	params.Set("extended", "1")
	params.Set("photo_sizes", "1")
	params.Set("count", strconv.Itoa(photosPerRequest))

	var response struct {
		Count int `json:"count"`
		Items []struct {
			ID      int64 `json:"id"`
			OwnerID int64 `json:"owner_id"`
			Sizes   []struct {
				Type string `json:"type"`
				URL  string `json:"url"`
			} `json:"sizes"`
			Likes struct {
				Count int `json:"count"`
			} `json:"likes"`
			Comments struct {
				Count int `json:"count"`
			} `json:"comments"`
		} `json:"items"`
	}
	if err := c.call(ctx, "photos.get", params, &response); err != nil {
		return nil, err
	}

	photos := make([]matching.RawPhoto, 0, len(response.Items))
	for _, item := range response.Items {
		photo := matching.RawPhoto{
			ID:       item.ID,
			OwnerID:  item.OwnerID,
			Likes:    item.Likes.Count,
			Comments: item.Comments.Count,
		}
		// Sizes are ordered smallest to largest; take the largest available.
		if n := len(item.Sizes); n > 0 {
			photo.URL = item.Sizes[n-1].URL
		}
		photos = append(photos, photo)
	}
	return photos, nil
}
