package contentful

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	// DeliveryAPIURL serves published content.
	DeliveryAPIURL = "https://cdn.contentful.com"
	// PreviewAPIURL serves draft content.
	PreviewAPIURL = "https://preview.contentful.com"
)

// Client reads content from a single Contentful space and environment. A
// client caches the linked resources returned alongside an entry fetch so
// links within that entry's graph resolve without further requests; the
// cache lives only as long as the client, which is created per sync attempt.
type Client interface {
	SpaceID() string
	Entry(entryID string, includeDepth int) (*Entry, bool, error)
	Resolve(link *Link) (interface{}, error)
	Space() error
}

type client struct {
	baseURL     string
	spaceID     string
	environment string
	accessToken string
	httpClient  *http.Client
	includes    map[string]interface{}
}

func NewClient(baseURL string, spaceID string, environment string, accessToken string) Client {
	return &client{
		baseURL:     baseURL,
		spaceID:     spaceID,
		environment: environment,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		includes:    map[string]interface{}{},
	}
}

func (c *client) SpaceID() string {
	return c.spaceID
}

// Entry fetches an entry and the resources reachable from it up to
// includeDepth levels of links. A missing entry is not an error.
func (c *client) Entry(entryID string, includeDepth int) (*Entry, bool, error) {
	query := url.Values{}
	query.Set("sys.id", entryID)
	query.Set("include", fmt.Sprintf("%d", includeDepth))

	requestURL := fmt.Sprintf("%s/spaces/%s/environments/%s/entries?%s",
		c.baseURL, c.spaceID, c.environment, query.Encode())

	var response struct {
		Items    []map[string]interface{}            `json:"items"`
		Includes map[string][]map[string]interface{} `json:"includes"`
	}

	if err := c.get(requestURL, &response); err != nil {
		return nil, false, err
	}

	for _, rawResources := range response.Includes {
		for _, raw := range rawResources {
			c.cacheResource(raw)
		}
	}
	for _, raw := range response.Items {
		c.cacheResource(raw)
	}

	if len(response.Items) == 0 {
		return nil, false, nil
	}

	resource, err := c.parse(response.Items[0])
	if err != nil {
		return nil, false, err
	}

	entry, ok := resource.(*Entry)
	if !ok {
		return nil, false, fmt.Errorf("contentful resource %s is not an entry", entryID)
	}

	return entry, true, nil
}

// Resolve returns the entry or asset a link points at, from the includes of
// the last entry fetch where possible. A link that cannot be resolved is an
// error as it leaves a hole in the serialized content.
func (c *client) Resolve(link *Link) (interface{}, error) {
	if resource, ok := c.includes[cacheKey(link.LinkType, link.ID)]; ok {
		return resource, nil
	}

	var requestURL string
	switch link.LinkType {
	case "Entry":
		requestURL = fmt.Sprintf("%s/spaces/%s/environments/%s/entries/%s",
			c.baseURL, c.spaceID, c.environment, link.ID)
	case "Asset":
		requestURL = fmt.Sprintf("%s/spaces/%s/environments/%s/assets/%s",
			c.baseURL, c.spaceID, c.environment, link.ID)
	default:
		return nil, fmt.Errorf("unable to resolve link to a %s", link.LinkType)
	}

	var raw map[string]interface{}
	if err := c.get(requestURL, &raw); err != nil {
		return nil, fmt.Errorf("unable to resolve link %s:%s: %v", link.LinkType, link.ID, err)
	}

	resource, err := c.parse(raw)
	if err != nil {
		return nil, err
	}

	c.includes[cacheKey(link.LinkType, link.ID)] = resource
	return resource, nil
}

// Space checks connectivity by requesting the space itself.
func (c *client) Space() error {
	requestURL := fmt.Sprintf("%s/spaces/%s", c.baseURL, c.spaceID)
	var raw map[string]interface{}
	return c.get(requestURL, &raw)
}

func (c *client) cacheResource(raw map[string]interface{}) {
	resource, err := c.parse(raw)
	if err != nil {
		return
	}

	switch r := resource.(type) {
	case *Entry:
		c.includes[cacheKey("Entry", r.ID)] = r
	case *Asset:
		c.includes[cacheKey("Asset", r.ID)] = r
	}
}

// parse decodes a raw resource, defaulting the space to this client's when
// the response omits it.
func (c *client) parse(raw map[string]interface{}) (interface{}, error) {
	resource, err := parseResource(raw)
	if err != nil {
		return nil, err
	}

	switch r := resource.(type) {
	case *Entry:
		if r.Space == "" {
			r.Space = c.spaceID
		}
	case *Asset:
		if r.Space == "" {
			r.Space = c.spaceID
		}
	}

	return resource, nil
}

func (c *client) get(requestURL string, target interface{}) error {
	req, err := http.NewRequest("GET", requestURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("contentful request to %s returned status %d", requestURL, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(target)
}

func cacheKey(linkType string, id string) string {
	return linkType + ":" + id
}
