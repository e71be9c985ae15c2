package publishing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// PublishingApp identifies this service as the owner of the content it
// writes to the Publishing API.
const PublishingApp = "contentful-listener"

// Payload is the flat JSON document written to the Publishing API for a
// content item.
type Payload map[string]interface{}

// ContentItem is the Publishing API's representation of a content item at a
// point in time.
type ContentItem map[string]interface{}

// ContentIdentity names one content item and locale pairing.
type ContentIdentity struct {
	ContentID string `json:"content_id"`
	Locale    string `json:"locale"`
}

// ConflictError is returned when a write's previous_version precondition is
// stale. It is the only error kind the updater retries.
type ConflictError struct {
	ContentID string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("conflicting lock version writing content %s", e.ContentID)
}

// IsConflict reports whether an error is an optimistic concurrency conflict.
func IsConflict(err error) bool {
	_, ok := err.(ConflictError)
	return ok
}

// Client is the Publishing API surface this service consumes. Content that
// does not exist is reported through the bool return, not an error.
type Client interface {
	GetContent(contentID string, locale string) (ContentItem, bool, error)
	GetContentVersion(contentID string, locale string, version int) (ContentItem, bool, error)
	GetEditions(entityID string, states []string, fields []string) ([]ContentIdentity, error)
	PutContent(contentID string, payload Payload) (int, error)
	Publish(contentID string, locale string, previousVersion string) error
}

type httpClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) Client {
	return &httpClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *httpClient) GetContent(contentID string, locale string) (ContentItem, bool, error) {
	return c.getContent(contentID, locale, 0)
}

func (c *httpClient) GetContentVersion(contentID string, locale string, version int) (ContentItem, bool, error) {
	return c.getContent(contentID, locale, version)
}

func (c *httpClient) getContent(contentID string, locale string, version int) (ContentItem, bool, error) {
	query := url.Values{}
	query.Set("locale", locale)
	if version > 0 {
		query.Set("version", strconv.Itoa(version))
	}

	requestURL := fmt.Sprintf("%s/v2/content/%s?%s", c.baseURL, contentID, query.Encode())

	resp, err := c.do("GET", requestURL, nil)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("publishing api get content %s returned status %d", contentID, resp.StatusCode)
	}

	var item ContentItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, false, err
	}

	return item, true, nil
}

// GetEditions lists every edition in the given states whose recorded
// cms_entity_ids include entityID, following pagination links until
// exhausted.
func (c *httpClient) GetEditions(entityID string, states []string, fields []string) ([]ContentIdentity, error) {
	query := url.Values{}
	query.Add("cms_entity_ids[]", entityID)
	for _, state := range states {
		query.Add("states[]", state)
	}
	for _, field := range fields {
		query.Add("fields[]", field)
	}

	requestURL := fmt.Sprintf("%s/v2/editions?%s", c.baseURL, query.Encode())

	var editions []ContentIdentity
	for requestURL != "" {
		resp, err := c.do("GET", requestURL, nil)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("publishing api get editions returned status %d", resp.StatusCode)
		}

		var page struct {
			Results []ContentIdentity `json:"results"`
			Links   []struct {
				Href string `json:"href"`
				Rel  string `json:"rel"`
			} `json:"links"`
		}

		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		editions = append(editions, page.Results...)

		requestURL = ""
		for _, link := range page.Links {
			if link.Rel == "next" {
				requestURL = link.Href
			}
		}
	}

	return editions, nil
}

// PutContent writes the draft edition of a content item and returns the new
// lock version.
func (c *httpClient) PutContent(contentID string, payload Payload) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}

	requestURL := fmt.Sprintf("%s/v2/content/%s", c.baseURL, contentID)

	resp, err := c.do("PUT", requestURL, body)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return 0, ConflictError{ContentID: contentID}
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("publishing api put content %s returned status %d", contentID, resp.StatusCode)
	}

	var response struct {
		LockVersion int `json:"lock_version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return 0, err
	}

	return response.LockVersion, nil
}

// Publish promotes the draft edition to live, guarded by the lock version
// returned from the preceding write.
func (c *httpClient) Publish(contentID string, locale string, previousVersion string) error {
	body, err := json.Marshal(map[string]interface{}{
		"update_type":      nil,
		"locale":           locale,
		"previous_version": previousVersion,
	})
	if err != nil {
		return err
	}

	requestURL := fmt.Sprintf("%s/v2/content/%s/publish", c.baseURL, contentID)

	resp, err := c.do("POST", requestURL, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return ConflictError{ContentID: contentID}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("publishing api publish %s returned status %d", contentID, resp.StatusCode)
	}

	return nil
}

func (c *httpClient) do(method string, requestURL string, body []byte) (*http.Response, error) {
	var reader *bytes.Reader
	var req *http.Request
	var err error

	if body != nil {
		reader = bytes.NewReader(body)
		req, err = http.NewRequest(method, requestURL, reader)
	} else {
		req, err = http.NewRequest(method, requestURL, nil)
	}
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

func (ci ContentItem) publicationState() string {
	state, _ := ci["publication_state"].(string)
	return state
}

// stateHistory returns the version to state mapping, tolerating the JSON
// number and string-keyed forms the API serves.
func (ci ContentItem) stateHistory() map[int]string {
	raw, _ := ci["state_history"].(map[string]interface{})
	history := make(map[int]string, len(raw))
	for key, value := range raw {
		version, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if state, ok := value.(string); ok {
			history[version] = state
		}
	}
	return history
}

func (ci ContentItem) lockVersion() int {
	switch v := ci["lock_version"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		version, _ := strconv.Atoi(v)
		return version
	default:
		return 0
	}
}
