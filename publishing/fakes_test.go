package publishing

import (
	"fmt"

	"github.com/Financial-Times/contentful-listener-api/contentful"
)

// fakePublishingAPI is an in-memory stand-in for the Publishing API client.
type fakePublishingAPI struct {
	items    map[string]ContentItem
	versions map[string]ContentItem
	editions []ContentIdentity

	editionsEntityID string
	editionsStates   []string
	editionsFields   []string

	putCalls       []Payload
	putContentIDs  []string
	putErrs        []error
	putLockVersion int

	publishCalls []publishCall
	publishErrs  []error
}

type publishCall struct {
	contentID       string
	locale          string
	previousVersion string
}

func newFakePublishingAPI() *fakePublishingAPI {
	return &fakePublishingAPI{
		items:          map[string]ContentItem{},
		versions:       map[string]ContentItem{},
		putLockVersion: 1,
	}
}

func (f *fakePublishingAPI) GetContent(contentID string, locale string) (ContentItem, bool, error) {
	item, ok := f.items[contentID+":"+locale]
	return item, ok, nil
}

func (f *fakePublishingAPI) GetContentVersion(contentID string, locale string, version int) (ContentItem, bool, error) {
	item, ok := f.versions[fmt.Sprintf("%s:%s:%d", contentID, locale, version)]
	return item, ok, nil
}

func (f *fakePublishingAPI) GetEditions(entityID string, states []string, fields []string) ([]ContentIdentity, error) {
	f.editionsEntityID = entityID
	f.editionsStates = states
	f.editionsFields = fields
	return f.editions, nil
}

func (f *fakePublishingAPI) PutContent(contentID string, payload Payload) (int, error) {
	f.putCalls = append(f.putCalls, payload)
	f.putContentIDs = append(f.putContentIDs, contentID)
	if len(f.putErrs) > 0 {
		err := f.putErrs[0]
		f.putErrs = f.putErrs[1:]
		if err != nil {
			return 0, err
		}
	}
	return f.putLockVersion, nil
}

func (f *fakePublishingAPI) Publish(contentID string, locale string, previousVersion string) error {
	f.publishCalls = append(f.publishCalls, publishCall{contentID, locale, previousVersion})
	if len(f.publishErrs) > 0 {
		err := f.publishErrs[0]
		f.publishErrs = f.publishErrs[1:]
		return err
	}
	return nil
}

// fakeContentfulClient serves entries and link resolutions from memory.
type fakeContentfulClient struct {
	spaceID  string
	entries  map[string]*contentful.Entry
	resolved map[string]interface{}
}

func newFakeContentfulClient(spaceID string) *fakeContentfulClient {
	return &fakeContentfulClient{
		spaceID:  spaceID,
		entries:  map[string]*contentful.Entry{},
		resolved: map[string]interface{}{},
	}
}

func (f *fakeContentfulClient) SpaceID() string {
	return f.spaceID
}

func (f *fakeContentfulClient) Entry(entryID string, includeDepth int) (*contentful.Entry, bool, error) {
	entry, ok := f.entries[entryID]
	return entry, ok, nil
}

func (f *fakeContentfulClient) Resolve(link *contentful.Link) (interface{}, error) {
	resource, ok := f.resolved[link.LinkType+":"+link.ID]
	if !ok {
		return nil, fmt.Errorf("unable to resolve link %s:%s", link.LinkType, link.ID)
	}
	return resource, nil
}

func (f *fakeContentfulClient) Space() error {
	return nil
}

// fakeClients hands out the same contentful client for draft and live.
type fakeClients struct {
	draft *fakeContentfulClient
	live  *fakeContentfulClient
}

func (f *fakeClients) Draft(spaceID string) (contentful.Client, error) {
	return f.draft, nil
}

func (f *fakeClients) Live(spaceID string) (contentful.Client, error) {
	return f.live, nil
}
