package publishing

import (
	"errors"
	"testing"

	"github.com/Financial-Times/contentful-listener-api/config"
	"github.com/Financial-Times/contentful-listener-api/contentful"
	"github.com/stretchr/testify/assert"
)

const updaterContentID = "c0a80151-dd56-4b31-a4bb-86b54ab5e00e"

func updaterContentConfig() *config.ContentConfig {
	return &config.ContentConfig{
		ContentfulSpaceID: "space1",
		ContentfulEntryID: "home",
		ContentID:         updaterContentID,
		PublishingAPIAttributes: map[string]interface{}{
			"base_path": "/homepage",
		},
	}
}

func homeEntry() *contentful.Entry {
	return &contentful.Entry{
		Space:  "space1",
		ID:     "home",
		Fields: map[string]interface{}{"title": "Home"},
	}
}

func newUpdaterFixture() (*Updater, *fakePublishingAPI, *fakeContentfulClient) {
	api := newFakePublishingAPI()
	cda := newFakeContentfulClient("space1")
	updater := NewUpdater(api, &fakeClients{draft: cda, live: cda})
	return updater, api, cda
}

func TestUpdateDraftWritesMissingContent(t *testing.T) {
	assert := assert.New(t)

	updater, api, cda := newUpdaterFixture()
	cda.entries["home"] = homeEntry()

	res, err := updater.UpdateDraft(updaterContentConfig())

	assert.NoError(err)
	assert.Equal("Updated the draft content of "+updaterContentID+":en", res.String())
	assert.Len(api.putCalls, 1)
	assert.Equal(updaterContentID, api.putContentIDs[0])
	assert.Equal("0", api.putCalls[0]["previous_version"])
	assert.Empty(api.publishCalls)
}

func TestUpdateDraftSkipsEquivalentContent(t *testing.T) {
	assert := assert.New(t)

	updater, api, cda := newUpdaterFixture()
	cda.entries["home"] = homeEntry()
	api.items[updaterContentID+":en"] = ContentItem{
		"publication_state": "draft",
		"lock_version":      4.0,
		"base_path":         "/homepage",
		"title":             nil,
		"description":       nil,
		"schema_name":       "special_route",
		"update_type":       "major",
		"publishing_app":    "contentful-listener",
		"routes": []interface{}{
			map[string]interface{}{"path": "/homepage", "type": "exact"},
		},
		"details": map[string]interface{}{
			"cms_id": "space1:Entry:home",
			"title":  "Home",
		},
	}

	res, err := updater.UpdateDraft(updaterContentConfig())

	assert.NoError(err)
	assert.Equal("Did not update the draft content of "+updaterContentID+":en as the Publishing API is already up-to-date.", res.String())
	assert.Empty(api.putCalls)
}

func TestUpdateDraftWhenTheRootEntryDoesNotExist(t *testing.T) {
	assert := assert.New(t)

	updater, api, _ := newUpdaterFixture()

	res, err := updater.UpdateDraft(updaterContentConfig())

	assert.NoError(err)
	assert.Equal("Did not update the draft content of "+updaterContentID+":en as the Contentful draft entry (space1:Entry:home) does not exist.", res.String())
	assert.Empty(api.putCalls)
}

func TestUpdateLiveWritesAndPublishes(t *testing.T) {
	assert := assert.New(t)

	updater, api, cda := newUpdaterFixture()
	cda.entries["home"] = homeEntry()
	api.putLockVersion = 7

	res, err := updater.UpdateLive(updaterContentConfig())

	assert.NoError(err)
	assert.Equal("Updated the live content of "+updaterContentID+":en", res.String())
	assert.Len(api.putCalls, 1)
	assert.Equal([]publishCall{{updaterContentID, "en", "7"}}, api.publishCalls)
}

func TestUpdateLiveWhenTheRootEntryIsNotPublished(t *testing.T) {
	assert := assert.New(t)

	updater, api, _ := newUpdaterFixture()

	res, err := updater.UpdateLive(updaterContentConfig())

	assert.NoError(err)
	assert.Equal("Did not update the live content of "+updaterContentID+":en as the Contentful entry (space1:Entry:home) is not available as published content.", res.String())
	assert.Empty(api.putCalls)
	assert.Empty(api.publishCalls)
}

func TestUpdateLiveSkipsDraftOnlyContent(t *testing.T) {
	assert := assert.New(t)

	updater, api, cda := newUpdaterFixture()
	cda.entries["home"] = homeEntry()
	cc := updaterContentConfig()
	cc.DraftOnly = true

	res, err := updater.UpdateLive(cc)

	assert.NoError(err)
	assert.Equal("Did not update the live content of "+updaterContentID+":en as it is configured to only update draft content.", res.String())
	assert.Empty(api.putCalls)
}

func TestUpdateDraftRetriesOnAConflictingWrite(t *testing.T) {
	assert := assert.New(t)

	updater, api, cda := newUpdaterFixture()
	cda.entries["home"] = homeEntry()
	api.putErrs = []error{ConflictError{ContentID: updaterContentID}}

	res, err := updater.UpdateDraft(updaterContentConfig())

	assert.NoError(err)
	assert.Equal("Updated the draft content of "+updaterContentID+":en", res.String())
	assert.Len(api.putCalls, 2)
}

func TestUpdateDraftGivesUpAfterRepeatedConflicts(t *testing.T) {
	assert := assert.New(t)

	updater, api, cda := newUpdaterFixture()
	cda.entries["home"] = homeEntry()
	api.putErrs = []error{
		ConflictError{ContentID: updaterContentID},
		ConflictError{ContentID: updaterContentID},
		ConflictError{ContentID: updaterContentID},
	}

	_, err := updater.UpdateDraft(updaterContentConfig())

	assert.Error(err)
	assert.True(IsConflict(err))
	assert.Len(api.putCalls, 3)
}

func TestUpdateLiveRetriesAConflictingPublish(t *testing.T) {
	assert := assert.New(t)

	updater, api, cda := newUpdaterFixture()
	cda.entries["home"] = homeEntry()
	api.publishErrs = []error{ConflictError{ContentID: updaterContentID}}

	res, err := updater.UpdateLive(updaterContentConfig())

	assert.NoError(err)
	assert.Equal("Updated the live content of "+updaterContentID+":en", res.String())
	assert.Len(api.putCalls, 2)
	assert.Len(api.publishCalls, 2)
}

func TestUpdateDraftDoesNotRetryOtherErrors(t *testing.T) {
	assert := assert.New(t)

	updater, api, cda := newUpdaterFixture()
	cda.entries["home"] = homeEntry()
	putErr := errors.New("publishing api put content returned status 500")
	api.putErrs = []error{putErr}

	_, err := updater.UpdateDraft(updaterContentConfig())

	assert.Equal(putErr, err)
	assert.Len(api.putCalls, 1)
}
