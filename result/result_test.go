package result

import (
	"testing"

	"github.com/Financial-Times/contentful-listener-api/config"
	"github.com/stretchr/testify/assert"
)

func testConfig() *config.ContentConfig {
	return &config.ContentConfig{
		ContentfulSpaceID: "space1",
		ContentfulEntryID: "home",
		ContentID:         "11111111-1111-4111-8111-111111111111",
		PublishingAPIAttributes: map[string]interface{}{
			"locale": "cy",
		},
	}
}

func TestResultMessages(t *testing.T) {
	assert := assert.New(t)

	cc := testConfig()

	assert.Equal("Updated the draft content of 11111111-1111-4111-8111-111111111111:cy",
		DraftUpdated(cc).String())
	assert.Equal("Updated the live content of 11111111-1111-4111-8111-111111111111:cy",
		LiveUpdated(cc).String())
	assert.Equal("Did not update the draft content of 11111111-1111-4111-8111-111111111111:cy as the Publishing API is already up-to-date.",
		DraftUnchanged(cc).String())
	assert.Equal("Did not update the live content of 11111111-1111-4111-8111-111111111111:cy as the Publishing API is already up-to-date.",
		LiveUnchanged(cc).String())
	assert.Equal("Did not update the draft content of 11111111-1111-4111-8111-111111111111:cy as the Contentful draft entry (space1:Entry:home) does not exist.",
		NoDraftRootEntry(cc).String())
	assert.Equal("Did not update the live content of 11111111-1111-4111-8111-111111111111:cy as the Contentful entry (space1:Entry:home) is not available as published content.",
		NoLiveRootEntry(cc).String())
	assert.Equal("Did not update the live content of 11111111-1111-4111-8111-111111111111:cy as it is configured to only update draft content.",
		LiveSkippedDraftOnly(cc).String())
	assert.Equal("Did not update aaa:en as there isn't a configured Contentful mapping.",
		ContentNotConfigured("aaa", "en").String())
	assert.Equal("No content updated, there was no configured content affected by the event.",
		NoAffectedContent().String())
}
