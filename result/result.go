package result

import (
	"fmt"

	"github.com/Financial-Times/contentful-listener-api/config"
)

// Result is the terminal outcome of attempting to sync one content item and
// locale pairing. Results render as the human readable lines returned in the
// webhook response body.
type Result struct {
	message string
}

func (r Result) String() string {
	return r.message
}

func ContentNotConfigured(contentID string, locale string) Result {
	return Result{fmt.Sprintf("Did not update %s:%s as there isn't a configured Contentful mapping.", contentID, locale)}
}

func NoDraftRootEntry(cc *config.ContentConfig) Result {
	return Result{fmt.Sprintf("Did not update the draft content of %s as the Contentful draft entry (%s) does not exist.",
		publishingAPIIdentifier(cc), cc.EntityID())}
}

func NoLiveRootEntry(cc *config.ContentConfig) Result {
	return Result{fmt.Sprintf("Did not update the live content of %s as the Contentful entry (%s) is not available as published content.",
		publishingAPIIdentifier(cc), cc.EntityID())}
}

func DraftUnchanged(cc *config.ContentConfig) Result {
	return Result{fmt.Sprintf("Did not update the draft content of %s as the Publishing API is already up-to-date.",
		publishingAPIIdentifier(cc))}
}

func DraftUpdated(cc *config.ContentConfig) Result {
	return Result{fmt.Sprintf("Updated the draft content of %s", publishingAPIIdentifier(cc))}
}

func LiveUnchanged(cc *config.ContentConfig) Result {
	return Result{fmt.Sprintf("Did not update the live content of %s as the Publishing API is already up-to-date.",
		publishingAPIIdentifier(cc))}
}

func LiveUpdated(cc *config.ContentConfig) Result {
	return Result{fmt.Sprintf("Updated the live content of %s", publishingAPIIdentifier(cc))}
}

func LiveSkippedDraftOnly(cc *config.ContentConfig) Result {
	return Result{fmt.Sprintf("Did not update the live content of %s as it is configured to only update draft content.",
		publishingAPIIdentifier(cc))}
}

func NoAffectedContent() Result {
	return Result{"No content updated, there was no configured content affected by the event."}
}

func publishingAPIIdentifier(cc *config.ContentConfig) string {
	return fmt.Sprintf("%s:%s", cc.ContentID, cc.Locale())
}
