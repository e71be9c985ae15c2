package publishing

import (
	"bytes"
	"encoding/json"
)

// comparedAttributes are the payload fields that constitute a meaningful
// content change. Anything outside this list (timestamps, state metadata)
// must never trigger an update.
var comparedAttributes = []string{
	"base_path",
	"description",
	"details",
	"publishing_app",
	"rendering_app",
	"routes",
	"schema_name",
	"title",
	"update_type",
}

// ContentState is the Publishing API's current knowledge of one content item
// and locale pairing, fetched lazily and at most once per instance. An
// instance is created per sync attempt so a retry always sees fresh state.
type ContentState struct {
	api       Client
	contentID string
	locale    string

	fetched    bool
	mostRecent ContentItem

	liveFetched bool
	live        ContentItem
}

func NewContentState(api Client, contentID string, locale string) *ContentState {
	return &ContentState{api: api, contentID: contentID, locale: locale}
}

// NeedsDraftUpdate reports whether writing payload would change the draft
// edition. Absent draft content always needs an update.
func (cs *ContentState) NeedsDraftUpdate(payload Payload) (bool, error) {
	draft, err := cs.draftContent()
	if err != nil {
		return false, err
	}
	if draft == nil {
		return true, nil
	}
	return !contentEquivalent(payload, draft), nil
}

// NeedsLiveUpdate reports whether writing and publishing payload would
// change the live edition.
func (cs *ContentState) NeedsLiveUpdate(payload Payload) (bool, error) {
	live, err := cs.liveContent()
	if err != nil {
		return false, err
	}
	if live == nil {
		return true, nil
	}
	return !contentEquivalent(payload, live), nil
}

// LockVersion is the optimistic concurrency token for the next write, 0 when
// the content item doesn't exist yet.
func (cs *ContentState) LockVersion() (int, error) {
	mostRecent, err := cs.mostRecentContent()
	if err != nil {
		return 0, err
	}
	if mostRecent == nil {
		return 0, nil
	}
	return mostRecent.lockVersion(), nil
}

// draftContent is the most recent edition when it is in a draft or published
// state. A fully unpublished item doesn't count as draft content.
func (cs *ContentState) draftContent() (ContentItem, error) {
	mostRecent, err := cs.mostRecentContent()
	if err != nil {
		return nil, err
	}
	if mostRecent == nil {
		return nil, nil
	}

	state := mostRecent.publicationState()
	if state != "draft" && state != "published" {
		return nil, nil
	}

	return mostRecent, nil
}

// liveContent is the most recent edition when already published, otherwise
// the highest version the state history records as published, fetched
// explicitly. No published version means there is no live content.
func (cs *ContentState) liveContent() (ContentItem, error) {
	if cs.liveFetched {
		return cs.live, nil
	}

	mostRecent, err := cs.mostRecentContent()
	if err != nil {
		return nil, err
	}

	cs.liveFetched = true

	if mostRecent == nil {
		return nil, nil
	}

	if mostRecent.publicationState() == "published" {
		cs.live = mostRecent
		return cs.live, nil
	}

	publishedVersion := 0
	for version, state := range mostRecent.stateHistory() {
		if state == "published" && version > publishedVersion {
			publishedVersion = version
		}
	}
	if publishedVersion == 0 {
		return nil, nil
	}

	live, found, err := cs.api.GetContentVersion(cs.contentID, cs.locale, publishedVersion)
	if err != nil {
		return nil, err
	}
	if found {
		cs.live = live
	}

	return cs.live, nil
}

func (cs *ContentState) mostRecentContent() (ContentItem, error) {
	if cs.fetched {
		return cs.mostRecent, nil
	}

	item, found, err := cs.api.GetContent(cs.contentID, cs.locale)
	if err != nil {
		return nil, err
	}

	cs.fetched = true
	if found {
		cs.mostRecent = item
	}

	return cs.mostRecent, nil
}

// contentEquivalent compares the candidate payload against a Publishing API
// edition over the compared attributes only. Both sides are reduced to their
// JSON form so values that differ only in Go representation compare equal.
func contentEquivalent(payload Payload, item ContentItem) bool {
	return bytes.Equal(
		marshalComparedAttributes(map[string]interface{}(payload)),
		marshalComparedAttributes(map[string]interface{}(item)),
	)
}

func marshalComparedAttributes(item map[string]interface{}) []byte {
	compared := map[string]interface{}{}
	for _, attribute := range comparedAttributes {
		if value, ok := item[attribute]; ok {
			compared[attribute] = value
		}
	}

	marshalled, err := json.Marshal(compared)
	if err != nil {
		return nil
	}
	return marshalled
}
