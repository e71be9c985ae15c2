package publishing

import (
	"strconv"

	"github.com/Financial-Times/contentful-listener-api/config"
	"github.com/Financial-Times/contentful-listener-api/contentful"
	"github.com/Financial-Times/contentful-listener-api/result"
	log "github.com/sirupsen/logrus"
)

const (
	// maxSyncAttempts bounds how many times a sync is attempted when the
	// Publishing API rejects a write over a stale lock version.
	maxSyncAttempts = 3

	// includeDepth is how many levels of links Contentful resolves in the
	// root entry fetch.
	includeDepth = 10
)

// ContentfulClients builds the draft or live scoped Contentful client for a
// space.
type ContentfulClients interface {
	Draft(spaceID string) (contentful.Client, error)
	Live(spaceID string) (contentful.Client, error)
}

// Updater syncs a single configured content item into the Publishing API.
type Updater struct {
	api     Client
	clients ContentfulClients
}

func NewUpdater(api Client, clients ContentfulClients) *Updater {
	return &Updater{api: api, clients: clients}
}

// UpdateDraft brings the draft edition of the configured content item in
// line with the entry's draft Contentful content.
func (u *Updater) UpdateDraft(cc *config.ContentConfig) (result.Result, error) {
	client, err := u.clients.Draft(cc.ContentfulSpaceID)
	if err != nil {
		return result.Result{}, err
	}

	var res result.Result
	err = u.retryConflicts(cc, func() error {
		state := NewContentState(u.api, cc.ContentID, cc.Locale())

		entry, found, err := client.Entry(cc.ContentfulEntryID, includeDepth)
		if err != nil {
			return err
		}
		// sub-content can legitimately not exist yet
		if !found {
			res = result.NoDraftRootEntry(cc)
			return nil
		}

		payload, err := u.buildPayload(client, state, entry, cc)
		if err != nil {
			return err
		}

		needed, err := state.NeedsDraftUpdate(payload)
		if err != nil {
			return err
		}
		if !needed {
			res = result.DraftUnchanged(cc)
			return nil
		}

		if _, err := u.api.PutContent(cc.ContentID, payload); err != nil {
			return err
		}

		res = result.DraftUpdated(cc)
		return nil
	})

	return res, err
}

// UpdateLive brings the live edition in line with the entry's published
// Contentful content, publishing after a write with the lock version the
// write returned.
func (u *Updater) UpdateLive(cc *config.ContentConfig) (result.Result, error) {
	if cc.DraftOnly {
		return result.LiveSkippedDraftOnly(cc), nil
	}

	client, err := u.clients.Live(cc.ContentfulSpaceID)
	if err != nil {
		return result.Result{}, err
	}

	var res result.Result
	err = u.retryConflicts(cc, func() error {
		state := NewContentState(u.api, cc.ContentID, cc.Locale())

		entry, found, err := client.Entry(cc.ContentfulEntryID, includeDepth)
		if err != nil {
			return err
		}
		if !found {
			res = result.NoLiveRootEntry(cc)
			return nil
		}

		payload, err := u.buildPayload(client, state, entry, cc)
		if err != nil {
			return err
		}

		needed, err := state.NeedsLiveUpdate(payload)
		if err != nil {
			return err
		}
		if !needed {
			res = result.LiveUnchanged(cc)
			return nil
		}

		lockVersion, err := u.api.PutContent(cc.ContentID, payload)
		if err != nil {
			return err
		}

		if err := u.api.Publish(cc.ContentID, cc.Locale(), strconv.Itoa(lockVersion)); err != nil {
			return err
		}

		res = result.LiveUpdated(cc)
		return nil
	})

	return res, err
}

func (u *Updater) buildPayload(client contentful.Client, state *ContentState, entry *contentful.Entry, cc *config.ContentConfig) (Payload, error) {
	lockVersion, err := state.LockVersion()
	if err != nil {
		return nil, err
	}

	attributes := make(map[string]interface{}, len(cc.PublishingAPIAttributes)+1)
	for key, value := range cc.PublishingAPIAttributes {
		attributes[key] = value
	}
	attributes["previous_version"] = strconv.Itoa(lockVersion)

	return BuildContentPayload(client, entry, attributes)
}

// retryConflicts runs attempt up to maxSyncAttempts times. Only a stale lock
// version conflict triggers a retry; the attempt re-reads state and rebuilds
// its payload, so a loser of a concurrent write race re-decides against the
// winner's content. The last conflict propagates once attempts run out.
func (u *Updater) retryConflicts(cc *config.ContentConfig, attempt func() error) error {
	var err error
	for i := 1; i <= maxSyncAttempts; i++ {
		err = attempt()
		if err == nil || !IsConflict(err) {
			return err
		}
		if i < maxSyncAttempts {
			log.WithField("content_id", cc.ContentID).
				WithField("attempt", i).
				Warn("retrying sync after a Publishing API conflict")
		}
	}
	return err
}
