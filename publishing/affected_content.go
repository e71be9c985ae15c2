package publishing

import (
	"github.com/Financial-Times/contentful-listener-api/config"
)

// AffectedContent works out which content items need to be considered when a
// Contentful entity changes: items the Publishing API already associates
// with the entity, plus items configured here that may not have been written
// to the Publishing API yet.
type AffectedContent struct {
	api            Client
	contentConfigs *config.ContentConfigs
}

func NewAffectedContent(api Client, contentConfigs *config.ContentConfigs) *AffectedContent {
	return &AffectedContent{api: api, contentConfigs: contentConfigs}
}

// Call returns the deduplicated (content id, locale) pairings affected by a
// change to entityID, Publishing API matches first.
func (ac *AffectedContent) Call(entityID string) ([]ContentIdentity, error) {
	editions, err := ac.api.GetEditions(entityID,
		[]string{"draft", "published"},
		[]string{"content_id", "locale"})
	if err != nil {
		return nil, err
	}

	affected := make([]ContentIdentity, 0, len(editions)+1)
	seen := map[ContentIdentity]bool{}

	for _, edition := range editions {
		if !seen[edition] {
			seen[edition] = true
			affected = append(affected, edition)
		}
	}

	for _, cc := range ac.contentConfigs.All() {
		if cc.EntityID() != entityID {
			continue
		}
		identity := ContentIdentity{ContentID: cc.ContentID, Locale: cc.Locale()}
		if !seen[identity] {
			seen[identity] = true
			affected = append(affected, identity)
		}
	}

	return affected, nil
}
