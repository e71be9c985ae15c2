package webhook

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Financial-Times/contentful-listener-api/config"
	"github.com/Financial-Times/contentful-listener-api/publishing"
	"github.com/Financial-Times/contentful-listener-api/result"
	log "github.com/sirupsen/logrus"
)

// TopicHeader carries the webhook topic out of band of the JSON body.
const TopicHeader = "X-Contentful-Topic"

// AffectedContentResolver identifies the content items a changed entity
// affects.
type AffectedContentResolver interface {
	Call(entityID string) ([]publishing.ContentIdentity, error)
}

// Updater syncs one configured content item's draft or live edition.
type Updater interface {
	UpdateDraft(cc *config.ContentConfig) (result.Result, error)
	UpdateLive(cc *config.ContentConfig) (result.Result, error)
}

// Handler serves the inbound webhook endpoint.
type Handler struct {
	expectedEnvironment string
	contentConfigs      *config.ContentConfigs
	affectedContent     AffectedContentResolver
	updater             Updater
}

func NewHandler(expectedEnvironment string, contentConfigs *config.ContentConfigs, affectedContent AffectedContentResolver, updater Updater) *Handler {
	return &Handler{
		expectedEnvironment: expectedEnvironment,
		contentConfigs:      contentConfigs,
		affectedContent:     affectedContent,
		updater:             updater,
	}
}

// Listener handles one Contentful notification synchronously and responds
// with a line per affected content item. Business outcomes, including
// "nothing to do", are all 200s; only a structurally invalid body is a 400.
func (h *Handler) Listener(w http.ResponseWriter, req *http.Request) {
	var payload map[string]interface{}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	hook := New(req.Header.Get(TopicHeader), payload)

	if hook.Environment() != h.expectedEnvironment {
		fmt.Fprintf(w, "No work done: %s is not from the expected environment", hook.Environment())
		return
	}

	if !hook.EventOfInterest() {
		fmt.Fprintf(w, "No work done: %s is not an event that we track", hook.Topic)
		return
	}

	entityID, err := hook.EntityID()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	affected, err := h.affectedContent.Call(entityID)
	if err != nil {
		h.serverError(w, entityID, err)
		return
	}

	var results []result.Result
	for _, identity := range affected {
		cc := h.contentConfigs.Find(identity.ContentID, identity.Locale)
		if cc == nil {
			results = append(results, result.ContentNotConfigured(identity.ContentID, identity.Locale))
			continue
		}

		draftResult, err := h.updater.UpdateDraft(cc)
		if err != nil {
			h.serverError(w, entityID, err)
			return
		}
		results = append(results, draftResult)

		if hook.LiveChange() {
			liveResult, err := h.updater.UpdateLive(cc)
			if err != nil {
				h.serverError(w, entityID, err)
				return
			}
			results = append(results, liveResult)
		}
	}

	if len(results) == 0 {
		results = append(results, result.NoAffectedContent())
	}

	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = r.String()
	}

	fmt.Fprint(w, strings.Join(lines, "\n"))
}

// A fatal error on one item aborts the whole notification; writes only
// happen after the state check so nothing is left half-written.
func (h *Handler) serverError(w http.ResponseWriter, entityID string, err error) {
	log.WithError(err).WithField("entity_id", entityID).Error("failed to process webhook")
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
