package healthcheck

import (
	"fmt"
	"strings"

	"github.com/Financial-Times/contentful-listener-api/contentful"
	"github.com/Financial-Times/go-fthealth/v1a"
	"github.com/Financial-Times/service-status-go/gtg"
)

// ContentfulClients is the subset of the client factory the check needs.
type ContentfulClients interface {
	ConfiguredSpaces() []string
	Draft(spaceID string) (contentful.Client, error)
	Live(spaceID string) (contentful.Client, error)
}

// ContentfulCheck probes draft and live connectivity for every configured
// Contentful space.
type ContentfulCheck struct {
	clients ContentfulClients
}

func NewContentfulCheck(clients ContentfulClients) *ContentfulCheck {
	return &ContentfulCheck{clients: clients}
}

func (c *ContentfulCheck) Check() v1a.Check {
	return v1a.Check{
		BusinessImpact:   "Cannot sync Contentful changes into the Publishing API",
		Name:             "Check connectivity to Contentful",
		PanicGuide:       "https://docs.publishing.service.gov.uk/apps/contentful-listener-api.html",
		Severity:         1,
		TechnicalSummary: "Requests each configured Contentful space with its draft and live credentials",
		Checker:          c.Checker,
	}
}

// GTG adapts the same probe for the good-to-go endpoint.
func (c *ContentfulCheck) GTG() gtg.Status {
	if _, err := c.Checker(); err != nil {
		return gtg.Status{GoodToGo: false, Message: err.Error()}
	}
	return gtg.Status{GoodToGo: true}
}

func (c *ContentfulCheck) Checker() (string, error) {
	spaces := c.clients.ConfiguredSpaces()
	if len(spaces) == 0 {
		return "no Contentful spaces configured", nil
	}

	var problems []string
	for _, spaceID := range spaces {
		var bad []string
		if !c.canCommunicate(c.clients.Draft, spaceID) {
			bad = append(bad, "draft")
		}
		if !c.canCommunicate(c.clients.Live, spaceID) {
			bad = append(bad, "live")
		}
		if len(bad) > 0 {
			problems = append(problems, fmt.Sprintf("space %s (%s)", spaceID, strings.Join(bad, " and ")))
		}
	}

	if len(problems) > 0 {
		return "", fmt.Errorf("failed to connect to Contentful spaces: %s", strings.Join(problems, ", "))
	}

	return "successfully connected to each Contentful space", nil
}

func (c *ContentfulCheck) canCommunicate(buildClient func(string) (contentful.Client, error), spaceID string) bool {
	client, err := buildClient(spaceID)
	if err != nil {
		return false
	}
	return client.Space() == nil
}
