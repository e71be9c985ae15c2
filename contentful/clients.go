package contentful

// Credentials supplies per-space access tokens, implemented by the loaded
// access token configuration.
type Credentials interface {
	ConfiguredSpaces() []string
	DraftAccessToken(spaceID string) (string, error)
	LiveAccessToken(spaceID string) (string, error)
}

// Clients builds draft and live scoped clients for a space. Draft clients
// read from the preview API so unpublished changes are visible; live clients
// read from the delivery API which only serves published content.
type Clients struct {
	DeliveryAPIURL string
	PreviewAPIURL  string

	credentials Credentials
	environment string
}

func NewClients(credentials Credentials, environment string) *Clients {
	return &Clients{
		DeliveryAPIURL: DeliveryAPIURL,
		PreviewAPIURL:  PreviewAPIURL,
		credentials:    credentials,
		environment:    environment,
	}
}

func (c *Clients) Draft(spaceID string) (Client, error) {
	accessToken, err := c.credentials.DraftAccessToken(spaceID)
	if err != nil {
		return nil, err
	}
	return NewClient(c.PreviewAPIURL, spaceID, c.environment, accessToken), nil
}

func (c *Clients) Live(spaceID string) (Client, error) {
	accessToken, err := c.credentials.LiveAccessToken(spaceID)
	if err != nil {
		return nil, err
	}
	return NewClient(c.DeliveryAPIURL, spaceID, c.environment, accessToken), nil
}

func (c *Clients) ConfiguredSpaces() []string {
	return c.credentials.ConfiguredSpaces()
}
