package config

import (
	"fmt"
	"io/ioutil"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// SpaceCredentials are the draft and live tokens for a single Contentful
// space.
type SpaceCredentials struct {
	SpaceID          string `yaml:"space_id"`
	DraftAccessToken string `yaml:"draft_access_token"`
	LiveAccessToken  string `yaml:"live_access_token"`
}

// AccessTokens holds the per-space Contentful credentials. Like the content
// config it is loaded once and read-only afterwards.
type AccessTokens struct {
	entries []SpaceCredentials
}

// LoadAccessTokens reads the credential table from a YAML file. ${VAR}
// references in the file are expanded from the environment so tokens can be
// kept out of the file itself.
func LoadAccessTokens(path string) (*AccessTokens, error) {
	contents, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read access tokens %s: %v", path, err)
	}

	expanded := os.ExpandEnv(string(contents))

	var entries []SpaceCredentials
	if err := yaml.Unmarshal([]byte(expanded), &entries); err != nil {
		return nil, fmt.Errorf("could not parse access tokens %s: %v", path, err)
	}

	return &AccessTokens{entries: entries}, nil
}

func NewAccessTokens(entries []SpaceCredentials) *AccessTokens {
	return &AccessTokens{entries: entries}
}

func (at *AccessTokens) ConfiguredSpaces() []string {
	spaces := make([]string, 0, len(at.entries))
	for _, entry := range at.entries {
		spaces = append(spaces, entry.SpaceID)
	}
	return spaces
}

func (at *AccessTokens) DraftAccessToken(spaceID string) (string, error) {
	entry, err := at.find(spaceID)
	if err != nil {
		return "", err
	}
	return entry.DraftAccessToken, nil
}

func (at *AccessTokens) LiveAccessToken(spaceID string) (string, error) {
	entry, err := at.find(spaceID)
	if err != nil {
		return "", err
	}
	return entry.LiveAccessToken, nil
}

func (at *AccessTokens) find(spaceID string) (SpaceCredentials, error) {
	for _, entry := range at.entries {
		if entry.SpaceID == spaceID {
			return entry, nil
		}
	}
	return SpaceCredentials{}, fmt.Errorf("no access token configuration for space: %s", spaceID)
}
