package config

// NewAppConfigForTest creates an AppConfig for testing purposes
func NewAppConfigForTest(path string) *AppConfig {
	return &AppConfig{path: path}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID, databaseID string) *Repository {
	return &Repository{
		backend:    backend,
		projectID:  projectID,
		databaseID: databaseID,
	}
}

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(oauthToken, channelID string) *Slack {
	return &Slack{
		oauthToken: oauthToken,
		channelID:  channelID,
	}
}
