package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL  string
	PlayerFile string
	Output     string

	// Stored player identity, loaded from PlayerFile
	PlayerID string
	Username string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  getEnvOrDefault("QUIZRACE_SERVER", "http://localhost:8080"),
		PlayerFile: getEnvOrDefault("QUIZRACE_PLAYER_FILE", defaultPlayerFile()),
		Output:     "text",
	}
}

// storedPlayer is the on-disk identity format
type storedPlayer struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
}

// LoadPlayer loads the player identity from file if present
func (c *Config) LoadPlayer() error {
	data, err := os.ReadFile(c.PlayerFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Not joined yet is fine
		}
		return err
	}

	var p storedPlayer
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	c.PlayerID = p.PlayerID
	c.Username = p.Username
	return nil
}

// SavePlayer saves the player identity to the player file
func (c *Config) SavePlayer(playerID, username string) error {
	c.PlayerID = playerID
	c.Username = username

	data, err := json.Marshal(storedPlayer{PlayerID: playerID, Username: username})
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.PlayerFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.PlayerFile, data, 0600)
}

func defaultPlayerFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".quizrace/player"
	}
	return filepath.Join(home, ".quizrace", "player")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
