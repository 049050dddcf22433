package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultKeyVars are consulted in order when analysis.api_key_env is unset.
var DefaultKeyVars = []string{"GEMINI_API_KEY", "API_KEY"}

// LoadDotEnv reads KEY=value pairs from the given files into the process
// environment without overriding variables that are already set. With no
// arguments it reads ./.env. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// APIKey returns the model credential from the environment. The variable
// named by api_key_env wins; otherwise DefaultKeyVars are tried. An empty
// result means analysis runs in offline mode.
func (c AnalysisConfig) APIKey() string {
	return c.apiKey(os.Getenv)
}

func (c AnalysisConfig) apiKey(getenv func(string) string) string {
	vars := DefaultKeyVars
	if c.APIKeyEnv != "" {
		vars = []string{c.APIKeyEnv}
	}
	for _, name := range vars {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return v
		}
	}
	return ""
}
