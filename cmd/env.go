package cmd

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

const (
	EnvYear     = "IBTAX_YEAR"
	EnvJSONPath = "IBTAX_JSON_PATH"
	EnvModel    = "IBTAX_MODEL"
	EnvVerbose  = "IBTAX_VERBOSE"
)

// LoadEnv loads the .env file of the current directory, if any. Variables
// already set in the environment take precedence.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
