package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is loaded when present unless --env-file names another file
const DefaultEnvFile = ".env"

// LoadEnv loads environment variables from the file named by --env-file in args, or from
// DefaultEnvFile. It must run before flags are parsed so RAYTRACER_* variables from the file
// reach flag defaults. Variables already set in the environment are not overridden.
func LoadEnv(args []string) error {
	path, explicit := envFileFromArgs(args)
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	logger.Debugf("loaded environment from %s", path)
	return nil
}

// envFileFromArgs finds --env-file among the global arguments
func envFileFromArgs(args []string) (string, bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		for _, prefix := range []string{"--env-file", "-env-file"} {
			if arg == prefix && i+1 < len(args) {
				return args[i+1], true
			}
			if value, ok := strings.CutPrefix(arg, prefix+"="); ok {
				return value, true
			}
		}
	}
	return DefaultEnvFile, false
}
