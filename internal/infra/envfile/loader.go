// Package envfile reads dotenv files for the interpreter's environment.
package envfile

import (
	"fmt"

	"github.com/joho/godotenv"

	"github.com/orion-lang/orion/internal/domain"
)

// Ensure Loader implements domain.EnvLoader.
var _ domain.EnvLoader = (*Loader)(nil)

// Loader reads variables with godotenv. It never mutates the current process environment.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load returns the variables defined in path.
func (l *Loader) Load(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return vars, nil
}
