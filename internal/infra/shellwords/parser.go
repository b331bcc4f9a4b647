// Package shellwords splits and quotes command lines with POSIX shell rules.
package shellwords

import (
	"fmt"

	"github.com/kballard/go-shellquote"

	"github.com/orion-lang/orion/internal/domain"
)

// Ensure Parser implements domain.CommandLineParser.
var _ domain.CommandLineParser = (*Parser)(nil)

// Parser wraps go-shellquote.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Split breaks line into words, honouring quotes and backslash escapes.
func (p *Parser) Split(line string) ([]string, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("split %q: %w", line, err)
	}
	return words, nil
}

// Join quotes args so that Split(Join(args...)) returns args.
func (p *Parser) Join(args ...string) string {
	return shellquote.Join(args...)
}
