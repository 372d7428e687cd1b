// Package suggest produces draft text for new journal entries.
//
// The only implementation is a fixed template: there is no language model
// behind it. The Generator interface is the seam where one would go.
package suggest

import (
	"context"
	"fmt"
	"strings"
)

// Generator drafts entry text from a title and the author's tags.
type Generator interface {
	Generate(ctx context.Context, title string, tags []string) (string, error)
}

// DefaultTemplate renders the title and the comma-joined tags.
const DefaultTemplate = "Rascunho automático sobre \"%s\" relacionado às tags %s."

// TemplateGenerator fills a printf-style template with the title and tags.
type TemplateGenerator struct {
	template string
}

// NewTemplateGenerator returns a generator using DefaultTemplate.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{template: DefaultTemplate}
}

// Generate renders the template. Tags are joined with ", "; an empty list
// renders as an empty string.
func (g *TemplateGenerator) Generate(ctx context.Context, title string, tags []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf(g.template, title, strings.Join(tags, ", ")), nil
}
