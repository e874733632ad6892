package importer

import (
	"strings"

	"github.com/esa-marseille/esa-manager/internal/app/models"
	"github.com/esa-marseille/esa-manager/internal/pkg/logger"
)

// SubjectCache resolves free-text subject lists to subject IDs. It is built
// once per import run: the subject table does not change during a run, so
// re-querying it per row would be wasted work.
type SubjectCache struct {
	byName map[string]int64
}

// NewSubjectCache indexes the given subjects by case-folded name.
func NewSubjectCache(subjects []*models.Subject) *SubjectCache {
	byName := make(map[string]int64, len(subjects))
	for _, s := range subjects {
		byName[strings.ToLower(s.Name)] = s.ID
	}
	return &SubjectCache{byName: byName}
}

// Resolve splits a comma-separated subject cell, trims each token and looks
// it up by case-insensitive exact name. Unmatched tokens are returned for
// warning, never treated as errors: the import must continue.
func (c *SubjectCache) Resolve(csvField string) (ids []int64, unmatched []string) {
	for _, token := range strings.Split(csvField, ",") {
		name := CleanText(token)
		if name == "" {
			continue
		}
		id, ok := c.byName[strings.ToLower(name)]
		if !ok {
			unmatched = append(unmatched, name)
			continue
		}
		ids = append(ids, id)
	}
	return ids, unmatched
}

// ResolveLogged resolves the field and logs a warning per unmatched token.
func (c *SubjectCache) ResolveLogged(csvField string, line int) []int64 {
	ids, unmatched := c.Resolve(csvField)
	for _, name := range unmatched {
		logger.Warn().Int("line", line).Str("subject", name).Msg("Unknown subject in CSV, skipped")
	}
	return ids
}
