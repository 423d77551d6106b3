package services

import (
	"context"
	"fmt"
	"strings"

	"teamwork/internal/models"
	"teamwork/internal/repositories"
)

// NormalizeSkills splits comma separated text into canonical tags: trimmed,
// lower-cased, non-empty and unique, in order of first appearance.
func NormalizeSkills(raw string) []string {
	seen := map[string]bool{}
	var tags []string
	for _, segment := range strings.Split(raw, ",") {
		tag := strings.ToLower(strings.TrimSpace(segment))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// SkillRegistry maps canonical tags onto the shared skill vocabulary.
type SkillRegistry struct {
	skills repositories.SkillStore
}

func NewSkillRegistry(skills repositories.SkillStore) *SkillRegistry {
	return &SkillRegistry{skills: skills}
}

// RegisterAll returns the skill for every tag, creating missing ones.
// Calling it again with the same tags yields the same skills.
func (r *SkillRegistry) RegisterAll(ctx context.Context, tags []string) ([]models.Skill, error) {
	skills := make([]models.Skill, 0, len(tags))
	seen := map[string]bool{}
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true

		skill, err := r.skills.GetOrCreate(ctx, tag)
		if err != nil {
			return nil, fmt.Errorf("failed to register skill %q: %w", tag, err)
		}
		skills = append(skills, *skill)
	}
	return skills, nil
}
