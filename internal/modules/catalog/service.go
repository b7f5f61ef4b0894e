package catalog

import (
	"fmt"

	"homecrew/internal/domain"
)

// Service exposes the fixed vocabularies a booking form is built from.
type Service struct {
	catalog Response
}

func NewService() *Service {
	skills := make([]SkillEntry, 0, len(domain.Skills))
	for _, s := range domain.Skills {
		skills = append(skills, SkillEntry{
			ID:       string(s),
			Label:    s.Label(),
			Problems: append([]string(nil), domain.Problems[s]...),
		})
	}

	slots := make([]string, 0, len(domain.TimeSlots))
	for _, ts := range domain.TimeSlots {
		slots = append(slots, string(ts))
	}

	return &Service{catalog: Response{
		Skills:    skills,
		Cities:    append([]string(nil), domain.Cities...),
		TimeSlots: slots,
	}}
}

func (s *Service) Catalog() Response {
	return s.catalog
}

// Problems lists the problems for one skill.
func (s *Service) Problems(skill string) ([]string, error) {
	for _, e := range s.catalog.Skills {
		if e.ID == skill {
			return e.Problems, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown skill %q", domain.ErrValidation, skill)
}
