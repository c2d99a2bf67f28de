package proposals

import "strings"

// AddSkill appends skill unless it is already present.
func AddSkill(skills []string, skill string) []string {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return skills
	}
	for _, s := range skills {
		if s == skill {
			return skills
		}
	}
	out := make([]string, 0, len(skills)+1)
	out = append(out, skills...)
	return append(out, skill)
}

// RemoveSkill drops every occurrence of skill.
func RemoveSkill(skills []string, skill string) []string {
	skill = strings.TrimSpace(skill)
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s != skill {
			out = append(out, s)
		}
	}
	return out
}
