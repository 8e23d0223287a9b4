package service

import (
	"math"
	"sort"
	"strings"

	"career-compass/internal/domain"
)

// ComputeGapReport compara los required skills del rol objetivo contra
// las habilidades del usuario y emite una entrada por skill requerido,
// en el orden del catálogo. El lookup es por nombre exacto en minúsculas;
// nada de matching difuso.
//
// Política para targetLevel <= 0: el porcentaje cae a 0 en vez de
// propagar una división por cero. El porcentaje se acota a [0, 100]
// aunque el nivel actual supere al objetivo.
func ComputeGapReport(requiredSkills []string, userSkills map[string]domain.SkillLevel) []domain.GapEntry {
	if len(requiredSkills) == 0 {
		return []domain.GapEntry{}
	}

	entries := make([]domain.GapEntry, 0, len(requiredSkills))
	for _, name := range requiredSkills {
		level, ok := userSkills[strings.ToLower(name)]
		if !ok {
			entries = append(entries, domain.GapEntry{
				SkillName:  name,
				Status:     domain.GapStatusMissing,
				Percentage: 0,
				HasSkill:   false,
			})
			continue
		}

		percentage := gapPercentage(level.CurrentLevel, level.TargetLevel)
		status := domain.GapStatusStrong
		if percentage < 50 {
			status = domain.GapStatusImprovement
		}

		entries = append(entries, domain.GapEntry{
			SkillName:  name,
			Status:     status,
			Percentage: percentage,
			HasSkill:   true,
		})
	}

	return entries
}

func gapPercentage(current, target int) int {
	if target <= 0 {
		return 0
	}
	pct := int(math.Round(float64(current) / float64(target) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// SortGapEntries ordena una copia del reporte para presentación: missing
// primero, luego improvement y strong ascendiendo por porcentaje. El
// orden es estable, así los empates conservan el orden del catálogo.
func SortGapEntries(entries []domain.GapEntry) []domain.GapEntry {
	sorted := make([]domain.GapEntry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := gapStatusRank(sorted[i].Status), gapStatusRank(sorted[j].Status)
		if ri != rj {
			return ri < rj
		}
		return sorted[i].Percentage < sorted[j].Percentage
	})

	return sorted
}

func gapStatusRank(status string) int {
	switch status {
	case domain.GapStatusMissing:
		return 0
	case domain.GapStatusImprovement:
		return 1
	default:
		return 2
	}
}
