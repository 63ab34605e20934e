package corpus

import (
	"sort"
	"strings"
	"time"

	"github.com/jonathan/techcareer-analyzer/internal/registry"
)

// requiredSkillCutoff is the fraction of a role's postings a skill must
// appear in to count as required for that role.
const requiredSkillCutoff = 0.25

// SalarySample is one observed salary together with where it was posted.
type SalarySample struct {
	Salary   float64
	Location string
}

// RoleProfile is the aggregated skill and salary signature of one role.
type RoleProfile struct {
	Name           string
	Key            string
	RequiredSkills []registry.Skill   // sorted by importance, descending
	Importance     map[string]float64 // skill ID -> importance weight
	TotalWeight    float64            // sum of Importance values
	BaseSalary     float64
	AvgSalary      float64
	SampleCount    int
	Salaries       []float64               // observed salaries, ascending
	SalarySamples  []SalarySample          // observed salaries with locations
	SalaryByMonth  map[time.Time][]float64 // observed salaries per month bucket
}

// SalariesIn returns the ascending observed salaries whose posting location
// contains the query, case-insensitively. An empty query returns all
// observed salaries.
func (p *RoleProfile) SalariesIn(location string) []float64 {
	q := strings.ToLower(strings.TrimSpace(location))
	if q == "" {
		return p.Salaries
	}
	var out []float64
	for _, s := range p.SalarySamples {
		if strings.Contains(strings.ToLower(s.Location), q) {
			out = append(out, s.Salary)
		}
	}
	sort.Float64s(out)
	return out
}

// Percentile positions a salary within the role's observed distribution,
// as a percentage of observations strictly below it. Returns ok=false when
// no salaries were observed.
func (p *RoleProfile) Percentile(salary float64) (float64, bool) {
	if len(p.Salaries) == 0 {
		return 0, false
	}
	below := sort.SearchFloat64s(p.Salaries, salary)
	return float64(below) / float64(len(p.Salaries)) * 100, true
}

// Index is an immutable snapshot derived from the full posting corpus.
// All maps and slices belong to the snapshot; consumers must not mutate them.
type Index struct {
	BuiltAt      time.Time
	PostingCount int
	SkillCounts  map[string][]MonthCount // skill ID -> contiguous monthly series
	Roles        map[string]*RoleProfile // role key -> profile
	roleList     []*RoleProfile          // sorted by name for determinism
}

// Build derives a fresh index from raw postings. Posting skills are resolved
// through the registry; anything unresolvable is dropped rather than indexed
// under a raw string.
func Build(postings []Posting, reg *registry.Registry, now time.Time) *Index {
	ix := &Index{
		BuiltAt:      now,
		PostingCount: len(postings),
		SkillCounts:  make(map[string][]MonthCount),
		Roles:        make(map[string]*RoleProfile),
	}

	type roleAgg struct {
		profile   *RoleProfile
		skillFreq map[string]int
		postings  int
		salarySum float64
		salaryN   int
	}

	skillMonths := make(map[string]map[time.Time]int)
	roles := make(map[string]*roleAgg)

	for _, p := range postings {
		month := monthOf(p.PostedAt)

		key := registry.NormalizeKey(p.RoleName)
		if key == "" {
			continue
		}
		agg, ok := roles[key]
		if !ok {
			agg = &roleAgg{
				profile: &RoleProfile{
					Name:          strings.TrimSpace(p.RoleName),
					Key:           key,
					Importance:    make(map[string]float64),
					SalaryByMonth: make(map[time.Time][]float64),
				},
				skillFreq: make(map[string]int),
			}
			roles[key] = agg
		}
		agg.postings++

		for _, raw := range p.Skills {
			s, ok := reg.Resolve(raw)
			if !ok {
				continue
			}
			agg.skillFreq[s.ID]++
			buckets, ok := skillMonths[s.ID]
			if !ok {
				buckets = make(map[time.Time]int)
				skillMonths[s.ID] = buckets
			}
			buckets[month]++
		}

		if p.Salary > 0 {
			agg.salarySum += p.Salary
			agg.salaryN++
			agg.profile.Salaries = append(agg.profile.Salaries, p.Salary)
			agg.profile.SalarySamples = append(agg.profile.SalarySamples, SalarySample{
				Salary:   p.Salary,
				Location: p.Location,
			})
			agg.profile.SalaryByMonth[month] = append(agg.profile.SalaryByMonth[month], p.Salary)
		}
	}

	for key, agg := range roles {
		prof := agg.profile
		prof.SampleCount = agg.postings
		if agg.salaryN > 0 {
			prof.AvgSalary = agg.salarySum / float64(agg.salaryN)
			sort.Float64s(prof.Salaries)
			// Entry-level base: the experience-independent component of
			// the role's pay, below the observed average.
			prof.BaseSalary = 0.8 * prof.AvgSalary
		}

		cutoff := float64(agg.postings) * requiredSkillCutoff
		for id, freq := range agg.skillFreq {
			if float64(freq) < cutoff {
				continue
			}
			s, _ := reg.Get(id)
			// Importance blends how often the corpus demands the skill for
			// this role with the skill's overall market weight.
			imp := (float64(freq) / float64(agg.postings)) * s.Weight
			prof.Importance[id] = imp
			prof.TotalWeight += imp
			prof.RequiredSkills = append(prof.RequiredSkills, s)
		}
		sort.Slice(prof.RequiredSkills, func(i, j int) bool {
			a, b := prof.RequiredSkills[i], prof.RequiredSkills[j]
			if prof.Importance[a.ID] != prof.Importance[b.ID] {
				return prof.Importance[a.ID] > prof.Importance[b.ID]
			}
			return a.Name < b.Name
		})

		ix.Roles[key] = prof
		ix.roleList = append(ix.roleList, prof)
	}
	sort.Slice(ix.roleList, func(i, j int) bool { return ix.roleList[i].Name < ix.roleList[j].Name })

	for id, buckets := range skillMonths {
		ix.SkillCounts[id] = contiguousSeries(buckets)
	}

	return ix
}

// contiguousSeries turns a sparse month->count map into an ordered series
// with zero-filled gaps, so forecasting sees a regular monthly cadence.
func contiguousSeries(buckets map[time.Time]int) []MonthCount {
	if len(buckets) == 0 {
		return nil
	}
	var first, last time.Time
	for m := range buckets {
		if first.IsZero() || m.Before(first) {
			first = m
		}
		if last.IsZero() || m.After(last) {
			last = m
		}
	}
	var series []MonthCount
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		series = append(series, MonthCount{Month: m, Count: buckets[m]})
	}
	return series
}

// RoleProfiles returns all role profiles sorted by name.
func (ix *Index) RoleProfiles() []*RoleProfile {
	return ix.roleList
}

// Role finds a profile by role name. Exact normalized match wins; otherwise
// the first profile (in name order) whose key contains the queried key is
// returned, mirroring the substring lookups the dashboard issues.
func (ix *Index) Role(name string) (*RoleProfile, bool) {
	key := registry.NormalizeKey(name)
	if key == "" {
		return nil, false
	}
	if prof, ok := ix.Roles[key]; ok {
		return prof, true
	}
	for _, prof := range ix.roleList {
		if strings.Contains(prof.Key, key) {
			return prof, true
		}
	}
	return nil, false
}

// SkillSeries returns the monthly posting-count series for a skill.
func (ix *Index) SkillSeries(skillID string) []MonthCount {
	return ix.SkillCounts[skillID]
}

// CountInWindow sums a skill's posting counts over [from, to).
// Boundaries are expected to be month-aligned.
func (ix *Index) CountInWindow(skillID string, from, to time.Time) int {
	total := 0
	for _, mc := range ix.SkillCounts[skillID] {
		end := mc.Month.AddDate(0, 1, 0)
		if end.After(from) && mc.Month.Before(to) {
			total += mc.Count
		}
	}
	return total
}
