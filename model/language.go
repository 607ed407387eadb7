package model

import "sort"

// RepositoryRef identifies one repository to fetch languages from
type RepositoryRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

func (r RepositoryRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// LanguageByteMap is the number of bytes per language for a single repository
type LanguageByteMap map[string]int64

// SortedNames returns the languages by descending bytes then by name,
// which is the order Github uses when returning the languages of a repository
func (m LanguageByteMap) SortedNames() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		if m[names[i]] != m[names[j]] {
			return m[names[i]] > m[names[j]]
		}

		return names[i] < names[j]
	})

	return names
}

// LanguageTotals accumulates bytes per language across repositories
// the order in which languages are first seen is kept to break ties when ranking
type LanguageTotals struct {
	bytes map[string]int64
	order []string
}

func NewLanguageTotals() *LanguageTotals {
	return &LanguageTotals{bytes: make(map[string]int64)}
}

// Add merges every language of a repository into the totals
func (t *LanguageTotals) Add(languages LanguageByteMap) {
	for _, name := range languages.SortedNames() {
		if _, found := t.bytes[name]; !found {
			t.order = append(t.order, name)
		}

		t.bytes[name] += languages[name]
	}
}

// Names returns the languages in accumulation order
func (t *LanguageTotals) Names() []string {
	return append([]string(nil), t.order...)
}

func (t *LanguageTotals) Bytes(name string) int64 {
	return t.bytes[name]
}

func (t *LanguageTotals) TotalBytes() int64 {
	var total int64
	for _, b := range t.bytes {
		total += b
	}

	return total
}

func (t *LanguageTotals) Len() int {
	return len(t.order)
}

// RankedLanguage is a language with its share of all bytes, rounded to an integer percentage
type RankedLanguage struct {
	Name       string `json:"name"`
	Bytes      int64  `json:"bytes"`
	Percentage int    `json:"percentage"`
}

// OtherPercentage is the share not covered by the given top languages
// independent rounding can make the top languages sum above 100, so the result is floored at 0
func OtherPercentage(top []RankedLanguage) int {
	other := 100
	for _, l := range top {
		other -= l.Percentage
	}

	if other < 0 {
		return 0
	}

	return other
}
