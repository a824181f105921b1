package checks

import (
	"slices"
	"strings"
	"sync"

	"cruft.dev/pkg/cruft/internal/adapter"
)

func stringSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}

	return set
}

// unusedSet tracks values never seen during a scan. Workers remove entries
// concurrently; the remainder is read once by FinishCheck.
type unusedSet struct {
	m sync.Map
}

func newUnusedSet(items []string) *unusedSet {
	s := &unusedSet{}
	for _, item := range items {
		s.m.Store(item, struct{}{})
	}

	return s
}

func (s *unusedSet) Remove(item string) {
	s.m.Delete(item)
}

func (s *unusedSet) Sorted() []string {
	var out []string

	s.m.Range(func(key, _ any) bool {
		out = append(out, key.(string))
		return true
	})

	slices.Sort(out)

	return out
}

func joinSorted(items []string, sep string) string {
	sorted := slices.Clone(items)
	slices.Sort(sorted)

	return strings.Join(slices.Compact(sorted), sep)
}

// ownValues drops the values one of the repository's masters also declares.
func ownValues(repo adapter.Repo, values []string, of func(*adapter.RepoConfig) []string) []string {
	inherited := map[string]bool{}
	for _, master := range repo.Masters() {
		for _, v := range of(master.Config()) {
			inherited[v] = true
		}
	}

	var out []string

	for _, v := range values {
		if !inherited[v] {
			out = append(out, v)
		}
	}

	return out
}
