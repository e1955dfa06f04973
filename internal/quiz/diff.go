package quiz

import "reflect"

// ChangedSets returns the sets in after that are new or differ from before.
func ChangedSets(before, after []QuestionSet) []QuestionSet {
	prev := make(map[string]QuestionSet, len(before))
	for _, s := range before {
		prev[s.ID] = s
	}
	var out []QuestionSet
	for _, s := range after {
		if p, ok := prev[s.ID]; !ok || !reflect.DeepEqual(p, s) {
			out = append(out, s)
		}
	}
	return out
}

// ChangedUsers is ChangedSets for users.
func ChangedUsers(before, after []User) []User {
	prev := make(map[string]User, len(before))
	for _, u := range before {
		prev[u.ID] = u
	}
	var out []User
	for _, u := range after {
		if p, ok := prev[u.ID]; !ok || p != u {
			out = append(out, u)
		}
	}
	return out
}
