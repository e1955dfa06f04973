package quiz

import (
	"fmt"
	"math"
	"sort"
)

const NotAvailable = "N/A"

// UserStat is one row of the results overview.
type UserStat struct {
	Serial        int    `json:"serial"`
	Name          string `json:"name"`
	Username      string `json:"userId"`
	TotalAttempts int    `json:"totalAttempts"`
	LastAttemptAt int64  `json:"lastAttemptAt,omitempty"` // epoch ms, 0 when none
	LastRatio     string `json:"lastRatio"`               // "80%" or "N/A"
}

// UserStats summarizes attempts for every non-admin user, in user order.
func UserStats(users []User, results []QuizResult) []UserStat {
	byUser := map[string][]QuizResult{}
	for _, r := range results {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}

	out := []UserStat{}
	for _, u := range users {
		if u.Role == RoleAdmin {
			continue
		}
		rs := byUser[u.ID]
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Timestamp > rs[j].Timestamp })

		st := UserStat{
			Serial:        len(out) + 1,
			Name:          u.Name,
			Username:      u.Username,
			TotalAttempts: len(rs),
			LastRatio:     NotAvailable,
		}
		if len(rs) > 0 {
			st.LastAttemptAt = rs[0].Timestamp
			st.LastRatio = Ratio(rs[0])
		}
		out = append(out, st)
	}
	return out
}

// Ratio renders correct/total as a rounded percentage.
func Ratio(r QuizResult) string {
	if r.TotalQuestions <= 0 {
		return "0%"
	}
	pct := math.Round(float64(r.CorrectAnswers) / float64(r.TotalQuestions) * 100)
	return fmt.Sprintf("%d%%", int(pct))
}
