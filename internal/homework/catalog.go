package homework

import (
	"sort"

	"github.com/noahxzhu/homework-notify/internal/model"
)

var verdicts = map[model.Status]string{
	model.StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	model.StatusReviewing: "Работа взята на проверку ревьюером.",
	model.StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the display sentence for a review status.
func Verdict(status model.Status) (string, bool) {
	v, ok := verdicts[status]
	return v, ok
}

// Statuses lists the recognised review statuses in a stable order.
func Statuses() []model.Status {
	out := make([]model.Status, 0, len(verdicts))
	for s := range verdicts {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
