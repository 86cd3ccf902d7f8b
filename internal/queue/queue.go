package queue

import (
	"fmt"
	"sort"

	"github.com/abhisek/habitrpg/internal/domain"
)

// DefaultMaxItems bounds a queue when the caller does not.
const DefaultMaxItems = 12

// Source kinds recorded on queue items.
const (
	SourceActionUnit      = "action_unit"
	SourceLearningSession = "learning_session"
)

// Filter selects which tracks a queue draws from.
type Filter string

const (
	FilterMixed        Filter = "mixed"
	FilterLifeOnly     Filter = "life_only"
	FilterLearningOnly Filter = "learning_only"
)

// ParseFilter decodes a stored queue mode.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(s); f {
	case FilterMixed, FilterLifeOnly, FilterLearningOnly:
		return f, nil
	}
	return "", fmt.Errorf("unknown queue mode: %q", s)
}

// Item is a single entry in a Today Queue.
type Item struct {
	UnitID     string
	ParentID   string
	Title      string
	Track      domain.TrackType
	State      domain.LifecycleState
	Priority   int
	SourceKind string
}

// Score returns the item's rank score.
func (it Item) Score() int {
	return RankScore(it.State, it.Priority)
}

// stateWeights orders lifecycle states for ranking.
var stateWeights = map[domain.LifecycleState]int{
	domain.StateActive:              700,
	domain.StatePartial:             600,
	domain.StateReady:               500,
	domain.StateCheckpointCandidate: 450,
	domain.StateMissed:              400,
	domain.StatePaused:              300,
	domain.StateCompleted:           0,
}

// StateWeight returns the rank weight of a lifecycle state.
func StateWeight(s domain.LifecycleState) int {
	return stateWeights[s]
}

// RankScore is stateWeight(state) + priority.
func RankScore(s domain.LifecycleState, priority int) int {
	return StateWeight(s) + priority
}

// HigherPriority reports whether a ranks ahead of b: higher score first,
// then Life before Learning, then ascending id.
func HigherPriority(a, b Item) bool {
	sa, sb := a.Score(), b.Score()
	if sa != sb {
		return sa > sb
	}
	if a.Track != b.Track {
		return a.Track == domain.TrackLife
	}
	return a.UnitID < b.UnitID
}

// Service builds Today Queues. It never mutates its inputs.
type Service struct{}

// NewService creates a queue Service.
func NewService() *Service {
	return &Service{}
}

// Build returns up to maxItems pending items from actions and sessions
// ranked for the given filter. A non-positive maxItems yields an empty queue.
func (s *Service) Build(
	actions []domain.ActionUnit,
	sessions []domain.LearningSession,
	filter Filter,
	maxItems int,
) []Item {
	if maxItems <= 0 {
		return []Item{}
	}
	switch filter {
	case FilterLifeOnly:
		return truncate(LifeItems(actions), maxItems)
	case FilterLearningOnly:
		return truncate(LearningItems(sessions), maxItems)
	default:
		return ComposeMixed(LifeItems(actions), LearningItems(sessions), maxItems)
	}
}

// LifeItems returns the pending actions as ranked queue items.
func LifeItems(actions []domain.ActionUnit) []Item {
	items := make([]Item, 0, len(actions))
	for _, a := range actions {
		if !a.State.Pending() {
			continue
		}
		items = append(items, Item{
			UnitID:     a.ID,
			ParentID:   a.ParentID,
			Title:      a.Title,
			Track:      domain.TrackLife,
			State:      a.State,
			Priority:   a.Priority,
			SourceKind: SourceActionUnit,
		})
	}
	sortItems(items)
	return items
}

// LearningItems returns the pending sessions as ranked queue items.
func LearningItems(sessions []domain.LearningSession) []Item {
	items := make([]Item, 0, len(sessions))
	for _, ls := range sessions {
		if !ls.State.Pending() {
			continue
		}
		items = append(items, Item{
			UnitID:     ls.ID,
			ParentID:   ls.GoalID,
			Title:      ls.Title,
			Track:      domain.TrackLearning,
			State:      ls.State,
			Priority:   ls.Priority,
			SourceKind: SourceLearningSession,
		})
	}
	sortItems(items)
	return items
}

// ComposeMixed alternates between two ranked lists, starting with the
// track whose head ranks higher and falling back to the other track
// once one is exhausted.
func ComposeMixed(life, learning []Item, maxItems int) []Item {
	if maxItems <= 0 {
		return []Item{}
	}
	if len(life) == 0 {
		return truncate(learning, maxItems)
	}
	if len(learning) == 0 {
		return truncate(life, maxItems)
	}

	out := make([]Item, 0, min(maxItems, len(life)+len(learning)))
	lifeDue := HigherPriority(life[0], learning[0])
	li, ci := 0, 0
	for len(out) < maxItems && (li < len(life) || ci < len(learning)) {
		takeLife := lifeDue
		if takeLife && li >= len(life) {
			takeLife = false
		} else if !takeLife && ci >= len(learning) {
			takeLife = true
		}
		if takeLife {
			out = append(out, life[li])
			li++
		} else {
			out = append(out, learning[ci])
			ci++
		}
		lifeDue = !lifeDue
	}
	return out
}

func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return HigherPriority(items[i], items[j])
	})
}

func truncate(items []Item, n int) []Item {
	if len(items) > n {
		return items[:n]
	}
	return items
}
