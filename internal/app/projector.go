package app

import (
	"sort"

	"livequiz-service/internal/domain"
)

// leaderboardSize caps how many ranked rows a leaderboard view carries.
const leaderboardSize = 10

// leaderboardPalette is the fixed set of display colors. Rank r gets
// palette[r % len(palette)], so color assignment is a pure function of
// rank and two projections of the same state always agree.
var leaderboardPalette = []string{"#e21b3c", "#1368ce", "#ffa602", "#26890c", "#864cbf"}

func leaderboardColor(rank int) string {
	return leaderboardPalette[rank%len(leaderboardPalette)]
}

// ProjectHost derives the gamemaster's snapshot for the current phase.
func (s *Session) ProjectHost() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.state == domain.StatePreparation:
		return domain.Snapshot{Kind: domain.KindPreparation, Data: struct{}{}}

	case s.state == domain.StateLobby:
		names := make([]string, 0, len(s.players))
		for _, p := range s.players {
			names = append(names, p.Name)
		}
		return domain.Snapshot{Kind: domain.KindLobby, Data: domain.LobbyData{Players: names}}

	case s.state == domain.StateInProgress && s.current >= 0:
		switch s.qstate {
		case domain.QStateAsking:
			return domain.Snapshot{
				Kind: domain.KindQuestionHost,
				Data: domain.QuestionHostData{
					Question:    s.questionViewLocked(false),
					Submissions: s.submissionsLocked(s.questions[s.current].ID),
				},
			}
		case domain.QStateResults:
			return domain.Snapshot{
				Kind: domain.KindQuestionResultHost,
				Data: domain.QuestionHostData{
					Question:    s.questionViewLocked(true),
					Submissions: s.submissionsLocked(s.questions[s.current].ID),
				},
			}
		case domain.QStateLeaderboard:
			return domain.Snapshot{
				Kind: domain.KindLeaderboardHost,
				Data: domain.LeaderboardData{Entries: s.leaderboardLocked()},
			}
		}

	case s.state == domain.StateDone:
		return domain.Snapshot{
			Kind: domain.KindDoneHost,
			Data: domain.LeaderboardData{Entries: s.leaderboardLocked()},
		}
	}
	return domain.Snapshot{Kind: domain.KindNotReady, Data: struct{}{}}
}

// ProjectPlayer derives the snapshot a joined player sees. An empty
// playerID yields the identity-free projection used for the single
// broadcast on uniform transitions; per-player fields stay zeroed there
// and clients query their own state for the personalized view.
func (s *Session) ProjectPlayer(playerID string) domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.state == domain.StateInProgress && s.current >= 0:
		question := s.questions[s.current]
		answer, answered := s.answers[answerKey{playerID: playerID, questionID: question.ID}]
		var chosen *int
		if answered {
			c := answer.Option
			chosen = &c
		}

		switch s.qstate {
		case domain.QStateAsking:
			return domain.Snapshot{Kind: domain.KindQuestionPlayer, Data: domain.QuestionPlayerData{
				Question: s.questionViewLocked(false),
				Answered: answered,
				Chosen:   chosen,
			}}
		case domain.QStateResults:
			return domain.Snapshot{Kind: domain.KindQuestionResultPlayer, Data: domain.QuestionResultPlayerData{
				Question: s.questionViewLocked(true),
				Answered: answered,
				Chosen:   chosen,
				Awarded:  answer.Points,
			}}
		case domain.QStateLeaderboard:
			return domain.Snapshot{Kind: domain.KindLeaderboardPlayer, Data: domain.LeaderboardPlayerData{
				Entries: s.leaderboardLocked(),
				Total:   s.totalLocked(playerID),
			}}
		}

	case s.state == domain.StateDone:
		return domain.Snapshot{Kind: domain.KindDonePlayer, Data: domain.DonePlayerData{
			Total: s.totalLocked(playerID),
		}}
	}
	return domain.Snapshot{Kind: domain.KindNotReady, Data: struct{}{}}
}

// questionViewLocked renders the current question. Result views reveal
// the correct option and the zero-filled answer histogram; asking views
// keep both hidden.
func (s *Session) questionViewLocked(reveal bool) domain.QuestionView {
	q := s.questions[s.current]
	view := domain.QuestionView{
		ID:       q.ID,
		Ordinal:  q.Ordinal,
		Text:     q.Text,
		Options:  q.Options,
		Duration: q.Duration,
	}
	if reveal {
		correct := q.Correct
		view.Correct = &correct
		view.Histogram = s.histogramLocked(q)
	}
	return view
}

// histogramLocked counts submissions per option, option order preserved.
func (s *Session) histogramLocked(q domain.Question) []int {
	counts := make([]int, len(q.Options))
	for key, a := range s.answers {
		if key.questionID == q.ID && a.Option >= 0 && a.Option < len(counts) {
			counts[a.Option]++
		}
	}
	return counts
}

func (s *Session) submissionsLocked(questionID string) int {
	n := 0
	for key := range s.answers {
		if key.questionID == questionID {
			n++
		}
	}
	return n
}

// leaderboardLocked ranks players by total points. The sort is stable
// over join order, so ties resolve deterministically.
func (s *Session) leaderboardLocked() []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(s.players))
	for _, p := range s.players {
		entries = append(entries, domain.LeaderboardEntry{
			PlayerID: p.ID,
			Name:     p.Name,
			Score:    s.totalLocked(p.ID),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > leaderboardSize {
		entries = entries[:leaderboardSize]
	}
	for i := range entries {
		entries[i].Color = leaderboardColor(i)
	}
	return entries
}
