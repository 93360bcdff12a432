package app_test

import (
	"testing"
	"time"

	"livequiz-service/internal/domain"
)

func TestHostProjectionPerPhase(t *testing.T) {
	s, _ := newTestSession(testQuestions())

	if snap := s.ProjectHost(); snap.Kind != domain.KindPreparation {
		t.Fatalf("expected preparation view, got %q", snap.Kind)
	}

	s.Advance()
	s.Join(domain.Identity{UserID: "u1"}, "Alice")
	s.Join(domain.Identity{UserID: "u2"}, "Bob")
	snap := s.ProjectHost()
	if snap.Kind != domain.KindLobby {
		t.Fatalf("expected lobby view, got %q", snap.Kind)
	}
	lobby := snap.Data.(domain.LobbyData)
	if len(lobby.Players) != 2 || lobby.Players[0] != "Alice" || lobby.Players[1] != "Bob" {
		t.Fatalf("expected players in join order, got %v", lobby.Players)
	}

	s.Advance()
	snap = s.ProjectHost()
	if snap.Kind != domain.KindQuestionHost {
		t.Fatalf("expected question view, got %q", snap.Kind)
	}
	asking := snap.Data.(domain.QuestionHostData)
	if asking.Question.Correct != nil || asking.Question.Histogram != nil {
		t.Fatalf("asking view must not reveal the answer: %+v", asking.Question)
	}

	s.Advance()
	snap = s.ProjectHost()
	if snap.Kind != domain.KindQuestionResultHost {
		t.Fatalf("expected question result view, got %q", snap.Kind)
	}
	result := snap.Data.(domain.QuestionHostData)
	if result.Question.Correct == nil || *result.Question.Correct != 1 {
		t.Fatalf("result view must reveal the correct option: %+v", result.Question)
	}

	s.Advance()
	if snap = s.ProjectHost(); snap.Kind != domain.KindLeaderboardHost {
		t.Fatalf("expected leaderboard view, got %q", snap.Kind)
	}
}

func TestResultHistogramZeroFilled(t *testing.T) {
	s, _ := newTestSession(testQuestions())
	s.Advance()
	alice := s.Join(domain.Identity{UserID: "u1"}, "Alice")
	bob := s.Join(domain.Identity{UserID: "u2"}, "Bob")
	carol := s.Join(domain.Identity{UserID: "u3"}, "Carol")
	s.Advance() // asking q1 (2 options)

	s.SubmitAnswer(alice.PlayerID, "q1", 1)
	s.SubmitAnswer(bob.PlayerID, "q1", 1)
	s.SubmitAnswer(carol.PlayerID, "q1", 0)

	asking := s.ProjectHost().Data.(domain.QuestionHostData)
	if asking.Submissions != 3 {
		t.Fatalf("expected 3 submissions counted, got %d", asking.Submissions)
	}

	s.Advance() // results

	result := s.ProjectHost().Data.(domain.QuestionHostData)
	hist := result.Question.Histogram
	if len(hist) != 2 || hist[0] != 1 || hist[1] != 2 {
		t.Fatalf("expected histogram [1 2], got %v", hist)
	}
}

func TestResultHistogramCountsOnlySubmissions(t *testing.T) {
	s, _ := newTestSession(testQuestions())
	s.Advance()
	s.Join(domain.Identity{UserID: "u1"}, "Alice")
	s.Advance() // asking, nobody answers
	s.Advance() // results

	result := s.ProjectHost().Data.(domain.QuestionHostData)
	if hist := result.Question.Histogram; len(hist) != 2 || hist[0] != 0 || hist[1] != 0 {
		t.Fatalf("expected zero-filled histogram, got %v", hist)
	}
}

func TestLeaderboardOrderAndColorsAreDeterministic(t *testing.T) {
	questions := []domain.Question{
		{ID: "q1", Text: "?", Options: []string{"a", "b"}, Correct: 1, Points: 30},
		{ID: "q2", Text: "?", Options: []string{"a", "b"}, Correct: 0, Points: 10},
	}
	s, _ := newTestSession(questions)
	s.Advance()
	a := s.Join(domain.Identity{UserID: "a"}, "A")
	b := s.Join(domain.Identity{UserID: "b"}, "B")
	c := s.Join(domain.Identity{UserID: "c"}, "C")
	s.Advance() // asking q1

	// C answers first but scores nothing; ties break by join order.
	s.SubmitAnswer(c.PlayerID, "q1", 0)
	s.SubmitAnswer(b.PlayerID, "q1", 1)
	s.SubmitAnswer(a.PlayerID, "q1", 1)
	s.Advance() // results
	s.Advance() // leaderboard
	s.Advance() // asking q2
	s.SubmitAnswer(c.PlayerID, "q2", 0)
	s.Advance() // results
	s.Advance() // leaderboard

	entries := s.ProjectHost().Data.(domain.LeaderboardData).Entries
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	wantNames := []string{"A", "B", "C"}
	wantScores := []int{30, 30, 10}
	wantColors := []string{"#e21b3c", "#1368ce", "#ffa602"}
	for i, e := range entries {
		if e.Name != wantNames[i] || e.Score != wantScores[i] || e.Color != wantColors[i] {
			t.Fatalf("rank %d: got %+v, want name=%s score=%d color=%s",
				i, e, wantNames[i], wantScores[i], wantColors[i])
		}
	}
}

func TestLeaderboardColorsCycle(t *testing.T) {
	s, _ := newTestSession(testQuestions())
	s.Advance()
	for _, name := range []string{"P1", "P2", "P3", "P4", "P5", "P6"} {
		s.Join(domain.Identity{UserID: name}, name)
	}
	s.Advance() // asking
	s.Advance() // results
	s.Advance() // leaderboard

	entries := s.ProjectHost().Data.(domain.LeaderboardData).Entries
	if len(entries) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(entries))
	}
	if entries[5].Color != entries[0].Color {
		t.Fatalf("expected palette to cycle after 5 colors: %q vs %q", entries[5].Color, entries[0].Color)
	}
	// all scores are zero, so join order is the ranking
	if entries[0].Name != "P1" || entries[5].Name != "P6" {
		t.Fatalf("expected stable join-order ranking, got %v", entries)
	}
}

func TestPlayerProjectionTracksOwnAnswer(t *testing.T) {
	s, clock := newTestSession(testQuestions())
	s.Advance()
	alice := s.Join(domain.Identity{UserID: "u1"}, "Alice")
	bob := s.Join(domain.Identity{UserID: "u2"}, "Bob")
	s.Advance() // asking q1

	clock.Tick(30 * time.Second)
	s.SubmitAnswer(alice.PlayerID, "q1", 1)

	snap := s.ProjectPlayer(alice.PlayerID)
	if snap.Kind != domain.KindQuestionPlayer {
		t.Fatalf("expected question_player, got %q", snap.Kind)
	}
	mine := snap.Data.(domain.QuestionPlayerData)
	if !mine.Answered || mine.Chosen == nil || *mine.Chosen != 1 {
		t.Fatalf("expected alice's own answer reflected, got %+v", mine)
	}
	theirs := s.ProjectPlayer(bob.PlayerID).Data.(domain.QuestionPlayerData)
	if theirs.Answered || theirs.Chosen != nil {
		t.Fatalf("bob has not answered, got %+v", theirs)
	}

	s.Advance() // results
	res := s.ProjectPlayer(alice.PlayerID)
	if res.Kind != domain.KindQuestionResultPlayer {
		t.Fatalf("expected question_result_player, got %q", res.Kind)
	}
	data := res.Data.(domain.QuestionResultPlayerData)
	if data.Awarded != 75 {
		t.Fatalf("expected 75 points at half time, got %d", data.Awarded)
	}

	s.Advance() // leaderboard
	lb := s.ProjectPlayer(alice.PlayerID).Data.(domain.LeaderboardPlayerData)
	if lb.Total != 75 {
		t.Fatalf("expected running total 75, got %d", lb.Total)
	}
}

func TestDoneProjections(t *testing.T) {
	s, _ := newTestSession([]domain.Question{
		{ID: "q1", Text: "?", Options: []string{"a", "b"}, Correct: 1, Points: 100},
	})
	s.Advance()
	alice := s.Join(domain.Identity{UserID: "u1"}, "Alice")
	s.Advance()
	s.SubmitAnswer(alice.PlayerID, "q1", 1)
	s.Advance()
	s.Advance()
	s.Advance() // done

	host := s.ProjectHost()
	if host.Kind != domain.KindDoneHost {
		t.Fatalf("expected done_host, got %q", host.Kind)
	}
	player := s.ProjectPlayer(alice.PlayerID)
	if player.Kind != domain.KindDonePlayer {
		t.Fatalf("expected done_player, got %q", player.Kind)
	}
	if total := player.Data.(domain.DonePlayerData).Total; total != 100 {
		t.Fatalf("expected final total 100, got %d", total)
	}
}
