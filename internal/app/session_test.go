package app_test

import (
	"testing"
	"time"

	"livequiz-service/internal/app"
	"livequiz-service/internal/domain"
)

func testQuestions() []domain.Question {
	return []domain.Question{
		{ID: "q1", Text: "First?", Options: []string{"a", "b"}, Correct: 1, Points: 100, Duration: 60},
		{ID: "q2", Text: "Second?", Options: []string{"x", "y", "z"}, Correct: 0, Points: 100, Duration: 60},
	}
}

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time       { return c.t }
func (c *fakeClock) Tick(d time.Duration) { c.t = c.t.Add(d) }

func newTestSession(questions []domain.Question) (*app.Session, *fakeClock) {
	clock := newFakeClock()
	s := app.NewSessionWithClock("game-1", clock.Now)
	s.Reset(questions)
	return s, clock
}

func TestAdvanceWalksEveryPhase(t *testing.T) {
	s, clock := newTestSession(testQuestions())

	if !s.IsInPreparation() {
		t.Fatalf("expected fresh session in preparation")
	}
	if res := s.Advance(); !res.Uniform || !s.IsInLobby() {
		t.Fatalf("expected uniform transition to lobby")
	}

	if res := s.Advance(); !res.Uniform || !s.IsInProgress() || !s.IsAsking() {
		t.Fatalf("expected uniform transition to asking")
	}
	if id, ok := s.CurrentQuestionID(); !ok || id != "q1" {
		t.Fatalf("expected q1 current, got %q ok=%v", id, ok)
	}

	if res := s.Advance(); !res.Uniform || !s.IsShowingResults() {
		t.Fatalf("expected uniform transition to results")
	}
	if id, _ := s.CurrentQuestionID(); id != "q1" {
		t.Fatalf("results must keep the same question, got %q", id)
	}
	if res := s.Advance(); !res.Uniform || !s.IsShowingLeaderboard() {
		t.Fatalf("expected uniform transition to leaderboard")
	}

	clock.Tick(time.Minute)
	if res := s.Advance(); !res.Uniform || !s.IsAsking() {
		t.Fatalf("expected uniform transition to next question's asking")
	}
	if id, _ := s.CurrentQuestionID(); id != "q2" {
		t.Fatalf("expected q2 current, got %q", id)
	}

	s.Advance() // results
	s.Advance() // leaderboard
	if res := s.Advance(); res.Uniform || !s.IsDone() {
		t.Fatalf("expected non-uniform transition to done on last question")
	}
	if _, ok := s.CurrentQuestionID(); ok {
		t.Fatalf("done session must have no current question")
	}

	// advancing a finished game is a no-op
	if res := s.Advance(); res.Uniform || !s.IsDone() {
		t.Fatalf("expected no-op advance in done")
	}
}

func TestAdvanceZeroQuestionGame(t *testing.T) {
	s, _ := newTestSession(nil)

	s.Advance() // lobby
	if res := s.Advance(); !res.Uniform || !s.IsInProgress() {
		t.Fatalf("expected lobby to in-progress even without questions")
	}
	if _, ok := s.CurrentQuestionID(); ok {
		t.Fatalf("zero-question game must have no current question")
	}
	if s.IsAsking() || s.IsShowingResults() || s.IsShowingLeaderboard() {
		t.Fatalf("zero-question game must have no sub-phase")
	}
	if res := s.Advance(); res.Uniform || !s.IsDone() {
		t.Fatalf("expected the next advance to finish a zero-question game")
	}
}

func TestJoinEligibility(t *testing.T) {
	s, _ := newTestSession(testQuestions())
	alice := domain.Identity{UserID: "u1"}

	if res := s.Join(alice, "Alice"); res.Accepted || res.Reason != domain.RejectNotJoinable {
		t.Fatalf("joining during preparation must be rejected, got %+v", res)
	}

	s.Advance() // lobby
	res := s.Join(alice, "Alice")
	if !res.Accepted || res.PlayerID == "" {
		t.Fatalf("expected lobby join to succeed, got %+v", res)
	}
	if dup := s.Join(alice, "Alice again"); dup.Accepted || dup.Reason != domain.RejectAlreadyJoined {
		t.Fatalf("expected duplicate join rejection, got %+v", dup)
	}

	s.Advance() // in progress; late joins are still allowed
	if late := s.Join(domain.Identity{AnonID: "sess-9"}, "Bob"); !late.Accepted {
		t.Fatalf("expected in-progress join to succeed, got %+v", late)
	}

	if id, ok := s.ResolvePlayer(alice); !ok || id != res.PlayerID {
		t.Fatalf("expected alice to resolve to %q, got %q ok=%v", res.PlayerID, id, ok)
	}
}

func TestSubmitAnswerPreconditions(t *testing.T) {
	s, clock := newTestSession(testQuestions())
	s.Advance() // lobby
	join := s.Join(domain.Identity{UserID: "u1"}, "Alice")

	if res := s.SubmitAnswer(join.PlayerID, "q1", 1); res.Accepted || res.Reason != domain.RejectNotInProgress {
		t.Fatalf("expected rejection outside in-progress, got %+v", res)
	}

	s.Advance() // asking q1
	if res := s.SubmitAnswer(join.PlayerID, "q2", 0); res.Accepted || res.Reason != domain.RejectWrongQuestion {
		t.Fatalf("expected wrong-question rejection, got %+v", res)
	}
	if res := s.SubmitAnswer("ghost", "q1", 1); res.Accepted || res.Reason != domain.RejectNotJoined {
		t.Fatalf("expected not-joined rejection, got %+v", res)
	}

	clock.Tick(30 * time.Second)
	first := s.SubmitAnswer(join.PlayerID, "q1", 1)
	if !first.Accepted || !first.Correct || first.Awarded != 75 {
		t.Fatalf("expected 75 points at half time, got %+v", first)
	}

	second := s.SubmitAnswer(join.PlayerID, "q1", 0)
	if second.Accepted || second.Reason != domain.RejectAlreadyAnswered {
		t.Fatalf("expected duplicate rejection, got %+v", second)
	}
	if total := first.Total; total != 75 {
		t.Fatalf("expected total unchanged at 75, got %d", total)
	}

	s.Advance() // results: answers closed
	if res := s.SubmitAnswer(join.PlayerID, "q1", 1); res.Accepted || res.Reason != domain.RejectNotAsking {
		t.Fatalf("expected rejection after asking ended, got %+v", res)
	}
}

func TestResetDiscardsEverything(t *testing.T) {
	s, _ := newTestSession(testQuestions())
	s.Advance()
	join := s.Join(domain.Identity{UserID: "u1"}, "Alice")
	s.Advance()
	s.SubmitAnswer(join.PlayerID, "q1", 1)

	s.Reset([]domain.Question{{ID: "n1", Text: "New?", Options: []string{"a"}, Correct: 0}})

	if !s.IsInPreparation() {
		t.Fatalf("expected preparation after reset")
	}
	if players := s.Players(); len(players) != 0 {
		t.Fatalf("expected no players after reset, got %d", len(players))
	}
	if _, ok := s.ResolvePlayer(domain.Identity{UserID: "u1"}); ok {
		t.Fatalf("expected alice gone after reset")
	}

	s.Advance()
	s.Advance()
	if id, _ := s.CurrentQuestionID(); id != "n1" {
		t.Fatalf("expected replacement catalog, got question %q", id)
	}
}

func TestStartedAtStampedOncePerQuestion(t *testing.T) {
	s, clock := newTestSession(testQuestions())
	s.Advance() // lobby
	s.Advance() // asking q1
	join := s.Join(domain.Identity{UserID: "u1"}, "Alice")

	clock.Tick(10 * time.Second)
	s.Advance() // results
	s.Advance() // leaderboard
	clock.Tick(50 * time.Second)
	s.Advance() // asking q2, started now

	// a correct instant answer on q2 must earn full value: its clock
	// started when it became current, not when the game began
	res := s.SubmitAnswer(join.PlayerID, "q2", 0)
	if !res.Accepted || res.Awarded != 100 {
		t.Fatalf("expected fresh stamp to award 100, got %+v", res)
	}
}
