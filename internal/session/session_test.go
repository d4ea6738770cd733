package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/abhisek/pennywise/internal/catalog"
)

var testNow = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

// testLesson builds a lesson of n questions whose correct option is 0.
func testLesson(n int) catalog.Lesson {
	l := catalog.Lesson{ID: "lesson-t", Title: "Test Lesson", XPReward: 50}
	for i := 1; i <= n; i++ {
		l.Questions = append(l.Questions, catalog.Question{
			ID:           fmt.Sprintf("q%d", i),
			Kind:         catalog.KindMultipleChoice,
			Prompt:       fmt.Sprintf("question %d", i),
			Options:      []string{"right", "wrong", "also wrong"},
			CorrectIndex: 0,
		})
	}
	return l
}

// answer selects and checks in one step.
func answer(t *testing.T, s State, l catalog.Lesson, option int) (State, []Effect) {
	t.Helper()
	s, err := Select(s, l, option)
	if err != nil {
		t.Fatalf("Select(%d): %v", option, err)
	}
	s, effects, err := Check(s, l, testNow)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	return s, effects
}

func next(t *testing.T, s State) (State, []Effect) {
	t.Helper()
	s, effects, err := Continue(s, testNow)
	if err != nil {
		t.Fatalf("Continue: %v", err)
	}
	return s, effects
}

func TestStart_RejectsEmptyLesson(t *testing.T) {
	_, err := Start(catalog.Lesson{ID: "empty"}, 5, testNow)
	if !errors.Is(err, ErrEmptyLesson) {
		t.Fatalf("err = %v, want ErrEmptyLesson", err)
	}
}

func TestStart_SeedsQueueInOrder(t *testing.T) {
	s, err := Start(testLesson(3), 5, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.Queue, []string{"q1", "q2", "q3"}) {
		t.Errorf("queue = %v", s.Queue)
	}
	if s.Phase != PhaseAwaitingSelection || s.Selected != NoSelection {
		t.Errorf("phase = %s, selected = %d", s.Phase, s.Selected)
	}
	if s.SessionID == "" {
		t.Error("session id not set")
	}
}

func TestPerfectLesson(t *testing.T) {
	l := testLesson(5)
	s, _ := Start(l, 5, testNow)

	var final []Effect
	for !s.Done() {
		s, _ = answer(t, s, l, 0)
		s, final = next(t, s)
	}

	if len(s.Queue) != 0 || s.UniqueCompleted != 5 {
		t.Errorf("queue = %v, unique = %d", s.Queue, s.UniqueCompleted)
	}
	if s.Result == nil {
		t.Fatal("no result")
	}
	if s.Result.TotalXP != 100 || s.Result.Accuracy != 100 {
		t.Errorf("result = %+v, want totalXp 100 accuracy 100", s.Result)
	}
	if len(final) != 1 || final[0].Kind != EffectLessonComplete || final[0].Result.TotalXP != 100 {
		t.Errorf("final effects = %+v", final)
	}
	if s.Progress() != 1 {
		t.Errorf("progress = %v, want 1", s.Progress())
	}
}

func TestWrongAnswerRequeuesToBack(t *testing.T) {
	l := testLesson(3)
	s, _ := Start(l, 5, testNow)

	s, effects := answer(t, s, l, 1)
	if s.LastCorrect || !s.PendingRequeue {
		t.Fatalf("wrong answer not flagged: %+v", s)
	}
	if len(effects) != 1 || effects[0].Kind != EffectHeartLost {
		t.Errorf("effects = %+v, want one heart loss", effects)
	}
	if s.Hearts != 4 {
		t.Errorf("hearts = %d, want 4", s.Hearts)
	}

	s, _ = next(t, s)
	if !reflect.DeepEqual(s.Queue, []string{"q2", "q3", "q1"}) {
		t.Errorf("queue = %v, want q1 at the back", s.Queue)
	}
	if s.PendingRequeue {
		t.Error("pending flag not cleared")
	}
	if s.UniqueCompleted != 0 {
		t.Errorf("unique = %d, want 0", s.UniqueCompleted)
	}
}

func TestQuestionAppearsOncePerMissPlusOne(t *testing.T) {
	l := testLesson(3)
	s, _ := Start(l, 5, testNow)

	const misses = 3
	seen := map[string]int{}
	for !s.Done() {
		id, _ := s.Head()
		seen[id]++
		option := 0
		if id == "q2" && seen[id] <= misses {
			option = 1
		}
		s, _ = answer(t, s, l, option)
		s, _ = next(t, s)
	}

	if seen["q2"] != misses+1 {
		t.Errorf("q2 presented %d times, want %d", seen["q2"], misses+1)
	}
	if seen["q1"] != 1 || seen["q3"] != 1 {
		t.Errorf("presentations = %v", seen)
	}
	if s.Attempts["q2"] != misses+1 {
		t.Errorf("attempts[q2] = %d", s.Attempts["q2"])
	}
	// 2 first-try (20) + 1 retry (5) + bonus.
	if s.Result.TotalXP != 20+5+CompletionBonus {
		t.Errorf("totalXp = %d", s.Result.TotalXP)
	}
	if s.Result.Accuracy != 67 {
		t.Errorf("accuracy = %d, want 67", s.Result.Accuracy)
	}
}

func TestRetryXPIsHalfOfFirstAttempt(t *testing.T) {
	if XPFirstAttempt != 2*XPRetry {
		t.Fatalf("first attempt %d, retry %d", XPFirstAttempt, XPRetry)
	}

	l := testLesson(1)
	s, _ := Start(l, 5, testNow)
	s, _ = answer(t, s, l, 2)
	s, _ = next(t, s)
	s, _ = answer(t, s, l, 0)
	if s.LastXP != XPRetry || s.XP != XPRetry {
		t.Errorf("retry xp = %d (total %d), want %d", s.LastXP, s.XP, XPRetry)
	}
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		first, total, want int
	}{
		{5, 5, 100},
		{0, 5, 0},
		{2, 3, 67},
		{1, 3, 33},
		{1, 8, 13},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := Accuracy(tt.first, tt.total); got != tt.want {
			t.Errorf("Accuracy(%d, %d) = %d, want %d", tt.first, tt.total, got, tt.want)
		}
	}
}

func TestOutOfHeartsSignalledOnce(t *testing.T) {
	l := testLesson(6)
	s, _ := Start(l, 5, testNow)

	signals := 0
	heartLosses := 0
	for i := 0; i < 6; i++ {
		var effects []Effect
		s, effects = answer(t, s, l, 1)
		for _, e := range effects {
			switch e.Kind {
			case EffectOutOfHearts:
				signals++
				if i != 4 {
					t.Errorf("out-of-hearts on answer %d, want answer 4", i)
				}
			case EffectHeartLost:
				heartLosses++
			}
		}
		s, _ = next(t, s)
	}

	if s.Hearts != 0 {
		t.Errorf("hearts = %d, want 0", s.Hearts)
	}
	if signals != 1 {
		t.Errorf("out-of-hearts signalled %d times, want 1", signals)
	}
	if heartLosses != 6 {
		t.Errorf("heart-loss effects = %d, want 6", heartLosses)
	}
	if s.Done() {
		t.Error("session must keep going when out of hearts")
	}
}

func TestStartWithNoHearts(t *testing.T) {
	l := testLesson(2)
	s, _ := Start(l, 0, testNow)
	if !s.OutOfHearts() {
		t.Fatal("expected OutOfHearts")
	}
	_, effects := answer(t, s, l, 1)
	for _, e := range effects {
		if e.Kind == EffectOutOfHearts {
			t.Error("no 1->0 transition happened, no signal expected")
		}
	}
}

func TestPhaseGuards(t *testing.T) {
	l := testLesson(2)
	s, _ := Start(l, 5, testNow)

	if _, _, err := Check(s, l, testNow); !errors.Is(err, ErrNoSelection) {
		t.Errorf("Check without selection: %v", err)
	}
	if _, _, err := Continue(s, testNow); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Continue before check: %v", err)
	}
	if _, err := Select(s, l, 3); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("Select out of range: %v", err)
	}
	if _, err := Select(s, l, -1); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("Select negative: %v", err)
	}
	if _, err := Select(s, testLesson(1), 0); err != nil {
		t.Errorf("same lesson id should be accepted: %v", err)
	}

	// Changing a selection before checking is allowed.
	s, _ = Select(s, l, 1)
	s, err := Select(s, l, 0)
	if err != nil || s.Selected != 0 {
		t.Fatalf("reselect: %v, selected %d", err, s.Selected)
	}

	s, _, _ = Check(s, l, testNow)
	frozen, err := Select(s, l, 2)
	if !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Select during feedback: %v", err)
	}
	if frozen.Selected != 0 || frozen.Phase != PhaseFeedback {
		t.Errorf("Select during feedback changed state: %+v", frozen)
	}
	if _, _, err := Check(s, l, testNow); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("double Check: %v", err)
	}

	other := testLesson(2)
	other.ID = "other"
	if _, err := Select(State{LessonID: "lesson-t", Queue: []string{"q1"}}, other, 0); !errors.Is(err, ErrLessonMismatch) {
		t.Errorf("Select with other lesson: %v", err)
	}
}

func TestTransitionsDoNotMutateInput(t *testing.T) {
	l := testLesson(2)
	s0, _ := Start(l, 5, testNow)
	s1, _ := Select(s0, l, 1)
	s2, _, _ := Check(s1, l, testNow)
	_, _, _ = Continue(s2, testNow)

	if s0.Phase != PhaseAwaitingSelection || s0.Selected != NoSelection {
		t.Errorf("s0 mutated: %+v", s0)
	}
	if s1.Phase != PhaseAwaitingCheck || len(s1.Attempts) != 0 || s1.Hearts != 5 {
		t.Errorf("s1 mutated: %+v", s1)
	}
	if !reflect.DeepEqual(s2.Queue, []string{"q1", "q2"}) {
		t.Errorf("s2 queue mutated: %v", s2.Queue)
	}
}

func TestStateSurvivesJSON(t *testing.T) {
	l := testLesson(3)
	s, _ := Start(l, 5, testNow)
	s, _ = answer(t, s, l, 1)
	s, _ = next(t, s)

	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var restored State
	if err := json.Unmarshal(raw, &restored); err != nil {
		t.Fatal(err)
	}

	for !restored.Done() {
		restored, _ = answer(t, restored, l, 0)
		restored, _ = next(t, restored)
	}
	if restored.Result.TotalXP != 10+10+5+CompletionBonus || restored.Result.Accuracy != 67 {
		t.Errorf("result after resume = %+v", restored.Result)
	}
}
