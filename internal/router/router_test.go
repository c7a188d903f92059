package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/bloomify/bloomify/internal/screen"
)

type initMsg struct{ title string }

// stubScreen records what the router delivers to it.
type stubScreen struct {
	title    string
	initRan  bool
	received []tea.Msg
	next     screen.Screen
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return func() tea.Msg { return initMsg{s.title} }
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.received = append(s.received, msg)
	if s.next != nil {
		return s.next, nil
	}
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func TestPushAndPop(t *testing.T) {
	r := New(&stubScreen{title: "quiz"})

	detail := &stubScreen{title: "detail"}
	r.Update(PushScreenMsg{Screen: detail})
	if r.Depth() != 2 || r.Active() != detail {
		t.Fatalf("expected detail on top at depth 2, got %q at %d", r.Active().Title(), r.Depth())
	}
	if !detail.initRan {
		t.Error("expected Init on pushed screen")
	}

	r.Update(PopScreenMsg{})
	if r.Depth() != 1 || r.Active().Title() != "quiz" {
		t.Errorf("expected quiz at depth 1, got %q at %d", r.Active().Title(), r.Depth())
	}

	r.Update(PopScreenMsg{})
	if r.Depth() != 1 {
		t.Errorf("pop must keep the root screen, depth %d", r.Depth())
	}
}

// The attempt flow swaps welcome for quiz and quiz for summary without
// growing the stack, so Esc never returns to a finished screen.
func TestReplaceScreenMsgThroughUpdate(t *testing.T) {
	welcome := &stubScreen{title: "welcome"}
	r := New(welcome)

	quiz := &stubScreen{title: "quiz"}
	cmd := r.Update(ReplaceScreenMsg{Screen: quiz})
	if r.Active() != quiz || r.Depth() != 1 {
		t.Fatalf("expected quiz alone on the stack, got %q at %d", r.Active().Title(), r.Depth())
	}
	if cmd == nil {
		t.Fatal("expected the new screen's Init command")
	}
	if msg, ok := cmd().(initMsg); !ok || msg.title != "quiz" {
		t.Errorf("expected quiz init message, got %#v", msg)
	}
	if len(welcome.received) != 0 {
		t.Errorf("replaced screen must not see the navigation message, got %v", welcome.received)
	}

	summary := &stubScreen{title: "summary"}
	r.Update(ReplaceScreenMsg{Screen: summary})
	if r.Active() != summary || r.Depth() != 1 {
		t.Errorf("expected summary alone on the stack, got %q at %d", r.Active().Title(), r.Depth())
	}
	if len(quiz.received) != 0 {
		t.Errorf("quiz must not see the navigation message, got %v", quiz.received)
	}
}

func TestReplaceKeepsLowerScreens(t *testing.T) {
	r := New(&stubScreen{title: "root"})
	r.Push(&stubScreen{title: "quiz"})

	summary := &stubScreen{title: "summary"}
	r.Update(ReplaceScreenMsg{Screen: summary})
	if r.Depth() != 2 || r.Active() != summary {
		t.Fatalf("expected summary on top at depth 2, got %q at %d", r.Active().Title(), r.Depth())
	}

	r.Update(PopScreenMsg{})
	if r.Active().Title() != "root" {
		t.Errorf("expected root after pop, got %q", r.Active().Title())
	}
}

func TestUpdateForwardsToActiveScreen(t *testing.T) {
	quiz := &stubScreen{title: "quiz"}
	r := New(quiz)

	key := tea.KeyPressMsg{Code: 'a', Text: "a"}
	r.Update(key)
	if len(quiz.received) != 1 {
		t.Fatalf("expected key forwarded once, got %v", quiz.received)
	}
	if got, ok := quiz.received[0].(tea.KeyPressMsg); !ok || got.Text != key.Text {
		t.Errorf("expected the key press, got %#v", quiz.received[0])
	}
	if r.View(80, 24) != "quiz" {
		t.Errorf("expected quiz view, got %q", r.View(80, 24))
	}
}

func TestUpdateStoresReturnedScreen(t *testing.T) {
	next := &stubScreen{title: "next"}
	r := New(&stubScreen{title: "first", next: next})

	r.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if r.Active() != next {
		t.Errorf("expected the screen returned by Update to become active, got %q", r.Active().Title())
	}
}
