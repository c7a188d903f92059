package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestMultiChoiceNavigateAndSubmit(t *testing.T) {
	mc := NewMultiChoice([]string{"alpha", "beta", "gamma", "delta"})

	mc, _ = mc.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	mc, _ = mc.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	mc, _ = mc.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if mc.Selected != 1 {
		t.Fatalf("Selected = %d, want 1", mc.Selected)
	}

	mc, _ = mc.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	got, ok := mc.Chosen()
	if !ok || got != "beta" {
		t.Fatalf("Chosen = %q, %v; want beta", got, ok)
	}

	// Further keys are ignored once submitted.
	mc, _ = mc.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if mc.Selected != 1 {
		t.Errorf("selection moved after submit")
	}
}

func TestMultiChoiceShortcuts(t *testing.T) {
	mc := NewMultiChoice([]string{"alpha", "beta", "gamma", "delta"})
	mc, _ = mc.Update(keyPress('3'))
	if got, _ := mc.Chosen(); got != "gamma" {
		t.Errorf("'3' chose %q, want gamma", got)
	}

	mc = NewMultiChoice([]string{"alpha", "beta", "gamma", "delta"})
	mc, _ = mc.Update(keyPress('d'))
	if got, _ := mc.Chosen(); got != "delta" {
		t.Errorf("'d' chose %q, want delta", got)
	}

	mc = NewMultiChoice([]string{"alpha", "beta"})
	mc, _ = mc.Update(keyPress('4'))
	if mc.Submitted {
		t.Error("out-of-range shortcut submitted")
	}
}

func TestMultiChoiceReveal(t *testing.T) {
	mc := NewMultiChoice([]string{"alpha", "beta", "gamma", "delta"})
	mc, _ = mc.Update(keyPress('2'))
	mc.Reveal("beta")
	if !mc.IsCorrect() {
		t.Error("expected correct after revealing chosen option")
	}

	mc.Reveal("delta")
	if mc.IsCorrect() {
		t.Error("expected incorrect after revealing another option")
	}
	if !strings.Contains(mc.View(), "delta") {
		t.Error("view missing options")
	}

	mc.Reveal("missing")
	if mc.CorrectIndex != -1 {
		t.Errorf("CorrectIndex = %d, want -1", mc.CorrectIndex)
	}
}

func TestChosenBeforeSubmit(t *testing.T) {
	mc := NewMultiChoice([]string{"alpha", "beta"})
	if _, ok := mc.Chosen(); ok {
		t.Error("Chosen reported a value before submit")
	}
}
