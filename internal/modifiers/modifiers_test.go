package modifiers

import (
	"reflect"
	"testing"
)

func TestComposeEmptySelection(t *testing.T) {
	got := Compose(NewSelection())
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}

func TestComposeUsesCanonicalOrder(t *testing.T) {
	orders := [][]Platform{{X, Facebook}, {Facebook, X}}
	want := []string{
		"user wants to generate a facebook post",
		"user wants to generate a twitter post",
		"user wants a formal tone of voice",
	}
	for _, order := range orders {
		sel := NewSelection()
		for _, id := range order {
			sel.TogglePlatform(id)
		}
		if err := sel.SetTone(ToneFormal); err != nil {
			t.Fatalf("SetTone: %v", err)
		}
		if got := Compose(sel); !reflect.DeepEqual(got, want) {
			t.Fatalf("order %v: got %#v want %#v", order, got, want)
		}
	}
}

func TestComposeAllModifiers(t *testing.T) {
	sel := NewSelection()
	for _, info := range Platforms() {
		sel.TogglePlatform(info.ID)
	}
	if err := sel.SetTone(ToneInformal); err != nil {
		t.Fatalf("SetTone: %v", err)
	}
	got := Compose(sel)
	want := []string{
		"user wants to generate a facebook post",
		"user wants to generate a instagram post",
		"user wants to generate a linkedin post",
		"user wants to generate a twitter post",
		"user wants a less formal tone of voice",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestComposeIgnoresUnknownIDs(t *testing.T) {
	sel := Selection{
		Platforms: map[Platform]bool{"myspace": true, LinkedIn: true},
		Tone:      "sarcastic",
	}
	got := Compose(sel)
	want := []string{"user wants to generate a linkedin post"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestTogglePlatform(t *testing.T) {
	sel := NewSelection()
	if !sel.TogglePlatform(Instagram) || !sel.Selected(Instagram) {
		t.Fatal("instagram should be selected after first toggle")
	}
	if !sel.TogglePlatform(Instagram) || sel.Selected(Instagram) {
		t.Fatal("instagram should be cleared after second toggle")
	}
	if sel.TogglePlatform("myspace") {
		t.Fatal("unknown platform should be rejected")
	}
	if len(sel.Platforms) != 0 {
		t.Fatalf("expected empty selection, got %#v", sel.Platforms)
	}
}

func TestSetToneRejectsUnknownTone(t *testing.T) {
	sel := NewSelection()
	if err := sel.SetTone(ToneFormal); err != nil {
		t.Fatalf("SetTone: %v", err)
	}
	if err := sel.SetTone("sarcastic"); err == nil {
		t.Fatal("expected error for unknown tone")
	}
	if sel.Tone != ToneFormal {
		t.Fatalf("tone changed after rejected update: %s", sel.Tone)
	}
}

func TestActiveCountAndSummary(t *testing.T) {
	sel := NewSelection()
	if sel.ActiveCount() != 0 || len(sel.Summary()) != 0 {
		t.Fatal("default selection should have no active modifiers")
	}
	sel.TogglePlatform(X)
	sel.TogglePlatform(LinkedIn)
	_ = sel.SetTone(ToneFormal)
	if got := sel.ActiveCount(); got != 3 {
		t.Fatalf("active count: got %d want 3", got)
	}
	want := []string{"LinkedIn post", "X post", "More Formal tone"}
	if got := sel.Summary(); !reflect.DeepEqual(got, want) {
		t.Fatalf("summary: got %#v want %#v", got, want)
	}
}
