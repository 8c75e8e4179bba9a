package gosiefps

import (
	"math/rand"
	"testing"
)

func TestDialoguePickerNoRecentRepeats(t *testing.T) {
	for _, kind := range []ExplorerKind{Wander, Patrol, Follow, Flee} {
		t.Run(kind.String(), func(t *testing.T) {
			pool := PhrasesFor(kind)
			if len(pool) <= DialogueMemory {
				t.Fatalf("pool of %d phrases is too small", len(pool))
			}
			p := NewDialoguePicker(pool)
			r := rand.New(rand.NewSource(int64(kind) + 1))

			var history []string
			for i := 0; i < 500; i++ {
				phrase := p.Next(r)
				start := len(history) - DialogueMemory
				if start < 0 {
					start = 0
				}
				for _, prev := range history[start:] {
					if prev == phrase {
						t.Fatalf("pick %d: %q repeated within the last %d", i, phrase, DialogueMemory)
					}
				}
				history = append(history, phrase)
			}
		})
	}
}

func TestDialoguePickerSmallPools(t *testing.T) {
	r := rand.New(rand.NewSource(3))

	if got := NewDialoguePicker(nil).Next(r); got != "" {
		t.Errorf("empty pool gave %q", got)
	}

	one := NewDialoguePicker([]string{"only"})
	for i := 0; i < 3; i++ {
		if got := one.Next(r); got != "only" {
			t.Fatalf("single phrase pool gave %q", got)
		}
	}

	// two phrases can only alternate
	two := NewDialoguePicker([]string{"a", "b"})
	prev := two.Next(r)
	for i := 0; i < 10; i++ {
		next := two.Next(r)
		if next == prev {
			t.Fatalf("pick %d repeated %q", i, next)
		}
		prev = next
	}
}

func TestPhrasesForIsACopy(t *testing.T) {
	p := PhrasesFor(Flee)
	p[0] = "changed"
	if PhrasesFor(Flee)[0] == "changed" {
		t.Error("PhrasesFor() exposed the shared pool")
	}
}

func TestDialogueSay(t *testing.T) {
	d := NewDialogue(Patrol)
	d.Duration = 3
	r := rand.New(rand.NewSource(1))

	text := d.Say(r)
	if text == "" || d.Current.Text != text || d.Current.Remaining != 3 {
		t.Fatalf("Say() = %q, current %+v", text, d.Current)
	}
	d.Chance = 0
	for i := 0; i < 3; i++ {
		if _, ok := d.tick(r); ok {
			t.Fatal("tick() started a phrase with zero chance")
		}
	}
	if d.Current.Active() || d.Current.Text != "" {
		t.Errorf("speech = %+v, want cleared after its duration", d.Current)
	}
}
