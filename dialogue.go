package gosiefps

import "math/rand"

// DialogueMemory is how many recent phrases a picker refuses to repeat.
const DialogueMemory = 5

// DefaultSpeechTicks is how long a phrase stays up.
const DefaultSpeechTicks = 180

var defaultPhrases = map[ExplorerKind][]string{
	Wander: {
		"Nice day for a walk.",
		"I wonder what is over there.",
		"Just stretching my legs.",
		"Have you seen the old tower?",
		"Every corridor looks the same.",
		"Hmm, which way now?",
		"I could walk all day.",
	},
	Patrol: {
		"All clear here.",
		"Keep moving, citizen.",
		"Checkpoint secured.",
		"Nothing to report.",
		"Stay out of trouble.",
		"Back on my rounds.",
		"Another lap done.",
	},
	Follow: {
		"Wait for me!",
		"Where are we going?",
		"I'm right behind you.",
		"Don't walk so fast.",
		"Lead the way.",
		"I've got your back.",
		"Are we there yet?",
	},
	Flee: {
		"Stay away from me!",
		"Leave me alone!",
		"Help!",
		"Don't come any closer!",
		"I'm out of here!",
		"Somebody stop them!",
		"Not again!",
	},
}

// PhrasesFor returns a copy of the phrase pool of a kind.
func PhrasesFor(kind ExplorerKind) []string {
	pool := defaultPhrases[kind]
	out := make([]string, len(pool))
	copy(out, pool)
	return out
}

// DialoguePicker hands out phrases from a pool without repeating any of the
// last DialogueMemory picks. Pools too small for that repeat the oldest.
type DialoguePicker struct {
	pool   []string
	recent []int
}

func NewDialoguePicker(pool []string) *DialoguePicker {
	p := &DialoguePicker{pool: make([]string, len(pool))}
	copy(p.pool, pool)
	return p
}

func (p *DialoguePicker) memory() int {
	m := DialogueMemory
	if len(p.pool)-1 < m {
		m = len(p.pool) - 1
	}
	if m < 0 {
		m = 0
	}
	return m
}

func (p *DialoguePicker) seen(i int) bool {
	for _, r := range p.recent {
		if r == i {
			return true
		}
	}
	return false
}

// Next picks a phrase. An empty pool yields "".
func (p *DialoguePicker) Next(r *rand.Rand) string {
	if len(p.pool) == 0 {
		return ""
	}
	candidates := make([]int, 0, len(p.pool))
	for i := range p.pool {
		if !p.seen(i) {
			candidates = append(candidates, i)
		}
	}
	pick := candidates[r.Intn(len(candidates))]

	p.recent = append(p.recent, pick)
	if m := p.memory(); len(p.recent) > m {
		p.recent = p.recent[len(p.recent)-m:]
	}
	return p.pool[pick]
}

// Speech is the phrase an NPC is currently saying.
type Speech struct {
	Text      string
	Remaining int
}

func (s Speech) Active() bool {
	return s.Remaining > 0
}

// Dialogue decorates an explorer with occasional speech.
type Dialogue struct {
	Picker   *DialoguePicker
	Current  Speech
	Duration int
	// Chance is the probability per quiet tick of starting a phrase.
	Chance float64
}

func NewDialogue(kind ExplorerKind) *Dialogue {
	return &Dialogue{
		Picker:   NewDialoguePicker(defaultPhrases[kind]),
		Duration: DefaultSpeechTicks,
		Chance:   0.004,
	}
}

// Say starts a new phrase right away.
func (d *Dialogue) Say(r *rand.Rand) string {
	text := d.Picker.Next(r)
	d.Current = Speech{Text: text, Remaining: d.Duration}
	return text
}

// tick counts the current phrase down and maybe starts a new one. It
// returns the new phrase, if any.
func (d *Dialogue) tick(r *rand.Rand) (string, bool) {
	if d.Current.Active() {
		d.Current.Remaining--
		if d.Current.Remaining == 0 {
			d.Current.Text = ""
		}
		return "", false
	}
	if r.Float64() >= d.Chance {
		return "", false
	}
	return d.Say(r), true
}
