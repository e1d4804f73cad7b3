package markup

// Answer is collected concept blank answer.
type Answer struct {
	Index  int
	Text   string
	IsMath bool
}

// Tracker assigns sequential indices to concept blanks and collects their
// answers. It must be reset at the start of every full document pass so
// that indices depend only on document order.
type Tracker struct {
	counter int
	answers []string
	isMath  []bool
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) Reset() {
	t.counter = 0
	t.answers = t.answers[:0]
	t.isMath = t.isMath[:0]
}

// Next registers concept blank answer and returns its 1 based index.
func (t *Tracker) Next(answer string, isMath bool) int {
	t.counter++
	t.answers = append(t.answers, answer)
	t.isMath = append(t.isMath, isMath)
	return t.counter
}

func (t *Tracker) Count() int {
	return t.counter
}

// Answers returns copy of collected answers in index order.
func (t *Tracker) Answers() []Answer {
	res := make([]Answer, len(t.answers))
	for i := range t.answers {
		res[i] = Answer{Index: i + 1, Text: t.answers[i], IsMath: t.isMath[i]}
	}
	return res
}
