package receipts

import "sync"

// Pool is the append-only, insertion ordered list of identifiers returned by
// successful submissions.
type Pool struct {
	mu  sync.Mutex
	ids []string
}

func (p *Pool) Append(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ids = append(p.ids, id)
}

func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.ids)
}

// IDs returns a copy in insertion order.
func (p *Pool) IDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.ids...)
}

// Random picks one identifier using intn, which must return a value in
// [0, n). It reports false when the pool is empty.
func (p *Pool) Random(intn func(n int) int) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.ids) == 0 {
		return "", false
	}
	return p.ids[intn(len(p.ids))], true
}
