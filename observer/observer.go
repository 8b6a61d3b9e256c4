package observer

import (
	"context"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Observer delivers added-node notifications to subscribed roots.
type Observer struct {
	scanner *Scanner

	mu    sync.Mutex
	next  int
	roots map[int]*goquery.Selection
}

func New(scanner *Scanner) *Observer {
	return &Observer{scanner: scanner, roots: make(map[int]*goquery.Selection)}
}

// Subscribe scans root right away, then on every Notify that adds nodes
// under it, until the returned func is called.
func (o *Observer) Subscribe(ctx context.Context, root *goquery.Selection) (unsubscribe func()) {
	o.mu.Lock()
	id := o.next
	o.next++
	o.roots[id] = root
	o.mu.Unlock()

	o.scanner.Scan(ctx, root)

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.roots, id)
			o.mu.Unlock()
		})
	}
}

// Notify reports nodes added to the document. Returns the number of fetches started.
func (o *Observer) Notify(ctx context.Context, added []*html.Node) int {
	if len(added) == 0 {
		return 0
	}

	o.mu.Lock()
	var targets []*goquery.Selection
	for _, root := range o.roots {
		if containsAny(root, added) {
			targets = append(targets, root)
		}
	}
	o.mu.Unlock()

	started := 0
	for _, root := range targets {
		started += o.scanner.Scan(ctx, root)
	}
	return started
}

func containsAny(root *goquery.Selection, added []*html.Node) bool {
	for _, r := range root.Nodes {
		for _, n := range added {
			for p := n; p != nil; p = p.Parent {
				if p == r {
					return true
				}
			}
		}
	}
	return false
}
