package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/angelmondragon/storefront-cart/pkg/money"
)

var errSlotDown = errors.New("slot backend down")

type memorySlots struct {
	mu       sync.Mutex
	values   map[string]string
	writes   int
	readErr  error
	writeErr error
}

func newMemorySlots() *memorySlots {
	return &memorySlots{values: map[string]string{}}
}

func (m *memorySlots) Read(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return "", m.readErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", ErrSlotEmpty
	}
	return v, nil
}

func (m *memorySlots) Write(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.values[key] = value
	m.writes++
	return nil
}

func (m *memorySlots) raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}

type recordingRenderer struct {
	badges []int
	views  []View
}

func (r *recordingRenderer) RenderBadge(count int) { r.badges = append(r.badges, count) }
func (r *recordingRenderer) RenderCart(view View)  { r.views = append(r.views, view) }

func (r *recordingRenderer) lastBadge() int {
	if len(r.badges) == 0 {
		return -1
	}
	return r.badges[len(r.badges)-1]
}

type recordingNotifier struct {
	toasts []string
	alerts []string
}

func (n *recordingNotifier) Toast(message string) { n.toasts = append(n.toasts, message) }
func (n *recordingNotifier) Alert(message string) { n.alerts = append(n.alerts, message) }

type stubConfirmer struct {
	answer  bool
	prompts []string
}

func (c *stubConfirmer) Confirm(prompt string) bool {
	c.prompts = append(c.prompts, prompt)
	return c.answer
}

type recordingOpener struct {
	urls []string
}

func (o *recordingOpener) Open(url string) { o.urls = append(o.urls, url) }

type countingRecorder struct {
	mutations map[string]int
	failures  map[string]int
	checkouts int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{mutations: map[string]int{}, failures: map[string]int{}}
}

func (r *countingRecorder) IncMutation(op string)       { r.mutations[op]++ }
func (r *countingRecorder) IncStorageFailure(op string) { r.failures[op]++ }
func (r *countingRecorder) ObserveCheckout(float64, int) {
	r.checkouts++
}

type harness struct {
	slots     *memorySlots
	renderer  *recordingRenderer
	notifier  *recordingNotifier
	confirmer *stubConfirmer
	opener    *recordingOpener
	metrics   *countingRecorder
	manager   *Manager
}

const testKey = "cart:visitor-1"

func newHarness(slots *memorySlots) *harness {
	if slots == nil {
		slots = newMemorySlots()
	}
	h := &harness{
		slots:     slots,
		renderer:  &recordingRenderer{},
		notifier:  &recordingNotifier{},
		confirmer: &stubConfirmer{},
		opener:    &recordingOpener{},
		metrics:   newCountingRecorder(),
	}
	manager, err := NewManager(Options{
		Store:     NewStateStore(slots, testKey, nil, h.metrics),
		Renderer:  h.renderer,
		Notifier:  h.notifier,
		Confirmer: h.confirmer,
		Opener:    h.opener,
		Formatter: money.MustFormatter("pt-BR", "BRL", "R$"),
		Checkout:  CheckoutConfig{BaseURL: "https://wa.me", Destination: "5511999999999"},
		Metrics:   h.metrics,
	})
	if err != nil {
		panic(err)
	}
	h.manager = manager
	return h
}

func shirt() AddItemInput {
	return AddItemInput{ID: "a1", Name: "Shirt", Price: "29.9", Image: "x.jpg"}
}
