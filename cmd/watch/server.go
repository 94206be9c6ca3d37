package watch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
)

// sseEvent is one encoded bindings update, keyed by the update ID.
type sseEvent struct {
	id   int64
	data []byte
}

// broker fans bindings updates out to SSE subscribers. It keeps the latest
// update so late subscribers and the JSON routes see the current table.
type broker struct {
	mu      sync.Mutex
	clients map[chan sseEvent]struct{}
	latest  *bindingsUpdate
	encoded sseEvent
}

func newBroker() *broker {
	return &broker{
		clients: make(map[chan sseEvent]struct{}),
	}
}

// subscribe registers a client. The latest update is replayed unless the
// client already saw it, as reported through lastID.
func (b *broker) subscribe(lastID int64) chan sseEvent {
	ch := make(chan sseEvent, 1)
	b.mu.Lock()
	b.clients[ch] = struct{}{}
	if b.latest != nil && b.encoded.id > lastID {
		ch <- b.encoded
	}
	b.mu.Unlock()
	return ch
}

func (b *broker) unsubscribe(ch chan sseEvent) {
	b.mu.Lock()
	delete(b.clients, ch)
	close(ch)
	b.mu.Unlock()
}

// publish stores u as the latest update and offers it to every subscriber.
// Subscribers still holding an undelivered update skip this one; every update
// carries the full table, so they catch up on the next.
func (b *broker) publish(u bindingsUpdate) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode bindings update: %w", err)
	}
	ev := sseEvent{id: u.ID, data: data}

	b.mu.Lock()
	b.latest = &u
	b.encoded = ev
	for ch := range b.clients {
		select {
		case ch <- ev:
		default:
		}
	}
	b.mu.Unlock()
	return nil
}

// current returns the latest update and its encoding.
func (b *broker) current() (bindingsUpdate, []byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.latest == nil {
		return bindingsUpdate{}, nil, false
	}
	return *b.latest, b.encoded.data, true
}

func newServer(b *broker, port int) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc(patternIndex, handleIndex(b))
	mux.HandleFunc(patternComponent, handleComponent(b))
	mux.HandleFunc(patternEvents, handleSSE(b))

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
}

// handleIndex serves the latest update as a JSON document.
func handleIndex(b *broker) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_, data, ok := b.current()
		if !ok {
			http.Error(w, "no bindings yet", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, data)
	}
}

// handleComponent serves the latest state of the component named by the
// project-relative path in the URL.
func handleComponent(b *broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, _, ok := b.current()
		if !ok {
			http.Error(w, "no bindings yet", http.StatusServiceUnavailable)
			return
		}

		name := r.PathValue("path")
		state, ok := u.component(name)
		if !ok {
			http.Error(w, fmt.Sprintf("component not transformed: %s", name), http.StatusNotFound)
			return
		}

		data, err := json.Marshal(state)
		if err != nil {
			http.Error(w, "failed to encode component", http.StatusInternalServerError)
			return
		}
		writeJSON(w, data)
	}
}

func writeJSON(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		http.Error(w, "failed to write bindings", http.StatusInternalServerError)
	}
}

func handleSSE(b *broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		lastID, err := lastEventID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		ch := b.subscribe(lastID)
		defer b.unsubscribe(ch)

		// Opening comment so clients see the stream before the first update.
		fmt.Fprint(w, ": connected\n\n")
		flusher.Flush()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", ev.id, sseEventBindings, ev.data)
				flusher.Flush()
			}
		}
	}
}

// lastEventID reads the ID a reconnecting EventSource sends back.
func lastEventID(r *http.Request) (int64, error) {
	v := r.Header.Get(headerLastEventID)
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", headerLastEventID, v)
	}
	return id, nil
}
