package notify

import "sync"

// inboxCap mirrors the upstream feed limit.
const inboxCap = 100

// Inbox holds the newest notification records, deduplicated by id.
type Inbox struct {
	mu      sync.RWMutex
	records []Record
	seen    map[string]struct{}
}

func NewInbox() *Inbox {
	return &Inbox{seen: make(map[string]struct{})}
}

// Add prepends a record. Records whose id was already seen are dropped;
// the inbox is capped at the newest hundred.
func (i *Inbox) Add(rec Record) bool {
	if rec.ID == "" {
		return false
	}
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, dup := i.seen[rec.ID]; dup {
		return false
	}
	i.seen[rec.ID] = struct{}{}

	i.records = append([]Record{rec}, i.records...)
	if len(i.records) > inboxCap {
		evicted := i.records[inboxCap:]
		i.records = i.records[:inboxCap]
		for _, old := range evicted {
			delete(i.seen, old.ID)
		}
	}
	return true
}

// Seed replaces the inbox contents with the backlog, newest first.
func (i *Inbox) Seed(records []Record) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.records = nil
	i.seen = make(map[string]struct{}, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		if _, dup := i.seen[rec.ID]; dup {
			continue
		}
		i.seen[rec.ID] = struct{}{}
		i.records = append(i.records, rec)
		if len(i.records) == inboxCap {
			break
		}
	}
}

// List returns a copy of the held records, newest first.
func (i *Inbox) List() []Record {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]Record, len(i.records))
	copy(out, i.records)
	return out
}

// MarkRead flags the given ids as read in place.
func (i *Inbox) MarkRead(ids []string, read bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}
	for idx := range i.records {
		if _, ok := idSet[i.records[idx].ID]; ok {
			i.records[idx].Read = read
		}
	}
}

// Remove deletes the given ids from the inbox.
func (i *Inbox) Remove(ids []string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}
	kept := i.records[:0]
	for _, rec := range i.records {
		if _, drop := idSet[rec.ID]; drop {
			delete(i.seen, rec.ID)
			continue
		}
		kept = append(kept, rec)
	}
	i.records = kept
}

// Len reports the current inbox size.
func (i *Inbox) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.records)
}
