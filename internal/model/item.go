package model

// Item is the domain model for a todo entry. IDs are assigned by the
// todo store.
type Item struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Complete bool   `json:"complete"`
}

// Index returns the position of the item with the given id, or -1.
func Index(items []Item, id int) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// NextID applies the append-only id rule: 1 for an empty list, otherwise
// the last item's id plus one.
func NextID(items []Item) int {
	if len(items) == 0 {
		return 1
	}
	return items[len(items)-1].ID + 1
}

// Clone returns a copy of items that is never nil.
func Clone(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Stats counts completed and pending items.
func Stats(items []Item) (done, pending int) {
	for _, it := range items {
		if it.Complete {
			done++
		} else {
			pending++
		}
	}
	return
}
