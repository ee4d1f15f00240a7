package models

import "time"

// ItemKind is the category an item is filed under.
type ItemKind string

const (
	// KindNote is free-form text.
	KindNote ItemKind = "note"

	// KindLogin is a set of credentials.
	KindLogin ItemKind = "login"

	// KindCard is payment card information.
	KindCard ItemKind = "card"

	// KindBinary is an attachment.
	KindBinary ItemKind = "binary"
)

// ItemKinds lists every supported kind.
var ItemKinds = []ItemKind{KindNote, KindLogin, KindCard, KindBinary}

// Item is a catalogued record served by the item routes.
type Item struct {
	// ID is a server-assigned UUIDv7.
	ID string `json:"id"`

	// Name is unique across all items.
	Name string `json:"name"`

	Kind ItemKind `json:"kind"`

	// CreatedAt is set by the server when the item is stored.
	CreatedAt time.Time `json:"created_at"`
}

// ItemFilter narrows an item search. Zero fields match everything.
type ItemFilter struct {
	// Name is matched as a case-insensitive substring.
	Name string

	// Kinds restricts results to the listed kinds.
	Kinds []ItemKind

	// Limit caps the number of returned items; 0 means the default page.
	Limit uint64
}

// ItemPage is one page of search results together with the number of items
// matching the filter.
type ItemPage struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
}
