package domain

import (
	"sort"
	"time"
)

// StoreInternal marks offers claimed entirely inside the storefront
const StoreInternal = "internal"

// ClaimEntry is the persisted record of one processed offer
type ClaimEntry struct {
	Title string    `json:"title"`
	Time  time.Time `json:"time"`
	Store string    `json:"store"`
	URL   string    `json:"url,omitempty"`
	Code  string    `json:"code,omitempty"`
}

// AccountRecord maps offer title to its claim entry for one account.
// Entries are only ever added.
type AccountRecord map[string]*ClaimEntry

// Has reports whether title was already recorded
func (a AccountRecord) Has(title string) bool {
	_, ok := a[title]
	return ok
}

// Add records entry unless its title is already present. The returned
// entry is the one stored in the record; created is false when an older
// entry was kept.
func (a AccountRecord) Add(entry ClaimEntry) (stored *ClaimEntry, created bool) {
	if existing, ok := a[entry.Title]; ok {
		return existing, false
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}
	e := entry
	a[entry.Title] = &e
	return &e, true
}

// Entries returns the entries ordered by claim time, then title
func (a AccountRecord) Entries() []*ClaimEntry {
	entries := make([]*ClaimEntry, 0, len(a))
	for _, e := range a {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Time.Equal(entries[j].Time) {
			return entries[i].Title < entries[j].Title
		}
		return entries[i].Time.Before(entries[j].Time)
	})
	return entries
}

// Library holds the account records of every user, keyed by display name
type Library map[string]AccountRecord

// Account returns the record for user, creating it when missing
func (l Library) Account(user string) AccountRecord {
	acc, ok := l[user]
	if !ok || acc == nil {
		acc = AccountRecord{}
		l[user] = acc
	}
	return acc
}

// Users returns the account names in sorted order
func (l Library) Users() []string {
	users := make([]string, 0, len(l))
	for u := range l {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

// Merge adds every entry of other that l does not have yet
func (l Library) Merge(other Library) {
	for user, rec := range other {
		acc := l.Account(user)
		for _, e := range rec {
			if e != nil {
				acc.Add(*e)
			}
		}
	}
}
