package admin

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const PageSize = 10

type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

type Sort struct {
	Key       string
	Direction Direction
}

// Toggle flips the direction when key is already active and otherwise
// switches to key ascending.
func (s Sort) Toggle(key string) Sort {
	if s.Key == key {
		if s.Direction == Asc {
			return Sort{Key: key, Direction: Desc}
		}
		return Sort{Key: key, Direction: Asc}
	}
	return Sort{Key: key, Direction: Asc}
}

// Listing is one filtered, sorted and paginated table. It is not safe for
// concurrent use.
type Listing struct {
	columns  []Column
	kinds    map[string]Kind
	collator *collate.Collator

	records []Record
	query   string
	sort    Sort
	page    int

	view []Record
}

func NewListing(columns []Column, sort Sort, tag language.Tag) *Listing {
	kinds := make(map[string]Kind, len(columns))
	for _, c := range columns {
		kinds[c.Key] = c.Kind
	}
	l := &Listing{
		columns:  columns,
		kinds:    kinds,
		collator: collate.New(tag),
		sort:     sort,
		page:     1,
	}
	l.refresh()
	return l
}

// NewOrderListing sorts newest orders first.
func NewOrderListing(tag language.Tag) *Listing {
	return NewListing(OrderColumns, Sort{Key: "created_at", Direction: Desc}, tag)
}

// NewReservationListing sorts by date, earliest first.
func NewReservationListing(tag language.Tag) *Listing {
	return NewListing(ReservationColumns, Sort{Key: "date", Direction: Asc}, tag)
}

func (l *Listing) Columns() []Column {
	return l.columns
}

func (l *Listing) SetRecords(records []Record) {
	l.records = records
	l.refresh()
}

// SetFilter keeps the records with a field containing query, ignoring case.
func (l *Listing) SetFilter(query string) {
	l.query = query
	l.refresh()
}

func (l *Listing) Filter() string {
	return l.query
}

func (l *Listing) Toggle(key string) {
	l.sort = l.sort.Toggle(key)
	l.refresh()
}

func (l *Listing) Sort() Sort {
	return l.sort
}

// Len is the number of records matching the filter.
func (l *Listing) Len() int {
	return len(l.view)
}

// PageCount is at least one, so an empty listing shows a single empty page.
func (l *Listing) PageCount() int {
	if len(l.view) == 0 {
		return 1
	}
	return (len(l.view) + PageSize - 1) / PageSize
}

// PageNumber is the current page, starting at 1.
func (l *Listing) PageNumber() int {
	return l.page
}

func (l *Listing) HasPrev() bool {
	return l.page > 1
}

func (l *Listing) HasNext() bool {
	return l.page < l.PageCount()
}

func (l *Listing) SetPage(n int) {
	l.page = min(max(n, 1), l.PageCount())
}

func (l *Listing) NextPage() {
	l.SetPage(l.page + 1)
}

func (l *Listing) PrevPage() {
	l.SetPage(l.page - 1)
}

// Page returns the records of the current page.
func (l *Listing) Page() []Record {
	start := (l.page - 1) * PageSize
	end := min(start+PageSize, len(l.view))
	if start >= end {
		return []Record{}
	}
	return l.view[start:end]
}

func (l *Listing) refresh() {
	query := strings.ToLower(strings.TrimSpace(l.query))

	view := make([]Record, 0, len(l.records))
	for _, r := range l.records {
		if query == "" || matches(r, query) {
			view = append(view, r)
		}
	}

	slices.SortStableFunc(view, func(a, b Record) int {
		c := l.compare(a[l.sort.Key], b[l.sort.Key])
		if l.sort.Direction == Desc {
			return -c
		}
		return c
	})

	l.view = view
	l.SetPage(l.page)
}

func matches(r Record, query string) bool {
	for _, v := range r {
		if strings.Contains(strings.ToLower(Text(v)), query) {
			return true
		}
	}
	return false
}

func (l *Listing) compare(a, b any) int {
	switch l.kinds[l.sort.Key] {
	case KindNumber:
		x, okA := number(a)
		y, okB := number(b)
		if okA && okB {
			return x.Cmp(y)
		}
		return compareMissing(okA, okB)
	case KindTime:
		x, okA := instant(a)
		y, okB := instant(b)
		if okA && okB {
			return x.Compare(y)
		}
		return compareMissing(okA, okB)
	default:
		return l.collator.CompareString(Text(a), Text(b))
	}
}

// compareMissing orders values that could not be read before the rest.
func compareMissing(okA, okB bool) int {
	switch {
	case okA == okB:
		return 0
	case !okA:
		return -1
	default:
		return 1
	}
}
