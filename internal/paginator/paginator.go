// Package paginator windows an ordered sequence into fixed-size, 1-based pages.
//
// Out of range page numbers are clipped instead of rejected: anything absent,
// malformed or below 1 becomes page 1, anything past the end becomes the last
// page. An empty sequence still has one (empty) page.
package paginator

import (
	"errors"
	"strconv"
	"strings"
)

// PerPage is the site-wide page size.
const PerPage = 10

var ErrInvalidPerPage = errors.New("paginator: per page must be a positive integer")

type Page struct {
	Number      int   `json:"number"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	NumPages    int   `json:"num_pages"`
	HasPrevious bool  `json:"has_previous"`
	HasNext     bool  `json:"has_next"`
}

// ParsePage turns a raw query value into a requested page number.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// New computes the window for page number over total items.
func New(total int64, perPage, number int) (Page, error) {
	if perPage <= 0 {
		return Page{}, ErrInvalidPerPage
	}
	if total < 0 {
		total = 0
	}

	numPages := int((total + int64(perPage) - 1) / int64(perPage))
	if numPages < 1 {
		numPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	return Page{
		Number:      number,
		PerPage:     perPage,
		Total:       total,
		NumPages:    numPages,
		HasPrevious: number > 1,
		HasNext:     number < numPages,
	}, nil
}

// Offset is the index of the first item on the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

func (p Page) Limit() int {
	return p.PerPage
}

// Len is the number of items the page holds.
func (p Page) Len() int {
	rest := p.Total - int64(p.Offset())
	if rest <= 0 {
		return 0
	}
	if rest > int64(p.PerPage) {
		return p.PerPage
	}
	return int(rest)
}

// Slice applies the page window to an in-memory sequence.
func Slice[T any](items []T, perPage, number int) ([]T, Page, error) {
	page, err := New(int64(len(items)), perPage, number)
	if err != nil {
		return nil, Page{}, err
	}
	start := page.Offset()
	return items[start : start+page.Len()], page, nil
}
