package paginate

import "strconv"

// Page describes one window of a paginated listing.
type Page struct {
	Number      int  `json:"number"`
	Size        int  `json:"size"`
	NumPages    int  `json:"num_pages"`
	TotalItems  int  `json:"total_items"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Resolve turns a raw ?page= query value into a valid page for the given
// item count. Garbage or missing values resolve to page 1, values beyond
// the last page clamp to the last page instead of erroring.
func Resolve(raw string, totalItems, size int) Page {
	if size < 1 {
		size = 1
	}

	numPages := (totalItems + size - 1) / size
	if numPages < 1 {
		numPages = 1
	}

	number, err := strconv.Atoi(raw)
	if err != nil || number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	return Page{
		Number:      number,
		Size:        size,
		NumPages:    numPages,
		TotalItems:  totalItems,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
}

// Offset is the number of items to skip for this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
