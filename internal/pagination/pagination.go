// Package pagination computes the page-number window rendered by the
// dashboard pagers.
package pagination

// Ellipsis is the sentinel entry standing in for a "..." gap.
const Ellipsis = -1

// Window maps a 1-indexed current page and a total page count to the display
// sequence of page numbers, with at most one Ellipsis entry. Page 1 is always
// present and the last page is present whenever totalPages > 1. The sequence
// is not deduplicated; small page counts can repeat a number, which the
// dashboard renders as-is.
func Window(currentPage, totalPages int) []int {
	pages := []int{1}

	switch {
	case currentPage > 3:
		pages = append(pages, currentPage-2, currentPage-1)
	case currentPage > 1:
		for i := 2; i < currentPage; i++ {
			pages = append(pages, i)
		}
	}

	if currentPage != 1 && currentPage != totalPages {
		pages = append(pages, currentPage)
	}

	switch {
	case currentPage < totalPages-2:
		pages = append(pages, currentPage+1, currentPage+2)
	case currentPage < totalPages:
		for i := currentPage + 1; i < totalPages; i++ {
			pages = append(pages, i)
		}
	}

	if currentPage < totalPages-3 {
		pages = append(pages, Ellipsis)
	}

	if totalPages > 1 {
		pages = append(pages, totalPages)
	}

	return pages
}

// TotalPages returns the page count for a result set at the given page size.
func TotalPages(totalItems int64, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	return int((totalItems + int64(pageSize) - 1) / int64(pageSize))
}
