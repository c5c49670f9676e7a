package usecase

import (
	"fmt"

	"github.com/ais-service/internal/domain"
)

// pageWindow - bounds of one page over an ordered collection
type pageWindow struct {
	Page      int
	PageCount int
	PageSize  int
	TotalSize int
	Start     int
	End       int
}

// paginate validates page against a collection of total items. An empty collection has
// a single empty first page.
func paginate(total, pageSize, page int) (pageWindow, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	pageCount := (total + pageSize - 1) / pageSize

	w := pageWindow{Page: page, PageCount: pageCount, PageSize: pageSize, TotalSize: total}
	if page < 1 {
		return w, fmt.Errorf("%w: page must be a positive integer, got %d", domain.ErrInvalidPage, page)
	}
	if total == 0 {
		if page != 1 {
			return w, fmt.Errorf("%w: page %d of an empty result", domain.ErrInvalidPage, page)
		}
		return w, nil
	}
	if page > pageCount {
		return w, fmt.Errorf("%w: page %d exceeds page count %d", domain.ErrInvalidPage, page, pageCount)
	}

	w.Start = (page - 1) * pageSize
	w.End = w.Start + pageSize
	if w.End > total {
		w.End = total
	}
	return w, nil
}
