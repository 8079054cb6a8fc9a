package viewmodel

import (
	"github.com/Veraticus/tradedash/internal/model"
	"github.com/Veraticus/tradedash/internal/service"
)

// DefaultPageSize is the initial number of rows per page.
const DefaultPageSize = 10

// PageSizeOptions are the rows-per-page choices offered in the footer.
var PageSizeOptions = []int{5, 10, 25}

// TableState is the view state of the transaction table. Records hold the
// fetch order and are never reordered; sorting happens in View.
type TableState struct {
	Err       error
	Selection map[string]struct{}
	Records   []model.Transaction
	Sort      SortSpec
	Page      int
	PageSize  int
	Loading   bool
}

// NewTableState returns the initial state: loading, sorted by date
// ascending, on the first page.
func NewTableState(pageSize int) *TableState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &TableState{
		Loading:   true,
		Sort:      DefaultSort(),
		PageSize:  pageSize,
		Selection: make(map[string]struct{}),
	}
}

// State reports whether the table is loading, ready or failed.
func (s *TableState) State() AppState {
	switch {
	case s.Loading:
		return StateLoading
	case s.Err != nil:
		return StateError
	default:
		return StateReady
	}
}

// StartLoading marks a fetch as in flight and clears the previous error.
func (s *TableState) StartLoading() {
	s.Loading = true
	s.Err = nil
}

// Loaded applies the outcome of a fetch. Loading is always cleared. An
// unsuccessful response becomes an error wrapping
// common.ErrUnsuccessfulResponse; previously loaded records are kept.
func (s *TableState) Loaded(resp *service.TransactionsResponse, err error) {
	s.Loading = false

	switch {
	case err != nil:
		s.Err = err
		return
	case resp.Failure() != nil:
		s.Err = resp.Failure()
		return
	}

	s.Err = nil
	s.Records = resp.Payload
	s.pruneSelection()
}

// SortBy activates column c.
func (s *TableState) SortBy(c Column) {
	s.Sort = s.Sort.Toggle(c)
}

// SetPage replaces the page index.
func (s *TableState) SetPage(n int) {
	s.Page = n
}

// SetPageSize replaces the page size.
func (s *TableState) SetPageSize(n int) {
	s.PageSize = n
}

// PageCount is the number of pages needed for the loaded records, at least
// one.
func (s *TableState) PageCount() int {
	if s.PageSize <= 0 || len(s.Records) == 0 {
		return 1
	}
	return (len(s.Records) + s.PageSize - 1) / s.PageSize
}

// NextPage advances one page, stopping at the last.
func (s *TableState) NextPage() {
	if s.Page < s.PageCount()-1 {
		s.Page++
	}
}

// PrevPage goes back one page, stopping at the first.
func (s *TableState) PrevPage() {
	if s.Page > 0 {
		s.Page--
	}
}

// CyclePageSize moves to the next page size option and returns to the first
// page.
func (s *TableState) CyclePageSize() {
	next := PageSizeOptions[0]
	for i, size := range PageSizeOptions {
		if size == s.PageSize && i+1 < len(PageSizeOptions) {
			next = PageSizeOptions[i+1]
			break
		}
	}
	s.PageSize = next
	s.Page = 0
}

// View renders the current page.
func (s *TableState) View() PageView {
	return RenderRows(s.Records, s.Sort, s.Page, s.PageSize)
}

// ToggleSelect flips the selection of the record with the given id.
func (s *TableState) ToggleSelect(id string) {
	if id == "" {
		return
	}
	if _, ok := s.Selection[id]; ok {
		delete(s.Selection, id)
		return
	}
	s.Selection[id] = struct{}{}
}

// SelectPage selects every record on the current page.
func (s *TableState) SelectPage() {
	for _, row := range s.View().Rows {
		s.Selection[row.ID] = struct{}{}
	}
}

// ClearSelection deselects everything.
func (s *TableState) ClearSelection() {
	clear(s.Selection)
}

// Selected reports whether id is selected.
func (s *TableState) Selected(id string) bool {
	_, ok := s.Selection[id]
	return ok
}

// SelectedCount is the number of selected records.
func (s *TableState) SelectedCount() int {
	return len(s.Selection)
}

func (s *TableState) pruneSelection() {
	if len(s.Selection) == 0 {
		return
	}
	present := make(map[string]struct{}, len(s.Records))
	for _, r := range s.Records {
		present[r.ID] = struct{}{}
	}
	for id := range s.Selection {
		if _, ok := present[id]; !ok {
			delete(s.Selection, id)
		}
	}
}
