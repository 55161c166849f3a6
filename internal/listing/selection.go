package listing

// AllCode is the wire code of the no-filter category.
const AllCode = "all"

// Selection is either every category or one specific category code. The
// zero value selects every category.
type Selection struct {
	code     string
	specific bool
}

func AllCategories() Selection {
	return Selection{}
}

func SpecificCategory(code string) Selection {
	return Selection{code: code, specific: true}
}

// ParseSelection maps a wire category code to a Selection. Empty and "all"
// mean every category.
func ParseSelection(code string) Selection {
	if code == "" || code == AllCode {
		return AllCategories()
	}

	return SpecificCategory(code)
}

func (s Selection) IsAll() bool {
	return !s.specific
}

// Code returns the selected category code, false for AllCategories.
func (s Selection) Code() (string, bool) {
	return s.code, s.specific
}

// Matches reports whether a listing with the category code passes the selection.
func (s Selection) Matches(categoryCode string) bool {
	return !s.specific || s.code == categoryCode
}

func (s Selection) String() string {
	if !s.specific {
		return AllCode
	}

	return s.code
}

// SelectionState owns the active selection. It is the only writer; every
// other component reads it through Current.
type SelectionState struct {
	current   Selection
	observers []func(Selection)
}

func NewSelectionState() *SelectionState {
	return &SelectionState{current: AllCategories()}
}

func (s *SelectionState) Current() Selection {
	return s.current
}

// Observe registers fn to run synchronously after every change.
func (s *SelectionState) Observe(fn func(Selection)) {
	s.observers = append(s.observers, fn)
}

// Select makes sel the active selection and notifies observers before
// returning. Selecting the current value is a no-op and returns false.
func (s *SelectionState) Select(sel Selection) bool {
	if sel == s.current {
		return false
	}

	s.current = sel
	for _, fn := range s.observers {
		fn(sel)
	}

	return true
}
