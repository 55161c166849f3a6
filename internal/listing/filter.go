package listing

// Filter returns the listings passing sel in their original order. For
// AllCategories the input slice is returned as is.
func Filter(listings []Listing, sel Selection) []Listing {
	if sel.IsAll() {
		return listings
	}

	visible := make([]Listing, 0)
	for _, l := range listings {
		if sel.Matches(l.CategoryCode) {
			visible = append(visible, l)
		}
	}

	return visible
}

// MapEligible returns the subsequence of listings that have valid coordinates.
func MapEligible(listings []Listing) []Listing {
	eligible := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if l.MapEligible() {
			eligible = append(eligible, l)
		}
	}

	return eligible
}
