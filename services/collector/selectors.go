package collector

import "github.com/PuerkitoBio/goquery"

// SelectorChain is an ordered list of css selectors for one extraction
// target. Chains are evaluated in priority order and the first
// selector that yields any match wins; results are never merged across
// selectors. Portal markup drifts, so these are configuration, not
// logic: the defaults below mirror what the portals serve today and a
// deployment can override them wholesale.
type SelectorChain []string

// FindFirst evaluates the chain against a document.
func (c SelectorChain) FindFirst(doc *goquery.Document) *goquery.Selection {
	for _, selector := range c {
		sel := doc.Find(selector)
		if sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// LoginSelectors identifies the controls a login state machine steps
// through. TriggerText is matched against link/button text because the
// entry buttons on both portals carry no stable attributes.
type LoginSelectors struct {
	TriggerText    string `json:"trigger_text"`
	Identifier     string `json:"identifier"`
	IdentifierNext string `json:"identifier_next"`
	Secret         string `json:"secret"`
	SecretNext     string `json:"secret_next"`
	// "stay signed in" prompt, federated flow only. resolving it in
	// either direction is acceptable, declining preferred.
	StayDecline string `json:"stay_decline"`
	StayAccept  string `json:"stay_accept"`
	// Landing is the marker that proves authentication completed and
	// the course overview rendered.
	Landing string `json:"landing"`
}

// ScrapeSelectors identifies course links and assignment-like elements
// on the authenticated pages.
type ScrapeSelectors struct {
	CourseLinks SelectorChain `json:"course_links"`
	Assignments SelectorChain `json:"assignments"`
	// AssignmentAncestor scopes the structural due-date search: the
	// closest matching ancestor of an assignment element is searched
	// for one of the DueDates containers.
	AssignmentAncestor string        `json:"assignment_ancestor"`
	DueDates           SelectorChain `json:"due_dates"`
}
