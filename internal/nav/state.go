// Package nav implements the selection state machine behind the explorer: which view is active,
// which panel has focus, the per-view cursors and selections, search input and popups.
//
// State is a plain value. Dispatch takes an event and a state and returns the next state without
// side effects; the runtime renders from the returned value.
package nav

import (
	"fmt"

	"github.com/speakeasy-api/fieldmap/internal/search"
	"github.com/speakeasy-api/fieldmap/internal/snapshot"
)

// Panel is one of the three side-by-side panels of a view.
type Panel int

const (
	PanelLeft Panel = iota
	PanelCenter
	PanelRight

	panelCount
)

func (p Panel) String() string {
	switch p {
	case PanelLeft:
		return "left"
	case PanelCenter:
		return "center"
	case PanelRight:
		return "right"
	default:
		return fmt.Sprintf("panel(%d)", int(p))
	}
}

// Mode is the input mode.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeSearch
	ModeHelp
	ModeDetail
)

func (m Mode) String() string {
	switch m {
	case ModeBrowse:
		return "browse"
	case ModeSearch:
		return "search"
	case ModeHelp:
		return "help"
	case ModeDetail:
		return "detail"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

const viewCount = 5

// ViewState is the part of the state each view keeps for itself across view switches.
type ViewState struct {
	// Cursor indexes the (possibly filtered) left list.
	Cursor int
	// CenterOffset is the first visible line of the center panel.
	CenterOffset int
	// RightCursor indexes the right panel list.
	RightCursor int
	// Selection is the id committed with Enter, empty when nothing is selected.
	Selection string
}

// Popup is the detail overlay opened from the right panel.
type Popup struct {
	Title  string
	Lines  []Line
	Offset int
}

// State is the complete navigation state.
type State struct {
	View  snapshot.Kind
	Panel Panel
	Mode  Mode
	// Query filters the left list of the active view.
	Query string
	Views [viewCount]ViewState
	Popup Popup

	// Loading is set from the reload key until the reload result arrives.
	Loading bool
	Status  string
	// StatusError marks Status as a failure message.
	StatusError bool
	// StatusSeq increases with every status change so a stale expiry can be ignored.
	StatusSeq int

	Snapshot *snapshot.Snapshot

	prevMode Mode
}

// New returns the initial state (Fields, Left, Browse) over snap.
func New(snap *snapshot.Snapshot) State {
	return State{
		View:     snapshot.KindFields,
		Panel:    PanelLeft,
		Mode:     ModeBrowse,
		Snapshot: snap,
	}
}

// CurrentView returns the active view.
func (s State) CurrentView() View {
	return ViewFor(s.View)
}

// Current returns the active view's own state.
func (s State) Current() ViewState {
	return s.Views[s.View]
}

// LeftItems returns the active view's left list after filtering by Query.
func (s State) LeftItems() []search.Candidate {
	return search.Rank(s.Query, s.CurrentView().Candidates(s.Snapshot), search.WithMinScore(s.Snapshot.MinScore()))
}

// Highlighted returns the left list item under the cursor.
func (s State) Highlighted() (search.Candidate, bool) {
	return s.highlightedIn(true)
}

// highlightedIn returns the item under the active view's cursor, in the filtered list when
// filtered is set and in the full list otherwise.
func (s State) highlightedIn(filtered bool) (search.Candidate, bool) {
	items := s.CurrentView().Candidates(s.Snapshot)
	if filtered {
		items = s.LeftItems()
	}
	if len(items) == 0 {
		return search.Candidate{}, false
	}
	return items[clamp(s.Current().Cursor, len(items))], true
}

// Selection returns the active view's committed selection.
func (s State) Selection() (string, bool) {
	sel := s.Current().Selection
	return sel, sel != ""
}

// CenterLines returns the center panel content for the active view's selection.
func (s State) CenterLines() []Line {
	sel, ok := s.Selection()
	if !ok || s.Snapshot == nil {
		return nil
	}
	return s.CurrentView().Detail(s.Snapshot, sel)
}

// RightItems returns the right panel list for the active view's selection. It is empty when
// nothing is selected.
func (s State) RightItems() []Item {
	sel, ok := s.Selection()
	if !ok || s.Snapshot == nil {
		return nil
	}
	return s.CurrentView().Related(s.Snapshot, sel)
}

// HighlightedRight returns the right panel item under the cursor.
func (s State) HighlightedRight() (Item, bool) {
	items := s.RightItems()
	if len(items) == 0 {
		return Item{}, false
	}
	return items[clamp(s.Current().RightCursor, len(items))], true
}

// clamp bounds a cursor to [0, n-1], or 0 for an empty list.
func clamp(cursor, n int) int {
	if n <= 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
