package nav

import (
	"slices"

	"github.com/speakeasy-api/fieldmap/internal/search"
	"github.com/speakeasy-api/fieldmap/internal/snapshot"
	"github.com/speakeasy-api/openapi/errors"
)

// ErrNoSnapshot is reported when a reload completes without producing a snapshot.
const ErrNoSnapshot = errors.Error("reload produced no snapshot")

// Dispatch returns the state that follows s after ev. Inputs that mean nothing in the current
// state return s unchanged.
func Dispatch(ev Event, s State) State {
	switch ev := ev.(type) {
	case KeyEvent:
		return dispatchKey(ev, s)
	case ReloadSucceeded:
		return applyReload(ev.Snapshot, s)
	case ReloadFailed:
		s.Loading = false
		msg := "Reload failed"
		if ev.Err != nil {
			msg += ": " + ev.Err.Error()
		}
		return setStatus(s, msg, true)
	case StatusExpired:
		if ev.Seq == s.StatusSeq {
			s.Status = ""
			s.StatusError = false
		}
		return s
	}
	return s
}

func dispatchKey(ev KeyEvent, s State) State {
	switch s.Mode {
	case ModeHelp:
		if ev.Key == KeyEsc {
			s.Mode = s.prevMode
		}
		return s
	case ModeDetail:
		return dispatchDetail(ev, s)
	case ModeSearch:
		return dispatchSearch(ev, s)
	default:
		return dispatchBrowse(ev, s)
	}
}

func dispatchBrowse(ev KeyEvent, s State) State {
	switch ev.Key {
	case KeyView1, KeyView2, KeyView3, KeyView4, KeyView5:
		return switchView(s, snapshot.Kind(ev.Key-KeyView1))
	case KeyTab:
		s.Panel = (s.Panel + 1) % panelCount
	case KeySlash:
		s.Mode = ModeSearch
		s.Panel = PanelLeft
	case KeyEnter:
		return enter(s)
	case KeyUp:
		return move(s, -1)
	case KeyDown:
		return move(s, 1)
	case KeyReload:
		if s.Loading {
			return s
		}
		s.Loading = true
		source := "document"
		if s.Snapshot != nil && s.Snapshot.Source != "" {
			source = s.Snapshot.Source
		}
		return setStatus(s, "Reloading "+source+"...", false)
	case KeyHelp:
		s.prevMode = s.Mode
		s.Mode = ModeHelp
	}
	return s
}

func dispatchSearch(ev KeyEvent, s State) State {
	switch ev.Key {
	case KeyView1, KeyView2, KeyView3, KeyView4, KeyView5:
		return switchView(s, snapshot.Kind(ev.Key-KeyView1))
	case KeyEsc:
		s.Query = ""
		s.Mode = ModeBrowse
		s.Views[s.View].Cursor = 0
	case KeyEnter:
		s = commit(s)
		s.Mode = ModeBrowse
	case KeyBackspace:
		if s.Query == "" {
			return s
		}
		r := []rune(s.Query)
		s.Query = string(r[:len(r)-1])
		s.Views[s.View].Cursor = 0
	case KeyUp:
		return moveLeft(s, -1)
	case KeyDown:
		return moveLeft(s, 1)
	default:
		if ev.Rune != 0 {
			s.Query += string(ev.Rune)
			s.Views[s.View].Cursor = 0
		}
	}
	return s
}

func dispatchDetail(ev KeyEvent, s State) State {
	switch ev.Key {
	case KeyView1, KeyView2, KeyView3, KeyView4, KeyView5:
		return switchView(s, snapshot.Kind(ev.Key-KeyView1))
	case KeyEsc:
		s.Mode = ModeBrowse
		s.Popup = Popup{}
	case KeyUp:
		s.Popup.Offset = clamp(s.Popup.Offset-1, len(s.Popup.Lines))
	case KeyDown:
		s.Popup.Offset = clamp(s.Popup.Offset+1, len(s.Popup.Lines))
	}
	return s
}

// switchView activates k in browse mode on the left panel. The query is dropped; the cursor of the
// view being left is moved onto the same item in its unfiltered list.
func switchView(s State, k snapshot.Kind) State {
	if s.Query != "" {
		vs := &s.Views[s.View]
		vs.Cursor = 0
		if item, ok := s.Highlighted(); ok {
			if i := indexOf(s.CurrentView().Candidates(s.Snapshot), item.ID); i >= 0 {
				vs.Cursor = i
			}
		}
		s.Query = ""
	}

	s.View = k
	s.Panel = PanelLeft
	s.Mode = ModeBrowse
	s.Popup = Popup{}
	s.Views[k].Cursor = clamp(s.Views[k].Cursor, len(s.LeftItems()))
	return s
}

func enter(s State) State {
	switch s.Panel {
	case PanelLeft:
		return commit(s)
	case PanelRight:
		item, ok := s.HighlightedRight()
		if !ok || item.Kind != ItemEndpoint {
			return s
		}
		popup, ok := endpointPopup(s.Snapshot, item.ID)
		if !ok {
			return s
		}
		s.Popup = popup
		s.Mode = ModeDetail
	}
	return s
}

// commit makes the highlighted left item the view's selection and focuses the center panel.
func commit(s State) State {
	item, ok := s.Highlighted()
	if !ok {
		return s
	}
	vs := &s.Views[s.View]
	if vs.Selection != item.ID {
		vs.CenterOffset = 0
		vs.RightCursor = 0
	}
	vs.Selection = item.ID
	s.Panel = PanelCenter
	return s
}

func move(s State, delta int) State {
	switch s.Panel {
	case PanelLeft:
		return moveLeft(s, delta)
	case PanelCenter:
		vs := &s.Views[s.View]
		vs.CenterOffset = clamp(vs.CenterOffset+delta, len(s.CenterLines()))
	case PanelRight:
		if _, ok := s.Selection(); !ok {
			return s
		}
		vs := &s.Views[s.View]
		vs.RightCursor = clamp(vs.RightCursor+delta, len(s.RightItems()))
	}
	return s
}

func moveLeft(s State, delta int) State {
	vs := &s.Views[s.View]
	vs.Cursor = clamp(vs.Cursor+delta, len(s.LeftItems()))
	return s
}

// applyReload swaps in snap and carries each view's selection over by id. A view without a
// selection keeps its highlighted item when the new list still has it, else returns to the top.
func applyReload(snap *snapshot.Snapshot, s State) State {
	if snap == nil {
		return Dispatch(ReloadFailed{Err: ErrNoSnapshot}, s)
	}

	active := s.View
	var highlighted [viewCount]string
	for _, k := range snapshot.Kinds {
		s.View = k
		if item, ok := s.highlightedIn(k == active); ok {
			highlighted[k] = item.ID
		}
	}

	s.Snapshot = snap
	s.Loading = false
	if s.Mode == ModeDetail {
		s.Mode = ModeBrowse
		s.Popup = Popup{}
	}

	for _, k := range snapshot.Kinds {
		s.View = k
		vs := &s.Views[k]
		all := ViewFor(k).Candidates(snap)
		items := all
		if k == active {
			items = s.LeftItems()
		}

		if vs.Selection != "" && indexOf(all, vs.Selection) < 0 {
			vs.Selection = ""
			highlighted[k] = ""
		}
		want := vs.Selection
		if want == "" {
			want = highlighted[k]
		}
		vs.Cursor = 0
		if i := indexOf(items, want); i >= 0 {
			vs.Cursor = i
		}

		vs.CenterOffset = clamp(vs.CenterOffset, len(s.CenterLines()))
		vs.RightCursor = clamp(vs.RightCursor, len(s.RightItems()))
	}
	s.View = active

	return setStatus(s, "Reloaded: "+snap.Summary(), false)
}

func setStatus(s State, msg string, isErr bool) State {
	s.Status = msg
	s.StatusError = isErr
	s.StatusSeq++
	return s
}

func indexOf(items []search.Candidate, id string) int {
	return slices.IndexFunc(items, func(c search.Candidate) bool {
		return c.ID == id
	})
}
