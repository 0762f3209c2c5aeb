package nav_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/speakeasy-api/fieldmap/internal/nav"
	"github.com/speakeasy-api/fieldmap/internal/snapshot"
	"github.com/speakeasy-api/fieldmap/internal/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workedTree(userFields ...string) *spec.Tree {
	tree := spec.NewTree()
	tree.Title = "Clinic"
	user := &spec.Schema{Name: "User", Description: "A user", Fields: []spec.Field{{Name: "id", Type: "integer", Required: true}}}
	for _, f := range userFields {
		user.Fields = append(user.Fields, spec.Field{Name: f, Type: "string"})
	}
	tree.AddSchema(user)
	tree.AddSchema(&spec.Schema{Name: "Patient", Description: "A patient", Fields: []spec.Field{
		{Name: "id", Type: "integer"},
		{Name: "user_id", Type: "integer"},
	}})
	tree.AddPath("/user",
		&spec.Endpoint{Method: "GET", Summary: "Get user", Responses: []spec.Response{{Status: "200", Payload: &spec.Payload{Ref: "User"}}}},
		&spec.Endpoint{Method: "POST", Summary: "Create user", RequestBody: &spec.Payload{Ref: "User"}},
	)
	tree.AddPath("/user/{id}",
		&spec.Endpoint{Method: "PUT", Summary: "Replace user", RequestBody: &spec.Payload{Ref: "User"}},
	)
	return tree
}

func build(t *testing.T, tree *spec.Tree) *snapshot.Snapshot {
	t.Helper()
	s, err := snapshot.Build(t.Context(), tree, snapshot.WithSourceName("clinic.yaml"))
	require.NoError(t, err)
	return s
}

func key(k nav.Key) nav.KeyEvent {
	return nav.KeyEvent{Key: k}
}

func run(s nav.State, events ...nav.Event) nav.State {
	for _, ev := range events {
		s = nav.Dispatch(ev, s)
	}
	return s
}

func TestNew_InitialState(t *testing.T) {
	t.Parallel()

	s := nav.New(build(t, workedTree("name")))

	assert.Equal(t, snapshot.KindFields, s.View)
	assert.Equal(t, nav.PanelLeft, s.Panel)
	assert.Equal(t, nav.ModeBrowse, s.Mode)
	assert.Empty(t, s.Query)
	assert.Equal(t, "Fields", s.CurrentView().Title())

	item, ok := s.Highlighted()
	require.True(t, ok)
	assert.Equal(t, "id", item.ID)

	_, ok = s.Selection()
	assert.False(t, ok)
	assert.Empty(t, s.CenterLines())
	assert.Empty(t, s.RightItems())
}

func TestDispatch_IsPure(t *testing.T) {
	t.Parallel()

	s0 := nav.New(build(t, workedTree("name")))
	s1 := nav.Dispatch(key(nav.KeyDown), s0)

	assert.Equal(t, 0, s0.Current().Cursor)
	assert.Equal(t, 1, s1.Current().Cursor)
}

func TestDispatch_ViewSwitchPreservesCursors(t *testing.T) {
	t.Parallel()

	s := nav.New(build(t, workedTree("name")))
	s = run(s, key(nav.KeyDown), key(nav.KeyDown), key(nav.KeyTab))
	assert.Equal(t, 2, s.Current().Cursor)
	assert.Equal(t, nav.PanelCenter, s.Panel)

	s = run(s, key(nav.KeyView2))
	assert.Equal(t, snapshot.KindSchemas, s.View)
	assert.Equal(t, nav.PanelLeft, s.Panel)
	assert.Equal(t, 0, s.Current().Cursor)

	s = run(s, key(nav.KeyDown), key(nav.KeyView1))
	assert.Equal(t, snapshot.KindFields, s.View)
	assert.Equal(t, 2, s.Current().Cursor)
	assert.Equal(t, 1, s.Views[snapshot.KindSchemas].Cursor)
}

func TestDispatch_TabCyclesPanels(t *testing.T) {
	t.Parallel()

	s := nav.New(build(t, workedTree("name")))

	expected := []nav.Panel{nav.PanelCenter, nav.PanelRight, nav.PanelLeft, nav.PanelCenter}
	for _, p := range expected {
		s = nav.Dispatch(key(nav.KeyTab), s)
		assert.Equal(t, p, s.Panel)
	}
	assert.Empty(t, s.RightItems(), "nothing is selected, so the right panel is empty")
}

func TestDispatch_Search(t *testing.T) {
	t.Parallel()

	s := nav.New(build(t, workedTree("name")))
	s = run(s, key(nav.KeyDown), key(nav.KeyDown), key(nav.KeySlash))
	assert.Equal(t, nav.ModeSearch, s.Mode)
	assert.Equal(t, 2, s.Current().Cursor, "entering search keeps the cursor")

	s = run(s, nav.RuneKey('i'), nav.RuneKey('d'))
	assert.Equal(t, "id", s.Query)
	assert.Equal(t, 0, s.Current().Cursor)
	assert.Equal(t, []string{"id", "user_id"}, ids(s))

	s = run(s, key(nav.KeyDown))
	assert.Equal(t, 1, s.Current().Cursor)

	s = run(s, key(nav.KeyBackspace))
	assert.Equal(t, "i", s.Query)
	assert.Equal(t, 0, s.Current().Cursor)

	s = run(s, key(nav.KeyTab))
	assert.Equal(t, nav.PanelLeft, s.Panel, "tab does nothing while typing")

	s = run(s, key(nav.KeyEsc))
	assert.Equal(t, nav.ModeBrowse, s.Mode)
	assert.Empty(t, s.Query)
	assert.Equal(t, 0, s.Current().Cursor)
	assert.Equal(t, []string{"id", "name", "user_id"}, ids(s))
}

func TestDispatch_SearchTakesBoundKeysAsText(t *testing.T) {
	t.Parallel()

	s := nav.New(build(t, workedTree("name")))
	s = run(s, key(nav.KeySlash), nav.RuneKey('r'), nav.RuneKey('h'), nav.RuneKey('/'))

	assert.Equal(t, "rh/", s.Query)
	assert.Equal(t, snapshot.KindFields, s.View)
	assert.False(t, s.Loading)
	assert.Equal(t, nav.ModeSearch, s.Mode)
	assert.Empty(t, s.LeftItems())
	assert.Equal(t, 0, s.Current().Cursor)

	s = run(s, key(nav.KeyDown), key(nav.KeyUp), key(nav.KeyEnter))
	assert.Equal(t, 0, s.Current().Cursor)
	_, ok := s.Selection()
	assert.False(t, ok, "an empty list commits nothing")
}

func TestDispatch_SearchEnterCommits(t *testing.T) {
	t.Parallel()

	s := nav.New(build(t, workedTree("name")))
	s = run(s, key(nav.KeySlash), nav.RuneKey('u'), nav.RuneKey('s'), key(nav.KeyEnter))

	assert.Equal(t, nav.ModeBrowse, s.Mode)
	assert.Equal(t, nav.PanelCenter, s.Panel)
	assert.Equal(t, "us", s.Query, "the filter stays after committing")
	sel, ok := s.Selection()
	require.True(t, ok)
	assert.Equal(t, "user_id", sel)
	assert.NotEmpty(t, s.CenterLines())
}

func TestDispatch_ViewSwitchClearsQuery(t *testing.T) {
	t.Parallel()

	s := nav.New(build(t, workedTree("name")))
	s = run(s, key(nav.KeySlash), nav.RuneKey('u'), nav.RuneKey('s'), key(nav.KeyEnter), key(nav.KeyView2))

	assert.Empty(t, s.Query)
	assert.Equal(t, nav.ModeBrowse, s.Mode)
	assert.Equal(t, 2, s.Views[snapshot.KindFields].Cursor, "the cursor follows user_id into the full list")
}

func TestDispatch_ViewKeyLeavesSearch(t *testing.T) {
	t.Parallel()

	s := nav.New(build(t, workedTree("name")))
	s = run(s, key(nav.KeySlash), nav.RuneKey('i'), nav.RuneKey('3'))

	assert.Equal(t, snapshot.KindEndpoints, s.View)
	assert.Equal(t, nav.PanelLeft, s.Panel)
	assert.Equal(t, nav.ModeBrowse, s.Mode)
	assert.Empty(t, s.Query)
	assert.Equal(t, []string{"GET /user", "POST /user", "PUT /user/{id}"}, ids(s))
	assert.Equal(t, 0, s.Views[snapshot.KindFields].Cursor)
}

func TestDispatch_ViewKeyLeavesDetail(t *testing.T) {
	t.Parallel()

	s := nav.New(build(t, workedTree("name")))
	s = run(s, key(nav.KeyEnter), key(nav.KeyTab), key(nav.KeyEnter))
	require.Equal(t, nav.ModeDetail, s.Mode)
	require.NotEmpty(t, s.Popup.Lines)

	s = run(s, nav.RuneKey('2'))

	assert.Equal(t, snapshot.KindSchemas, s.View)
	assert.Equal(t, nav.PanelLeft, s.Panel)
	assert.Equal(t, nav.ModeBrowse, s.Mode)
	assert.Equal(t, nav.Popup{}, s.Popup)
	assert.Equal(t, "id", s.Views[snapshot.KindFields].Selection, "the fields view keeps its selection")
}

func TestDispatch_RightPanelNeedsSelection(t *testing.T) {
	t.Parallel()

	s := run(nav.New(build(t, workedTree("name"))), key(nav.KeyTab), key(nav.KeyTab))
	require.Equal(t, nav.PanelRight, s.Panel)

	down := nav.Dispatch(key(nav.KeyDown), s)
	up := nav.Dispatch(key(nav.KeyUp), s)
	assert.Equal(t, s, down)
	assert.Equal(t, s, up)

	assert.Equal(t, s, nav.Dispatch(key(nav.KeyEnter), s))
}

func TestDispatch_EndpointDetail(t *testing.T) {
	t.Parallel()

	s := nav.New(build(t, workedTree("name")))
	s = run(s, key(nav.KeyEnter))
	sel, _ := s.Selection()
	require.Equal(t, "id", sel)
	assert.Equal(t, nav.PanelCenter, s.Panel)

	right := s.RightItems()
	require.Len(t, right, 3)
	assert.Equal(t, "GET /user", right[0].Label)

	s = run(s, key(nav.KeyTab), key(nav.KeyDown), key(nav.KeyDown), key(nav.KeyDown))
	assert.Equal(t, 2, s.Current().RightCursor)

	s = run(s, key(nav.KeyEnter))
	require.Equal(t, nav.ModeDetail, s.Mode)
	assert.Equal(t, "PUT /user/{id}", s.Popup.Title)
	assert.NotEmpty(t, s.Popup.Lines)

	s = run(s, key(nav.KeyDown), key(nav.KeyEsc))
	assert.Equal(t, nav.ModeBrowse, s.Mode)
	assert.Empty(t, s.Popup.Lines)
	assert.Equal(t, 2, s.Current().RightCursor)
	assert.Equal(t, 0, s.Current().Cursor)
}

func TestDispatch_EndpointsViewRightPanelListsFields(t *testing.T) {
	t.Parallel()

	s := nav.New(build(t, workedTree("name")))
	s = run(s, key(nav.KeyView3), key(nav.KeyDown), key(nav.KeyEnter), key(nav.KeyTab))

	sel, _ := s.Selection()
	assert.Equal(t, "POST /user", sel)
	right := s.RightItems()
	require.NotEmpty(t, right)
	assert.Equal(t, nav.ItemField, right[0].Kind)

	after := nav.Dispatch(key(nav.KeyEnter), s)
	assert.Equal(t, nav.ModeBrowse, after.Mode)
}

func TestDispatch_Help(t *testing.T) {
	t.Parallel()

	s := nav.New(build(t, workedTree("name")))
	s = run(s, key(nav.KeyDown), nav.RuneKey('h'))
	assert.Equal(t, nav.ModeHelp, s.Mode)

	ignored := run(s, key(nav.KeyDown), nav.RuneKey('2'), key(nav.KeyTab), nav.RuneKey('r'))
	assert.Equal(t, s, ignored)

	s = run(s, key(nav.KeyEsc))
	assert.Equal(t, nav.ModeBrowse, s.Mode)
	assert.Equal(t, 1, s.Current().Cursor)
}

func TestDispatch_ReloadKeepsSelection(t *testing.T) {
	t.Parallel()

	s := nav.New(build(t, workedTree("name")))
	s = run(s, key(nav.KeyDown), key(nav.KeyDown), key(nav.KeyEnter))
	sel, _ := s.Selection()
	require.Equal(t, "user_id", sel)

	s = run(s, nav.RuneKey('r'))
	assert.True(t, s.Loading)
	assert.Equal(t, "Reloading clinic.yaml...", s.Status)

	again := nav.Dispatch(nav.RuneKey('r'), s)
	assert.Equal(t, s, again, "reload is ignored while one is running")

	next := build(t, workedTree("alpha", "beta"))
	s = nav.Dispatch(nav.ReloadSucceeded{Snapshot: next}, s)

	assert.False(t, s.Loading)
	assert.Same(t, next, s.Snapshot)
	sel, ok := s.Selection()
	require.True(t, ok)
	assert.Equal(t, "user_id", sel)
	assert.Equal(t, 3, s.Current().Cursor)
	assert.Contains(t, s.Status, "Reloaded")
	assert.False(t, s.StatusError)
}

func TestDispatch_ReloadKeepsHighlightedItem(t *testing.T) {
	t.Parallel()

	s := nav.New(build(t, workedTree("name")))
	s = run(s, key(nav.KeyDown))
	require.Equal(t, 1, s.Current().Cursor)

	moved := nav.Dispatch(nav.ReloadSucceeded{Snapshot: build(t, workedTree("alpha", "name"))}, s)
	item, ok := moved.Highlighted()
	require.True(t, ok)
	assert.Equal(t, "name", item.ID)
	assert.Equal(t, 2, moved.Current().Cursor)

	gone := nav.Dispatch(nav.ReloadSucceeded{Snapshot: build(t, workedTree())}, s)
	assert.Equal(t, 0, gone.Current().Cursor)
}

func TestDispatch_ReloadWithoutSnapshot(t *testing.T) {
	t.Parallel()

	snap := build(t, workedTree("name"))
	s := run(nav.New(snap), nav.RuneKey('r'))

	s = nav.Dispatch(nav.ReloadSucceeded{}, s)

	assert.False(t, s.Loading)
	assert.Same(t, snap, s.Snapshot)
	assert.True(t, s.StatusError)
	assert.Equal(t, "Reload failed: "+nav.ErrNoSnapshot.Error(), s.Status)
}

func TestDispatch_ReloadDropsMissingSelection(t *testing.T) {
	t.Parallel()

	s := nav.New(build(t, workedTree("name")))
	s = run(s, key(nav.KeyDown), key(nav.KeyEnter), nav.RuneKey('r'))
	sel, _ := s.Selection()
	require.Equal(t, "name", sel)

	s = nav.Dispatch(nav.ReloadSucceeded{Snapshot: build(t, workedTree())}, s)

	_, ok := s.Selection()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Current().Cursor)
	assert.Empty(t, s.RightItems())
}

func TestDispatch_ReloadFailedKeepsSnapshot(t *testing.T) {
	t.Parallel()

	snap := build(t, workedTree("name"))
	s := run(nav.New(snap), key(nav.KeyEnter), nav.RuneKey('r'))
	before := s

	s = nav.Dispatch(nav.ReloadFailed{Err: errors.New("document declares no endpoints")}, s)

	assert.False(t, s.Loading)
	assert.Same(t, snap, s.Snapshot)
	assert.Equal(t, "Reload failed: document declares no endpoints", s.Status)
	assert.True(t, s.StatusError)
	assert.Equal(t, before.Views, s.Views)
}

func TestDispatch_StatusExpired(t *testing.T) {
	t.Parallel()

	s := run(nav.New(build(t, workedTree("name"))), nav.RuneKey('r'))
	seq := s.StatusSeq
	s = nav.Dispatch(nav.ReloadFailed{Err: errors.New("boom")}, s)

	stale := nav.Dispatch(nav.StatusExpired{Seq: seq}, s)
	assert.Equal(t, "Reload failed: boom", stale.Status)

	cleared := nav.Dispatch(nav.StatusExpired{Seq: s.StatusSeq}, s)
	assert.Empty(t, cleared.Status)
	assert.False(t, cleared.StatusError)
}

func TestViews_DetailAndRelated(t *testing.T) {
	t.Parallel()

	snap := build(t, workedTree("name"))

	s := run(nav.New(snap), key(nav.KeyView2), key(nav.KeyEnter))
	assert.Equal(t, "Schemas", s.CurrentView().Title())
	lines := s.CenterLines()
	require.NotEmpty(t, lines)
	assert.Equal(t, nav.Line{Kind: nav.LineHeading, Text: "User"}, lines[0])
	assert.Len(t, s.RightItems(), 3)

	s = run(s, key(nav.KeyView4), key(nav.KeyEnter))
	sel, _ := s.Selection()
	assert.Contains(t, []string{"Patient", "User"}, sel)
	assert.Equal(t, nav.LineHeading, s.CenterLines()[0].Kind)

	s = run(s, key(nav.KeyView5))
	assert.Equal(t, []string{"overview", "types", "methods", "top", "warnings"}, ids(s))
	s = run(s, key(nav.KeyDown), key(nav.KeyDown), key(nav.KeyEnter))
	lines = s.CenterLines()
	require.Len(t, lines, 4)
	assert.Equal(t, "HTTP methods", lines[0].Text)
	assert.Equal(t, nav.Line{Kind: nav.LineProperty, Label: "GET", Text: "1", Color: "green"}, lines[1])
	assert.Empty(t, s.RightItems())

	s = run(s, key(nav.KeyTab), key(nav.KeyDown))
	assert.Equal(t, 0, s.Current().RightCursor)
}

func TestDispatch_CursorSafety(t *testing.T) {
	t.Parallel()

	snaps := []*snapshot.Snapshot{
		build(t, workedTree("name")),
		build(t, workedTree("alpha", "beta", "gamma")),
		build(t, workedTree()),
	}
	events := []nav.Event{
		key(nav.KeyView1), key(nav.KeyView2), key(nav.KeyView3), key(nav.KeyView4), key(nav.KeyView5),
		key(nav.KeyTab), key(nav.KeySlash), key(nav.KeyEsc), key(nav.KeyEnter),
		key(nav.KeyUp), key(nav.KeyDown), key(nav.KeyDown), key(nav.KeyBackspace),
		nav.RuneKey('i'), nav.RuneKey('d'), nav.RuneKey('u'), nav.RuneKey('x'), nav.RuneKey('r'), nav.RuneKey('h'),
		nav.ReloadFailed{Err: errors.New("boom")},
	}

	rng := rand.New(rand.NewPCG(1, 2))
	s := nav.New(snaps[0])
	for step := range 5000 {
		var ev nav.Event
		if rng.IntN(25) == 0 {
			ev = nav.ReloadSucceeded{Snapshot: snaps[rng.IntN(len(snaps))]}
		} else {
			ev = events[rng.IntN(len(events))]
		}
		s = nav.Dispatch(ev, s)

		vs := s.Current()
		assertInRange(t, vs.Cursor, len(s.LeftItems()), step, "left")
		assertInRange(t, vs.RightCursor, len(s.RightItems()), step, "right")
		assertInRange(t, vs.CenterOffset, len(s.CenterLines()), step, "center")
		if s.Mode == nav.ModeDetail {
			assertInRange(t, s.Popup.Offset, len(s.Popup.Lines), step, "popup")
		}
	}
}

func assertInRange(t *testing.T, cursor, n, step int, panel string) {
	t.Helper()
	if n == 0 {
		assert.Equal(t, 0, cursor, "step %d %s", step, panel)
		return
	}
	assert.GreaterOrEqual(t, cursor, 0, "step %d %s", step, panel)
	assert.Less(t, cursor, n, "step %d %s", step, panel)
}

func ids(s nav.State) []string {
	items := s.LeftItems()
	out := make([]string, len(items))
	for i, c := range items {
		out[i] = c.ID
	}
	return out
}
