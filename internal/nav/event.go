package nav

import "github.com/speakeasy-api/fieldmap/internal/snapshot"

// Event is an input to Dispatch.
type Event interface {
	event()
}

// Key is a decoded key press.
type Key int

const (
	KeyNone Key = iota
	KeyView1
	KeyView2
	KeyView3
	KeyView4
	KeyView5
	KeyTab
	KeySlash
	KeyEsc
	KeyEnter
	KeyUp
	KeyDown
	KeyBackspace
	KeyReload
	KeyHelp
	// KeyRune is any other printable key.
	KeyRune
)

// KeyEvent is a key press. Rune is set for every printable key, including the ones decoded to a
// dedicated Key, so search input can take them verbatim.
type KeyEvent struct {
	Key  Key
	Rune rune
}

// ReloadSucceeded carries the snapshot built by a reload.
type ReloadSucceeded struct {
	Snapshot *snapshot.Snapshot
}

// ReloadFailed reports a reload that did not produce a snapshot.
type ReloadFailed struct {
	Err error
}

// StatusExpired clears the status message set with sequence number Seq.
type StatusExpired struct {
	Seq int
}

func (KeyEvent) event()        {}
func (ReloadSucceeded) event() {}
func (ReloadFailed) event()    {}
func (StatusExpired) event()   {}

// RuneKey decodes a printable rune the way the explorer binds keys in browse mode.
func RuneKey(r rune) KeyEvent {
	k := KeyRune
	switch r {
	case '1':
		k = KeyView1
	case '2':
		k = KeyView2
	case '3':
		k = KeyView3
	case '4':
		k = KeyView4
	case '5':
		k = KeyView5
	case '/':
		k = KeySlash
	case 'r':
		k = KeyReload
	case 'h', '?':
		k = KeyHelp
	}
	return KeyEvent{Key: k, Rune: r}
}
