package card

// PlaceholderTitle is the title of a slot that has not received text yet.
const PlaceholderTitle = "Loading"

// Geometry holds the dimensional constants of a cache.
type Geometry struct {
	Slots int

	BackgroundWidth   int
	BackgroundHeight  int
	BackgroundPattern Pattern

	IconWidth   int
	IconHeight  int
	IconStride  int // 0 derives the stride from RowAlign
	IconPattern Pattern

	RowAlign int

	TitleSize   int
	BodySize    int
	ActionsSize int
}

// Slot is one cache entry.
type Slot struct {
	index int

	ID    int32
	Owned bool

	Title   *Text
	Body    *Text
	Actions *Text

	Icon       *Bitmap
	Background *Bitmap

	dirty bool
}

func newSlot(index int, g Geometry) *Slot {
	s := &Slot{
		index:      index,
		Title:      NewText(g.TitleSize),
		Body:       NewText(g.BodySize),
		Actions:    NewText(g.ActionsSize),
		Icon:       NewBitmap(g.IconWidth, g.IconHeight, g.RowAlign, g.IconStride, g.IconPattern),
		Background: NewBitmap(g.BackgroundWidth, g.BackgroundHeight, g.RowAlign, 0, g.BackgroundPattern),
	}
	s.Reset()
	return s
}

// Index is the position of the slot in its cache.
func (s *Slot) Index() int { return s.index }

// Reset restores placeholder content. Ownership is left unchanged.
func (s *Slot) Reset() {
	s.Title.Reset(PlaceholderTitle)
	s.Body.Reset("")
	s.Actions.Reset("")
	s.Icon.Reset()
	s.Background.Reset()
	s.dirty = true
}

// OwnedBy reports whether id most recently wrote this slot.
func (s *Slot) OwnedBy(id int32) bool { return s.Owned && s.ID == id }

func (s *Slot) MarkDirty()  { s.dirty = true }
func (s *Slot) Dirty() bool { return s.dirty }
func (s *Slot) ClearDirty() { s.dirty = false }
