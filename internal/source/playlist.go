package source

// Playlist tracks the model on screen and the one most recently asked for.
// The shown model only changes once its mesh has been installed, so a failed
// load leaves the previous model in place.
type Playlist struct {
	models  []Model
	current int
	want    int
}

func NewPlaylist(models []Model) *Playlist {
	return &Playlist{models: models}
}

func (p *Playlist) Len() int {
	return len(p.models)
}

// Current returns the model whose mesh is shown.
func (p *Playlist) Current() (int, Model) {
	return p.current, p.models[p.current]
}

// Model returns the i-th model.
func (p *Playlist) Model(i int) Model {
	return p.models[i]
}

// Pending reports whether a different model than the shown one was requested.
func (p *Playlist) Pending() bool {
	return p.want != p.current
}

// Step moves the requested model by delta, wrapping around, starting from
// the last request so repeated steps keep moving. ok is false when there is
// nothing to switch to.
func (p *Playlist) Step(delta int) (index int, m Model, ok bool) {
	n := len(p.models)
	if n < 2 {
		return p.current, p.models[p.current], false
	}
	p.want = ((p.want+delta)%n + n) % n
	return p.want, p.models[p.want], true
}

// Install reports whether a freshly loaded mesh for model index should be
// shown. The requested model becomes current; a reload of the current model
// is shown while nothing else is requested or still in flight.
func (p *Playlist) Install(index int) bool {
	if index == p.want {
		p.current = index
		return true
	}
	return index == p.current
}

// Failed forgets a request whose load failed.
func (p *Playlist) Failed(index int) {
	if index == p.want {
		p.want = p.current
	}
}
