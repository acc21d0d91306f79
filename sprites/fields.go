package sprites

// Fields stores each sprite attribute in its own slice, indexed in parallel.
// All slices always have the same length. Kernels may read and write the
// elements directly but must not append or reslice them.
type Fields struct {
	X, Y   []float32
	VX, VY []float32
	W, H   []float32
}

// NewFields creates an empty field-parallel store.
func NewFields() *Fields {
	const initial = 1024
	return &Fields{
		X:  make([]float32, 0, initial),
		Y:  make([]float32, 0, initial),
		VX: make([]float32, 0, initial),
		VY: make([]float32, 0, initial),
		W:  make([]float32, 0, initial),
		H:  make([]float32, 0, initial),
	}
}

func (f *Fields) Layout() Layout { return LayoutFields }

func (f *Fields) Len() int { return len(f.X) }

func (f *Fields) Add(s Sprite) {
	f.X = append(f.X, s.X)
	f.Y = append(f.Y, s.Y)
	f.VX = append(f.VX, s.VX)
	f.VY = append(f.VY, s.VY)
	f.W = append(f.W, s.W)
	f.H = append(f.H, s.H)
}

func (f *Fields) At(i int) Sprite {
	return Sprite{X: f.X[i], Y: f.Y[i], W: f.W[i], H: f.H[i], VX: f.VX[i], VY: f.VY[i]}
}

func (f *Fields) Set(i int, s Sprite) {
	f.X[i], f.Y[i] = s.X, s.Y
	f.VX[i], f.VY[i] = s.VX, s.VY
	f.W[i], f.H[i] = s.W, s.H
}

func (f *Fields) RemoveLastHalf() {
	if n := len(f.X); n > 1 {
		f.truncate(n / 2)
	}
}

func (f *Fields) Clear() { f.truncate(0) }

func (f *Fields) truncate(n int) {
	f.X = f.X[:n]
	f.Y = f.Y[:n]
	f.VX = f.VX[:n]
	f.VY = f.VY[:n]
	f.W = f.W[:n]
	f.H = f.H[:n]
}

func (f *Fields) Rects(dst []Rect) []Rect {
	for i := range f.X {
		dst = append(dst, Rect{X: f.X[i], Y: f.Y[i], W: f.W[i], H: f.H[i]})
	}
	return dst
}
