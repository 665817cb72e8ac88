package system

import (
	"image"
	"sync"
)

// FramePool recycles *image.RGBA frame buffers by rectangle. A renderer
// pulls one buffer per frame and the sink hands it back once written.
type FramePool struct {
	pools sync.Map // image.Rectangle -> *sync.Pool
}

func NewFramePool() *FramePool {
	return &FramePool{}
}

var globalPool = NewFramePool()

// GetImage returns a buffer from the shared pool. Its contents are
// undefined; callers clear it before drawing.
func GetImage(rect image.Rectangle) *image.RGBA {
	return globalPool.Get(rect)
}

// PutImage returns a buffer to the shared pool.
func PutImage(img *image.RGBA) {
	globalPool.Put(img)
}

func (p *FramePool) Get(rect image.Rectangle) *image.RGBA {
	v, ok := p.pools.Load(rect)
	if !ok {
		v, _ = p.pools.LoadOrStore(rect, &sync.Pool{
			New: func() any { return image.NewRGBA(rect) },
		})
	}
	return v.(*sync.Pool).Get().(*image.RGBA)
}

// Put ignores nil buffers and sizes the pool never handed out.
func (p *FramePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	if v, ok := p.pools.Load(img.Rect); ok {
		v.(*sync.Pool).Put(img)
	}
}
