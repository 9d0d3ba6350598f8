package image

import (
	"image"
	"sync"
)

// Pool recycles RGBA buffers of identical size. Exports allocate a
// working buffer per commit; repeated commits of the same preview, and
// batch workers rendering similar images, reuse them.
//
// The pool retains at most maxBytes of pixel data across all sizes.
// Putting a buffer that does not fit evicts buffers of other sizes
// first, so a long-running process that sees many distinct sizes keeps
// only the most recent ones.
//
// Safe for concurrent use.
type Pool struct {
	mu       sync.Mutex
	buckets  map[poolKey][]*image.RGBA
	maxSize  int // max buffers per bucket, <= 0 is unlimited
	maxBytes int // max retained pixel bytes, <= 0 is unlimited
	retained int
}

type poolKey struct {
	width  int
	height int
}

func (k poolKey) bytes() int { return 4 * k.width * k.height }

// NewPool returns a pool keeping at most maxPerBucket buffers of each
// size and at most maxBytes of pixel data in total.
func NewPool(maxPerBucket, maxBytes int) *Pool {
	return &Pool{
		buckets:  make(map[poolKey][]*image.RGBA),
		maxSize:  maxPerBucket,
		maxBytes: maxBytes,
	}
}

// Get returns a transparent width x height buffer with origin (0, 0),
// reused from the pool when one is available. It returns nil for
// non-positive dimensions.
func (p *Pool) Get(width, height int) *image.RGBA {
	if width <= 0 || height <= 0 {
		return nil
	}
	key := poolKey{width: width, height: height}

	p.mu.Lock()
	if img := p.pop(key); img != nil {
		p.mu.Unlock()
		return img
	}
	p.mu.Unlock()

	return image.NewRGBA(image.Rect(0, 0, width, height))
}

// Put zeroes img and keeps it for reuse. Nil buffers, sub-images,
// buffers beyond the bucket limit and buffers larger than the whole
// byte budget are dropped.
func (p *Pool) Put(img *image.RGBA) {
	if img == nil || img.Rect.Min != (image.Point{}) || img.Rect.Empty() {
		return
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if img.Stride != 4*w || len(img.Pix) != 4*w*h {
		return
	}
	key := poolKey{width: w, height: h}
	size := key.bytes()
	if p.maxBytes > 0 && size > p.maxBytes {
		return
	}
	clear(img.Pix)

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	if p.maxBytes > 0 {
		p.evict(key, p.retained+size-p.maxBytes)
		if p.retained+size > p.maxBytes {
			return
		}
	}
	p.buckets[key] = append(p.buckets[key], img)
	p.retained += size
}

// Retained reports the pixel bytes currently held by the pool.
func (p *Pool) Retained() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.retained
}

// pop removes a buffer of size key. The caller holds p.mu.
func (p *Pool) pop(key poolKey) *image.RGBA {
	bucket := p.buckets[key]
	n := len(bucket)
	if n == 0 {
		return nil
	}
	img := bucket[n-1]
	bucket[n-1] = nil
	if n == 1 {
		delete(p.buckets, key)
	} else {
		p.buckets[key] = bucket[:n-1]
	}
	p.retained -= key.bytes()
	return img
}

// evict drops buffers of sizes other than keep until at least need bytes
// are freed. The caller holds p.mu.
func (p *Pool) evict(keep poolKey, need int) {
	for key := range p.buckets {
		if need <= 0 {
			return
		}
		if key == keep {
			continue
		}
		for need > 0 && p.pop(key) != nil {
			need -= key.bytes()
		}
	}
}

// defaultPool backs export working surfaces.
var defaultPool = NewPool(4, 256<<20)

// GetFromDefault is Get on the package pool.
func GetFromDefault(width, height int) *image.RGBA {
	return defaultPool.Get(width, height)
}

// PutToDefault is Put on the package pool.
func PutToDefault(img *image.RGBA) {
	defaultPool.Put(img)
}
