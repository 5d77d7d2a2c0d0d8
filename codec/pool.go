package codec

import (
	"sync"

	"github.com/pkg/errors"

	poselite "github.com/poselite/go-poselite"
)

// Sample pairs the keypoints and visibility of one instance for batch
// encoding
type Sample struct {
	Keypoints []poselite.Point
	Visible   []float32
}

// EncoderPool is a simple codec pool to encode batches of samples across
// multiple workers, in the manner of a data loader feeding a training loop
type EncoderPool struct {
	// pool of codecs
	codecs chan Codec
	// size of pool
	size   int
	mu     sync.Mutex
	closed bool
	close  sync.Once
}

// NewEncoderPool creates a new encoder pool holding size codecs built by
// the given factory
func NewEncoderPool(size int, factory func() (Codec, error)) (*EncoderPool, error) {

	if size <= 0 {
		return nil, errors.Errorf("pool size %d must be positive", size)
	}

	p := &EncoderPool{
		codecs: make(chan Codec, size),
		size:   size,
	}

	for i := 0; i < size; i++ {
		c, err := factory()

		if err != nil {
			// release any codecs created before receiving the error
			p.Close()
			return nil, err
		}

		// attach to pool
		p.Return(c)
	}

	return p, nil
}

// Get a codec from the pool
func (p *EncoderPool) Get() Codec {
	return <-p.codecs
}

// Return a codec to the pool.  Returning to a closed pool is a no-op
func (p *EncoderPool) Return(c Codec) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	select {
	case p.codecs <- c:
	default:
		// pool is full
	}
}

// Close the pool
func (p *EncoderPool) Close() {
	p.close.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.codecs)
		p.mu.Unlock()

		for range p.codecs {
		}
	})
}

// EncodeBatch encodes all samples concurrently, one worker per pooled
// codec, and returns the targets in sample order.  The first sample error
// aborts the batch
func (p *EncoderPool) EncodeBatch(samples []Sample) ([]*Target, error) {

	targets := make([]*Target, len(samples))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i := range samples {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			c := p.Get()

			if c == nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = errors.New("encoder pool is closed")
				}
				mu.Unlock()
				return
			}

			defer p.Return(c)

			target, err := c.Encode(samples[i].Keypoints, samples[i].Visible)

			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = errors.Wrapf(err, "encoding sample %d", i)
				}
				mu.Unlock()
				return
			}

			targets[i] = target
		}(i)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	return targets, nil
}
