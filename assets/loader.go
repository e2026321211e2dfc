package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyClip is returned when a sound decodes to zero samples.
var ErrEmptyClip = errors.New("sound has no samples")

// Blob is an undecoded asset.
type Blob struct {
	Name string
	Data []byte
}

// ReadFile reads a file into a Blob named after its base name.
func ReadFile(path string) (Blob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Blob{}, fmt.Errorf("reading asset: %w", err)
	}
	return Blob{Name: filepath.Base(path), Data: data}, nil
}

// Clip is a decoded sound held fully in memory.
type Clip struct {
	buf *beep.Buffer
}

// NewClip wraps an already decoded buffer.
func NewClip(buf *beep.Buffer) *Clip {
	return &Clip{buf: buf}
}

// Streamer returns a fresh streamer over the whole clip.
func (c *Clip) Streamer() beep.StreamSeeker {
	return c.buf.Streamer(0, c.buf.Len())
}

// Len returns the clip length in samples.
func (c *Clip) Len() int { return c.buf.Len() }

// Format returns the clip's sample format.
func (c *Clip) Format() beep.Format { return c.buf.Format() }

// Duration returns the clip length.
func (c *Clip) Duration() time.Duration {
	return c.buf.Format().SampleRate.D(c.buf.Len())
}

// Loader decodes assets in the background. Each batch decodes with at most
// the configured number of goroutines; one failing asset never affects the
// others in its batch.
type Loader struct {
	limit int
	log   *slog.Logger
	wg    sync.WaitGroup

	mu   sync.Mutex
	errs []error
}

// NewLoader creates a loader running up to concurrency decoders per batch.
func NewLoader(concurrency int, log *slog.Logger) *Loader {
	if concurrency < 1 {
		concurrency = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Loader{limit: concurrency, log: log}
}

// LoadImages starts decoding every blob and returns one slot per blob, in order.
func (l *Loader) LoadImages(blobs []Blob) []*Slot[image.Image] {
	slots := make([]*Slot[image.Image], len(blobs))
	for i, b := range blobs {
		slots[i] = NewSlot[image.Image](b.Name)
	}

	l.batch(func(g *errgroup.Group) {
		for i, b := range blobs {
			slot := slots[i]
			g.Go(func() error {
				img, err := DecodeImage(b.Data)
				if err != nil {
					err = fmt.Errorf("image %s: %w", b.Name, err)
					slot.Fail(err)
					return err
				}
				slot.Bind(img)
				l.log.Info("image loaded", "name", b.Name, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
				return nil
			})
		}
	})
	return slots
}

// LoadSound starts decoding a WAV blob, resampled to rate.
func (l *Loader) LoadSound(b Blob, rate beep.SampleRate) *Slot[*Clip] {
	slot := NewSlot[*Clip](b.Name)

	l.batch(func(g *errgroup.Group) {
		g.Go(func() error {
			clip, err := DecodeSound(b.Data, rate)
			if err != nil {
				err = fmt.Errorf("sound %s: %w", b.Name, err)
				slot.Fail(err)
				return err
			}
			slot.Bind(clip)
			l.log.Info("sound loaded", "name", b.Name, "duration_ms", clip.Duration().Milliseconds())
			return nil
		})
	})
	return slot
}

// batch runs submit on a background goroutine so a full errgroup never
// blocks the caller.
func (l *Loader) batch(submit func(g *errgroup.Group)) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		var g errgroup.Group
		g.SetLimit(l.limit)
		submit(&g)
		if err := g.Wait(); err != nil {
			l.log.Error("asset decode failed", "error", err)
			l.mu.Lock()
			l.errs = append(l.errs, err)
			l.mu.Unlock()
		}
	}()
}

// Wait blocks until every started batch finishes and returns the first
// error of each failed batch, joined.
func (l *Loader) Wait() error {
	l.wg.Wait()
	l.mu.Lock()
	defer l.mu.Unlock()
	return errors.Join(l.errs...)
}

// DecodeImage decodes any registered raster format (png, jpeg, gif, bmp, webp).
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// DecodeSound decodes WAV data into an in-memory clip at the given rate.
func DecodeSound(data []byte, rate beep.SampleRate) (*Clip, error) {
	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding wav: %w", err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if rate != 0 && format.SampleRate != rate {
		src = beep.Resample(4, format.SampleRate, rate, streamer)
		format.SampleRate = rate
	}

	buf := beep.NewBuffer(format)
	buf.Append(src)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("reading wav samples: %w", err)
	}
	if buf.Len() == 0 {
		return nil, ErrEmptyClip
	}
	return NewClip(buf), nil
}
