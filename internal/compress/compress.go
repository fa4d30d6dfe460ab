// Package compress provides the stream compressors used for partition snapshots
package compress

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// A Compressor compresses a serialized snapshot to a write stream (and the inverse). Compressors
// reuse their internal state and are not safe for concurrent use.
type Compressor interface {
	Compress(w io.Writer, data []byte) error // Compress compresses data to a write stream
	Decompress(r io.Reader) ([]byte, error)  // Decompress reads and decompresses an entire read stream
	Destroy()                                // Destroy cleans up anything relevant when the Compressor is no longer needed
}

// LZ4Compressor is a Compressor which uses the lz4 compression algorithm
type LZ4Compressor struct {
	compressor         *lz4.Writer
	decompressor       *lz4.Reader
	reusableReadBuffer *bytes.Buffer
}

// NewLZ4Compressor instantiates a new LZ4Compressor
func NewLZ4Compressor() Compressor {
	return &LZ4Compressor{
		compressor:         lz4.NewWriter(new(bytes.Buffer)),
		decompressor:       lz4.NewReader(new(bytes.Buffer)),
		reusableReadBuffer: new(bytes.Buffer),
	}
}

// Compress compresses data to a write stream
func (c *LZ4Compressor) Compress(w io.Writer, data []byte) error {
	c.compressor.Reset(w)
	if _, err := c.compressor.Write(data); err != nil {
		return err
	}
	return c.compressor.Close()
}

// Decompress reads and decompresses an entire read stream
func (c *LZ4Compressor) Decompress(r io.Reader) ([]byte, error) {
	c.decompressor.Reset(r)
	c.reusableReadBuffer.Reset()
	if _, err := c.reusableReadBuffer.ReadFrom(c.decompressor); err != nil {
		return nil, err
	}
	return append([]byte(nil), c.reusableReadBuffer.Bytes()...), nil
}

// Destroy cleans up anything relevant when the Compressor is no longer needed
func (c *LZ4Compressor) Destroy() {
	c.reusableReadBuffer = new(bytes.Buffer)
}

// ZstdCompressor is a Compressor which uses the zstd compression algorithm
type ZstdCompressor struct {
	compressor   *zstd.Encoder
	decompressor *zstd.Decoder
}

// NewZstdCompressor instantiates a new ZstdCompressor
func NewZstdCompressor() (Compressor, error) {
	compressor, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	decompressor, err := zstd.NewReader(nil)
	if err != nil {
		compressor.Close()
		return nil, err
	}
	return &ZstdCompressor{
		compressor:   compressor,
		decompressor: decompressor,
	}, nil
}

// Compress compresses data to a write stream
func (c *ZstdCompressor) Compress(w io.Writer, data []byte) error {
	c.compressor.Reset(w)
	if _, err := c.compressor.Write(data); err != nil {
		return err
	}
	return c.compressor.Close()
}

// Decompress reads and decompresses an entire read stream
func (c *ZstdCompressor) Decompress(r io.Reader) ([]byte, error) {
	if err := c.decompressor.Reset(r); err != nil {
		return nil, err
	}
	return io.ReadAll(c.decompressor)
}

// Destroy cleans up anything relevant when the Compressor is no longer needed
func (c *ZstdCompressor) Destroy() {
	c.compressor.Close()
	c.decompressor.Close()
}
