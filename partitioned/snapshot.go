package partitioned

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/go-sif/segmented/errors"
	"github.com/go-sif/segmented/internal/compress"
)

// snapshot is the encoded form of a Vector's contents
type snapshot[T any] struct {
	Sizes      []int
	Partitions [][]T
}

// snapshot header bytes, naming the compressor of the payload which follows
const (
	lz4Tag  byte = 1
	zstdTag byte = 2
)

func createCompressor(tag byte) (compress.Compressor, error) {
	switch tag {
	case lz4Tag:
		return compress.NewLZ4Compressor(), nil
	case zstdTag:
		return compress.NewZstdCompressor()
	default:
		return nil, errors.LayoutError{Field: "compression", Reason: fmt.Sprintf("unknown snapshot compressor %d", tag)}
	}
}

func compressionTag(c Compression) byte {
	if c == Zstd {
		return zstdTag
	}
	return lz4Tag
}

// Save writes the partition sizes and contents of this Vector to w, compressed as configured by
// Options.Compression. Each partition is read under its exclusive section, so a concurrent Fill
// or Load is never half visible within a partition.
func (v *Vector[T]) Save(ctx context.Context, w io.Writer) error {
	snap := snapshot[T]{
		Sizes:      v.Sizes(),
		Partitions: make([][]T, v.Parts()),
	}
	for i := range v.buffers {
		snap.Partitions[i] = make([]T, v.buffers[i].Len())
		if len(snap.Partitions[i]) == 0 {
			continue
		}
		if err := v.readPartition(ctx, i, snap.Partitions[i]); err != nil {
			return err
		}
	}
	var encoded bytes.Buffer
	if err := gob.NewEncoder(&encoded).Encode(&snap); err != nil {
		return err
	}
	tag := compressionTag(v.opts.Compression)
	compressor, err := createCompressor(tag)
	if err != nil {
		return err
	}
	defer compressor.Destroy()
	if _, err := w.Write([]byte{tag}); err != nil {
		return err
	}
	if err := compressor.Compress(w, encoded.Bytes()); err != nil {
		return err
	}
	v.log.Infof("saved %d elements in %d partitions (%s, %d bytes before compression)", v.Len(), v.Parts(), v.opts.Compression, encoded.Len())
	return nil
}

// Load replaces the contents of this Vector with a snapshot written by Save. The snapshot must
// have the same partition sizes as this Vector; its compressor is read from the snapshot itself.
func (v *Vector[T]) Load(ctx context.Context, r io.Reader) error {
	tag := make([]byte, 1)
	if _, err := io.ReadFull(r, tag); err != nil {
		return err
	}
	compressor, err := createCompressor(tag[0])
	if err != nil {
		return err
	}
	defer compressor.Destroy()
	data, err := compressor.Decompress(r)
	if err != nil {
		return err
	}
	var snap snapshot[T]
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return err
	}
	if len(snap.Sizes) != v.Parts() || len(snap.Partitions) != v.Parts() {
		return errors.LayoutError{Field: "sizes", Reason: fmt.Sprintf("snapshot has %d partitions, vector has %d", len(snap.Sizes), v.Parts())}
	}
	for i, size := range snap.Sizes {
		if size != v.buffers[i].Len() || len(snap.Partitions[i]) != size {
			return errors.LayoutError{Field: fmt.Sprintf("sizes.%d", i), Reason: fmt.Sprintf("snapshot partition has %d elements, vector partition has %d", size, v.buffers[i].Len())}
		}
	}
	for i := range v.buffers {
		if v.buffers[i].Len() == 0 {
			continue
		}
		if err := v.writePartition(ctx, i, snap.Partitions[i]); err != nil {
			return err
		}
	}
	v.log.Infof("loaded %d elements in %d partitions", v.Len(), v.Parts())
	return nil
}

func (v *Vector[T]) writePartition(ctx context.Context, partition int, host []T) error {
	v.lockPartition(partition)
	defer v.unlockPartition(partition)
	q, err := v.Resolve(partition)
	if err != nil {
		return err
	}
	event, err := v.buffers[partition].CopyFrom(ctx, q, host, 0)
	if err != nil {
		return err
	}
	v.markDirty(partition)
	return event.Wait(ctx)
}
