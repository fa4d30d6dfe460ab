package partitioned

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-sif/segmented/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func testSnapshotRoundTrip(t *testing.T, compression Compression) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	sizes := []int{3, 0, 5, 2}
	src := createTestVector(t, &Options{Sizes: sizes, NumQueues: 2, Compression: compression})
	defer src.Close()
	host := sequence(10)
	require.Nil(t, src.Fill(ctx, host))

	var snap bytes.Buffer
	require.Nil(t, src.Save(ctx, &snap))

	// the snapshot names its compressor, so the destination's setting does not matter
	dst := createTestVector(t, &Options{Sizes: sizes, NumQueues: 3})
	defer dst.Close()
	require.Nil(t, dst.Load(ctx, &snap))
	out, err := dst.ToSlice(ctx)
	require.Nil(t, err)
	require.Equal(t, host, out)
	require.Equal(t, []int{0, 2, 3}, dst.Dirty())
}

func TestSnapshotRoundTripLZ4(t *testing.T) {
	testSnapshotRoundTrip(t, LZ4)
}

func TestSnapshotRoundTripZstd(t *testing.T) {
	testSnapshotRoundTrip(t, Zstd)
}

func TestLoadRejectsMismatchedLayout(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	src := createTestVector(t, &Options{Sizes: []int{2, 2}})
	defer src.Close()
	var snap bytes.Buffer
	require.Nil(t, src.Save(ctx, &snap))
	saved := snap.Bytes()

	fewer := createTestVector(t, &Options{Sizes: []int{4}})
	defer fewer.Close()
	err := fewer.Load(ctx, bytes.NewReader(saved))
	require.IsType(t, errors.LayoutError{}, err)
	require.Equal(t, "sizes", err.(errors.LayoutError).Field)

	resized := createTestVector(t, &Options{Sizes: []int{2, 3}})
	defer resized.Close()
	err = resized.Load(ctx, bytes.NewReader(saved))
	require.IsType(t, errors.LayoutError{}, err)
	require.Equal(t, "sizes.1", err.(errors.LayoutError).Field)
	require.Empty(t, resized.Dirty())
}

func TestLoadRejectsUnknownCompressor(t *testing.T) {
	defer goleak.VerifyNone(t)
	v := createTestVector(t, &Options{Len: 1})
	defer v.Close()
	err := v.Load(context.Background(), bytes.NewReader([]byte{9, 0, 0}))
	require.IsType(t, errors.LayoutError{}, err)
	err = v.Load(context.Background(), bytes.NewReader(nil))
	require.Error(t, err)
}
