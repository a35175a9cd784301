package dxt

import (
	"path/filepath"
	"testing"
)

func BenchmarkCompressBC3(b *testing.B) {
	pix := gradient(256, 256, 200)
	dst := make([]byte, CompressedSize(BC3, 256, 256))

	b.SetBytes(int64(len(pix)))
	b.ReportAllocs()
	for b.Loop() {
		if err := Compress(BC3, pix, 256, 256, dst, nil); err != nil {
			b.Fatalf("Compress: %v", err)
		}
	}
}

func BenchmarkWriteEDDS(b *testing.B) {
	pix := gradient(256, 256, 255)
	data := make([]byte, CompressedSize(BC1, 256, 256))
	if err := Compress(BC1, pix, 256, 256, data, nil); err != nil {
		b.Fatalf("Compress: %v", err)
	}
	path := filepath.Join(b.TempDir(), "bench.dxt1")
	blob := Blob{Codec: BC1, Width: 256, Height: 256, Data: data}

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for b.Loop() {
		if _, err := WriteBlob(path, blob, ContainerEDDS); err != nil {
			b.Fatalf("WriteBlob: %v", err)
		}
	}
}
