/*
Package dxt compresses RGBA8 images into BC1/BC3 (DXT) block data and writes
the result as a blob with a JSON sidecar.

Opaque images use BC1 and are tagged "dxt1". Images with any non-opaque pixel
use BC3 and are tagged "dxt5", or "dxt4" when colour was premultiplied by
alpha. Blobs are stored raw by default; a DDS header or the Enfusion EDDS
layout (DDS header, block table and an LZ4 chunk stream with a rolling 64KB
dictionary) can be selected per write.
*/
package dxt
