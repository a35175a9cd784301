/*
Package ktx drives a native KTX2 texture engine through a staged resource.

A texture moves forward only:

	Create -> BindImage -> [Compress] -> Write

Each stage returns a typed error carrying the engine result code. The
engine texture is destroyed exactly once, by Close or, for a texture that
became unreachable without Close, by a runtime cleanup. A failed Create
never reaches the engine's destroy call.

Engines live in sub-packages: soft is a pure-Go writer with ZLIB and Zstd
supercompression, native binds libktx and requires the ktx_native build tag.
*/
package ktx
