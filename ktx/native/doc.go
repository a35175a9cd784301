// Package native binds libktx as a ktx.Engine.
//
// By default the package builds in disabled mode: Enabled reports false and
// New returns an error. To link libktx build with:
//
//	-tags ktx_native
//
// with CGO_ENABLED=1 and libktx (headers and shared library) installed where
// the C toolchain finds them, or exported through pkg-config as "ktx".
//
// Tunables absent from the parameter structs are left zero, which libktx
// treats as its own default.
package native
