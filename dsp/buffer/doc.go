// Package buffer provides planar multichannel sample blocks that are
// allocated once and reused across processing calls.
package buffer
