package gltfext

import "github.com/pkg/errors"

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNoMesh          = errors.New("content key has no mesh")
	ErrNilDocument     = errors.New("nil glTF document")
)
