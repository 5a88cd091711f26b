package assets

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/fitpulse/showcase/internal/domain/entities"
	"github.com/fitpulse/showcase/internal/domain/ports"
)

// Binary glTF (GLB) container layout, all values little-endian:
// a 12-byte header (magic, version, total length) followed by chunks,
// each with a 8-byte chunk header (length, type).
const (
	glbMagic     = 0x46546C67 // "glTF"
	glbVersion   = 2
	glbHeaderLen = 12
	chunkJSON    = 0x4E4F534A // "JSON"
	chunkBIN     = 0x004E4942 // "BIN\0"
)

var (
	// ErrNotGLB is returned when the payload lacks the glTF magic.
	ErrNotGLB = errors.New("not a binary glTF container")
	// ErrTruncatedGLB is returned when the container is shorter than
	// its header or chunk lengths declare.
	ErrTruncatedGLB = errors.New("truncated glTF container")
)

// GLBDecoder decodes binary glTF containers into scene resources.
type GLBDecoder struct{}

// NewGLBDecoder creates a GLB decoder.
func NewGLBDecoder() *GLBDecoder {
	return &GLBDecoder{}
}

// Decode validates the GLB header and splits the JSON and BIN chunks.
func (d *GLBDecoder) Decode(name, sourcePath string, data []byte) (*entities.SceneResource, error) {
	if len(data) < glbHeaderLen {
		return nil, ErrTruncatedGLB
	}

	magic := binary.LittleEndian.Uint32(data[0:4])
	if magic != glbMagic {
		return nil, ErrNotGLB
	}

	version := binary.LittleEndian.Uint32(data[4:8])
	if version != glbVersion {
		return nil, fmt.Errorf("unsupported glTF version %d", version)
	}

	declared := binary.LittleEndian.Uint32(data[8:12])
	if int(declared) > len(data) {
		return nil, ErrTruncatedGLB
	}

	res := &entities.SceneResource{
		Name:       name,
		SourcePath: sourcePath,
		ByteSize:   int64(declared),
		LoadedAt:   time.Now(),
	}

	offset := glbHeaderLen
	for offset < int(declared) {
		if int(declared)-offset < 8 {
			return nil, ErrTruncatedGLB
		}
		chunkLen := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
		chunkType := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		offset += 8

		if offset+chunkLen > int(declared) {
			return nil, ErrTruncatedGLB
		}

		chunk := make([]byte, chunkLen)
		copy(chunk, data[offset:offset+chunkLen])
		offset += chunkLen
		// Chunks are 4-byte aligned; skip padding.
		if pad := chunkLen % 4; pad != 0 {
			offset += 4 - pad
		}

		switch chunkType {
		case chunkJSON:
			res.Document = chunk
		case chunkBIN:
			res.Buffer = chunk
		default:
			// Unknown chunk types are ignored per the glTF spec.
		}
	}

	if res.Document == nil {
		return nil, errors.New("glTF container has no JSON chunk")
	}

	return res, nil
}

// Ensure GLBDecoder implements ModelDecoder
var _ ports.ModelDecoder = (*GLBDecoder)(nil)
