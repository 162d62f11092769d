package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrInvalidVersion is returned for documents that are not glTF 2.x.
	ErrInvalidVersion = errors.New("loader: invalid glTF version, must be 2.x")

	// ErrInvalidGLB is returned for malformed GLB containers.
	ErrInvalidGLB = errors.New("loader: invalid GLB container")

	// ErrInvalidAccessor is returned when an accessor does not hold the expected data.
	ErrInvalidAccessor = errors.New("loader: invalid accessor")
)

// gltfParser decodes glTF JSON and GLB containers and resolves their buffers. External
// buffer URIs are resolved against baseDir.
type gltfParser struct {
	baseDir string
}

// parse decodes data, detecting GLB containers by their magic number.
func (p *gltfParser) parse(data []byte) (*gltfDocument, error) {
	if len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == gltfGLBMagic {
		return p.parseGLB(data)
	}
	return p.parseJSON(data, nil)
}

func (p *gltfParser) parseJSON(data, bin []byte) (*gltfDocument, error) {
	var doc gltfDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("loader: parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, doc.Asset.Version)
	}
	for i := range doc.Buffers {
		if err := p.loadBuffer(&doc.Buffers[i], i, bin); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

// parseGLB splits a GLB container into its JSON and BIN chunks.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
func (p *gltfParser) parseGLB(data []byte) (*gltfDocument, error) {
	r := bytes.NewReader(data)

	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidGLB, err)
	}
	if header.Magic != gltfGLBMagic || header.Version != gltfGLBVersion {
		return nil, fmt.Errorf("%w: magic %#x version %d", ErrInvalidGLB, header.Magic, header.Version)
	}

	var jsonChunk, binChunk []byte
	for {
		var ch gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &ch); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: chunk header: %v", ErrInvalidGLB, err)
		}
		chunk := make([]byte, ch.ChunkLength)
		if _, err := io.ReadFull(r, chunk); err != nil {
			return nil, fmt.Errorf("%w: chunk data: %v", ErrInvalidGLB, err)
		}
		switch ch.ChunkType {
		case gltfGLBChunkJSON:
			jsonChunk = chunk
		case gltfGLBChunkBIN:
			binChunk = chunk
		}
	}
	if jsonChunk == nil {
		return nil, fmt.Errorf("%w: missing JSON chunk", ErrInvalidGLB)
	}
	return p.parseJSON(jsonChunk, binChunk)
}

// loadBuffer fills buf.Data from a data URI, a file next to the document, or the GLB BIN chunk.
func (p *gltfParser) loadBuffer(buf *gltfBuffer, i int, bin []byte) error {
	switch {
	case buf.URI == "" && i == 0 && bin != nil:
		buf.Data = bin
	case buf.URI == "":
		return fmt.Errorf("loader: buffer %d has no URI and no GLB binary chunk", i)
	case strings.HasPrefix(buf.URI, "data:"):
		comma := strings.IndexByte(buf.URI, ',')
		if comma < 0 || !strings.Contains(buf.URI[:comma], "base64") {
			return fmt.Errorf("loader: buffer %d: unsupported data URI", i)
		}
		data, err := base64.StdEncoding.DecodeString(buf.URI[comma+1:])
		if err != nil {
			return fmt.Errorf("loader: buffer %d: %w", i, err)
		}
		buf.Data = data
	default:
		data, err := os.ReadFile(filepath.Join(p.baseDir, buf.URI))
		if err != nil {
			return fmt.Errorf("loader: buffer %d: %w", i, err)
		}
		buf.Data = data
	}
	if len(buf.Data) < buf.ByteLength {
		return fmt.Errorf("loader: buffer %d: have %d bytes, want %d", i, len(buf.Data), buf.ByteLength)
	}
	return nil
}

// readAccessor returns the tightly packed bytes of accessor i.
func readAccessor(doc *gltfDocument, i int) (*gltfAccessor, []byte, error) {
	if i < 0 || i >= len(doc.Accessors) {
		return nil, nil, fmt.Errorf("%w: index %d out of range", ErrInvalidAccessor, i)
	}
	acc := &doc.Accessors[i]
	if acc.BufferView == nil || *acc.BufferView >= len(doc.BufferViews) {
		return nil, nil, fmt.Errorf("%w: accessor %d has no bufferView", ErrInvalidAccessor, i)
	}
	bv := &doc.BufferViews[*acc.BufferView]
	if bv.Buffer >= len(doc.Buffers) {
		return nil, nil, fmt.Errorf("%w: accessor %d references buffer %d", ErrInvalidAccessor, i, bv.Buffer)
	}
	src := doc.Buffers[bv.Buffer].Data

	elem := componentSize(acc.ComponentType) * componentCount(acc.Type)
	if elem == 0 {
		return nil, nil, fmt.Errorf("%w: accessor %d has type %s/%d", ErrInvalidAccessor, i, acc.Type, acc.ComponentType)
	}
	stride := elem
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	base := bv.ByteOffset + acc.ByteOffset
	if acc.Count > 0 && base+(acc.Count-1)*stride+elem > len(src) {
		return nil, nil, fmt.Errorf("%w: accessor %d overruns its buffer", ErrInvalidAccessor, i)
	}
	out := make([]byte, acc.Count*elem)
	for n := 0; n < acc.Count; n++ {
		copy(out[n*elem:(n+1)*elem], src[base+n*stride:])
	}
	return acc, out, nil
}

// readMat4Accessor reads a MAT4 FLOAT accessor as column-major matrices.
func readMat4Accessor(doc *gltfDocument, i int) ([]mgl32.Mat4, error) {
	acc, data, err := readAccessor(doc, i)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfAccessorTypeMat4 || acc.ComponentType != gltfComponentTypeFloat {
		return nil, fmt.Errorf("%w: accessor %d is %s/%d, want MAT4 FLOAT", ErrInvalidAccessor, i, acc.Type, acc.ComponentType)
	}
	out := make([]mgl32.Mat4, acc.Count)
	for n := range out {
		for c := 0; c < 16; c++ {
			off := (n*16 + c) * 4
			out[n][c] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		}
	}
	return out, nil
}

func componentSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeByte, gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeShort, gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	}
	return 0
}

func componentCount(accessorType string) int {
	switch accessorType {
	case gltfAccessorTypeScalar:
		return 1
	case gltfAccessorTypeVec2:
		return 2
	case gltfAccessorTypeVec3:
		return 3
	case gltfAccessorTypeVec4:
		return 4
	case gltfAccessorTypeMat4:
		return 16
	}
	return 0
}
