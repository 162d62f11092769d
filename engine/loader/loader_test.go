package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// inverseBinds encodes two MAT4 FLOAT matrices: identity and a translation by (0, -1, 0).
func inverseBinds() []byte {
	var buf bytes.Buffer
	for _, m := range []mgl32.Mat4{mgl32.Ident4(), mgl32.Translate3D(0, -1, 0)} {
		for _, v := range m {
			binary.Write(&buf, binary.LittleEndian, math.Float32bits(v))
		}
	}
	return buf.Bytes()
}

func testDocument(bufferURI string) string {
	return fmt.Sprintf(`{
  "asset": {"version": "2.0", "generator": "test"},
  "nodes": [
    {"name": "body", "mesh": 0, "skin": 0},
    {"name": "root", "children": [2], "translation": [0, 1, 0]},
    {"name": "arm", "rotation": [0, 0, 0, 1]},
    {"mesh": 1, "weights": [0.5, 0]}
  ],
  "meshes": [
    {"name": "bodyMesh", "primitives": [{"attributes": {
      "POSITION": 1, "NORMAL": 1, "TEXCOORD_0": 1, "TEXCOORD_1": 1, "COLOR_0": 2,
      "JOINTS_0": 2, "WEIGHTS_0": 2
    }}]},
    {"name": "face", "primitives": [{
      "attributes": {"POSITION": 1},
      "targets": [{"POSITION": 1, "NORMAL": 1}, {"POSITION": 1, "TEXCOORD_0": 1}]
    }], "extras": {"targetNames": ["smile"]}}
  ],
  "skins": [{"name": "rig", "inverseBindMatrices": 0, "joints": [1, 2]}],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 2, "type": "MAT4"},
    {"bufferView": 0, "componentType": 5126, "count": 1, "type": "VEC3"},
    {"bufferView": 0, "componentType": 5126, "count": 1, "type": "VEC4"}
  ],
  "bufferViews": [{"buffer": 0, "byteLength": 128}],
  "buffers": [{"byteLength": 128%s}]
}`, bufferURI)
}

func dataURI(b []byte) string {
	return `, "uri": "data:application/octet-stream;base64,` + base64.StdEncoding.EncodeToString(b) + `"`
}

func TestLoadReaderImportsMeshes(t *testing.T) {
	l := NewLoader()
	meshes, err := l.LoadReader("rig.gltf", strings.NewReader(testDocument(dataURI(inverseBinds()))))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("meshes:\nhave %d\nwant 2", len(meshes))
	}

	body := meshes[0]
	if have := body.Name(); have != "body" {
		t.Errorf("Name:\nhave %q\nwant %q", have, "body")
	}
	for _, k := range []model.VertexKind{model.KindNormal, model.KindUV, model.KindUV2, model.KindColor, model.KindMatricesIndices, model.KindMatricesWeights} {
		if !body.IsVerticesDataPresent(k) {
			t.Errorf("vertex kind %s missing", k)
		}
	}
	if body.IsVerticesDataPresent(model.KindTangent) {
		t.Error("undeclared tangents must not be present")
	}
	if !body.HasVertexAlpha() {
		t.Error("VEC4 colors must carry alpha")
	}
	if have := body.NumBoneInfluencers(); have != 4 {
		t.Errorf("NumBoneInfluencers:\nhave %d\nwant 4", have)
	}

	sk := body.Skeleton()
	if sk == nil || sk.BoneCount() != 2 {
		t.Fatalf("skeleton:\nhave %v\nwant 2 bones", sk)
	}
	bones := sk.Bones()
	if bones[0].ParentIndex != -1 || bones[1].ParentIndex != 0 {
		t.Errorf("parents:\nhave %d, %d\nwant -1, 0", bones[0].ParentIndex, bones[1].ParentIndex)
	}
	if have := bones[0].LocalTransform.Translation; have != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("root translation:\nhave %v\nwant %v", have, mgl32.Vec3{0, 1, 0})
	}
	if have := bones[1].InverseBindMatrix; !have.ApproxEqual(mgl32.Translate3D(0, -1, 0)) {
		t.Errorf("arm inverse bind:\nhave %v\nwant translation by (0, -1, 0)", have)
	}

	face := meshes[1]
	if have := face.Name(); have != "face" {
		t.Errorf("Name:\nhave %q\nwant %q", have, "face")
	}
	mgr := face.MorphTargetManager()
	if mgr == nil || len(mgr.Targets()) != 2 {
		t.Fatal("face must carry two morph targets")
	}
	smile, second := mgr.Targets()[0], mgr.Targets()[1]
	if smile.Name != "smile" || smile.Influence != 0.5 || !smile.HasNormals || smile.HasUVs {
		t.Errorf("smile:\nhave %+v\nwant named, weight 0.5, normals only", *smile)
	}
	if second.Name != "target1" || !second.HasUVs {
		t.Errorf("second target:\nhave %+v\nwant target1 with uvs", *second)
	}
	if have := mgr.Influencers(); have != 2 {
		t.Errorf("Influencers:\nhave %d\nwant 2", have)
	}
}

func TestLoadCachesDocumentAndBuildsNewMeshes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "rig.bin"), inverseBinds(), 0o600); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "rig.gltf")
	if err := os.WriteFile(path, []byte(testDocument(`, "uri": "rig.bin"`)), 0o600); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(WithBoneTextures(true), WithMeshOptions(model.WithReceiveShadows(true)))
	first, err := l.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !l.Cached(path) {
		t.Fatal("loaded document must be cached")
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	second, err := l.Load(path)
	if err != nil {
		t.Fatalf("cached Load: %v", err)
	}
	if first[0] == second[0] {
		t.Fatal("every Load must build new meshes")
	}
	if !second[0].ReceiveShadows() {
		t.Error("mesh options must apply to imported meshes")
	}
	if !second[0].Skeleton().UseTextureToStoreBoneMatrices() {
		t.Error("WithBoneTextures must reach imported skeletons")
	}

	l.Evict(path)
	if _, err := l.Load(path); err == nil {
		t.Fatal("evicted document must be read again")
	}
}

func TestLoadReaderGLB(t *testing.T) {
	doc := []byte(testDocument(""))
	for len(doc)%4 != 0 {
		doc = append(doc, ' ')
	}
	bin := inverseBinds()

	var buf bytes.Buffer
	total := 12 + 8 + len(doc) + 8 + len(bin)
	binary.Write(&buf, binary.LittleEndian, gltfGLBHeader{Magic: gltfGLBMagic, Version: gltfGLBVersion, Length: uint32(total)})
	binary.Write(&buf, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(doc)), ChunkType: gltfGLBChunkJSON})
	buf.Write(doc)
	binary.Write(&buf, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(bin)), ChunkType: gltfGLBChunkBIN})
	buf.Write(bin)

	meshes, err := NewLoader().LoadReader("rig.glb", &buf)
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if have := meshes[0].Skeleton().Bones()[1].InverseBindMatrix; !have.ApproxEqual(mgl32.Translate3D(0, -1, 0)) {
		t.Errorf("arm inverse bind:\nhave %v\nwant translation by (0, -1, 0)", have)
	}
}

func TestLoadReaderErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"version", `{"asset": {"version": "1.0"}}`, ErrInvalidVersion},
		{"glb", "glTF\x01\x00\x00\x00\x0c\x00\x00\x00", ErrInvalidGLB},
		{"accessor", strings.Replace(testDocument(dataURI(inverseBinds())), `"count": 2, "type": "MAT4"`, `"count": 2, "type": "VEC4"`, 1), ErrInvalidAccessor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoader()
			_, err := l.LoadReader(tt.name, strings.NewReader(tt.doc))
			if !errors.Is(err, tt.want) {
				t.Fatalf("err:\nhave %v\nwant %v", err, tt.want)
			}
			if l.Cached(tt.name) {
				t.Fatal("failed imports must not be cached")
			}
		})
	}
}
