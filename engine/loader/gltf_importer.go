package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// attributeKinds maps glTF attribute semantics to the vertex kinds they provide.
var attributeKinds = map[string]model.VertexKind{
	"POSITION":  model.KindPosition,
	"NORMAL":    model.KindNormal,
	"TANGENT":   model.KindTangent,
	"COLOR_0":   model.KindColor,
	"JOINTS_0":  model.KindMatricesIndices,
	"WEIGHTS_0": model.KindMatricesWeights,
	"JOINTS_1":  model.KindMatricesIndicesExtra,
	"WEIGHTS_1": model.KindMatricesWeightsExtra,
}

// importDocument builds one mesh per node that references a glTF mesh.
func (l *loader) importDocument(doc *gltfDocument) ([]model.Mesh, error) {
	parents := make([]int, len(doc.Nodes))
	for i := range parents {
		parents[i] = -1
	}
	for i, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(parents) {
				parents[c] = i
			}
		}
	}

	var meshes []model.Mesh
	for i, node := range doc.Nodes {
		if node.Mesh == nil {
			continue
		}
		if *node.Mesh < 0 || *node.Mesh >= len(doc.Meshes) {
			return nil, fmt.Errorf("node %d references mesh %d", i, *node.Mesh)
		}
		gm := &doc.Meshes[*node.Mesh]
		if len(gm.Primitives) == 0 {
			continue
		}

		opts := append([]model.MeshBuilderOption(nil), l.meshOptions...)
		opts = append(opts, model.WithName(meshName(node, gm, i)))

		kinds, influencers, vertexAlpha := l.vertexKinds(doc, gm)
		opts = append(opts, model.WithVertexKinds(kinds...))
		if vertexAlpha {
			opts = append(opts, model.WithVertexColors(true, true))
		}

		if node.Skin != nil {
			sk, err := l.skeleton(doc, *node.Skin, parents)
			if err != nil {
				return nil, fmt.Errorf("node %d: %w", i, err)
			}
			opts = append(opts, model.WithSkeleton(sk, influencers))
		}

		if mgr := l.morphTargets(node, gm); mgr != nil {
			opts = append(opts, model.WithMorphTargetManager(mgr))
		}

		meshes = append(meshes, model.NewMesh(opts...))
	}
	return meshes, nil
}

func meshName(node gltfNode, gm *gltfMesh, i int) string {
	switch {
	case node.Name != "":
		return node.Name
	case gm.Name != "":
		return gm.Name
	}
	return "mesh" + strconv.Itoa(i)
}

// vertexKinds collects the vertex kinds of every primitive, the bone influencers per vertex
// and whether the vertex colors carry alpha.
func (l *loader) vertexKinds(doc *gltfDocument, gm *gltfMesh) ([]model.VertexKind, int, bool) {
	seen := make(map[model.VertexKind]bool)
	var kinds []model.VertexKind
	add := func(k model.VertexKind) {
		if !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}

	influencers := 0
	vertexAlpha := false
	for _, prim := range gm.Primitives {
		for semantic, acc := range prim.Attributes {
			if k, ok := attributeKinds[semantic]; ok {
				add(k)
			}
			if set, ok := strings.CutPrefix(semantic, "TEXCOORD_"); ok {
				if n, err := strconv.Atoi(set); err == nil && n >= 0 && n < len(model.UVKinds) {
					add(model.UVKinds[n])
				}
			}
			switch semantic {
			case "JOINTS_0":
				influencers = max(influencers, 4)
			case "JOINTS_1":
				influencers = max(influencers, 8)
			case "COLOR_0":
				if acc >= 0 && acc < len(doc.Accessors) && doc.Accessors[acc].Type == gltfAccessorTypeVec4 {
					vertexAlpha = true
				}
			}
		}
	}
	return kinds, influencers, vertexAlpha
}

// skeleton builds the skeleton of skin s. Joints must list parents before children, which
// is what exporters emit.
func (l *loader) skeleton(doc *gltfDocument, s int, parents []int) (*model.Skeleton, error) {
	if s < 0 || s >= len(doc.Skins) {
		return nil, fmt.Errorf("skin %d out of range", s)
	}
	skin := &doc.Skins[s]

	var inverseBinds []mgl32.Mat4
	if skin.InverseBindMatrices != nil {
		m, err := readMat4Accessor(doc, *skin.InverseBindMatrices)
		if err != nil {
			return nil, fmt.Errorf("skin %d: %w", s, err)
		}
		inverseBinds = m
	}

	slot := make(map[int]int, len(skin.Joints))
	bones := make([]model.Bone, len(skin.Joints))
	for j, n := range skin.Joints {
		if n < 0 || n >= len(doc.Nodes) {
			return nil, fmt.Errorf("skin %d: joint %d references node %d", s, j, n)
		}
		parent := int32(-1)
		if p, ok := slot[parents[n]]; ok {
			parent = int32(p)
		} else if _, later := indexOf(skin.Joints[j+1:], parents[n]); later {
			return nil, fmt.Errorf("skin %d: joint %d precedes its parent", s, j)
		}
		slot[n] = j

		bones[j] = model.Bone{
			Name:              doc.Nodes[n].Name,
			ParentIndex:       parent,
			InverseBindMatrix: mgl32.Ident4(),
			LocalTransform:    nodeTransform(doc.Nodes[n]),
		}
		if j < len(inverseBinds) {
			bones[j].InverseBindMatrix = inverseBinds[j]
		}
	}

	sk := model.NewSkeleton(skin.Name, bones...)
	sk.SetUseTextureToStoreBoneMatrices(l.boneTextures)
	return sk, nil
}

func indexOf(s []int, v int) (int, bool) {
	for i, x := range s {
		if x == v {
			return i, true
		}
	}
	return -1, false
}

func nodeTransform(n gltfNode) model.Transform {
	t := model.IdentityTransform()
	if n.Translation != nil {
		t.Translation = mgl32.Vec3(*n.Translation)
	}
	if r := n.Rotation; r != nil {
		t.Rotation = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
	}
	if n.Scale != nil {
		t.Scale = mgl32.Vec3(*n.Scale)
	}
	return t
}

// morphTargets builds the morph target manager of gm from its first primitive; glTF requires
// every primitive to declare the same targets. The shader is compiled for every target so
// animating weights does not change the variant.
func (l *loader) morphTargets(node gltfNode, gm *gltfMesh) *model.MorphTargetManager {
	targets := gm.Primitives[0].Targets
	if len(targets) == 0 {
		return nil
	}
	weights := gm.Weights
	if len(node.Weights) > 0 {
		weights = node.Weights
	}
	var names []string
	if gm.Extras != nil {
		names = gm.Extras.TargetNames
	}

	out := make([]*model.MorphTarget, len(targets))
	for i, attrs := range targets {
		_, normals := attrs["NORMAL"]
		_, tangents := attrs["TANGENT"]
		_, uvs := attrs["TEXCOORD_0"]
		mt := &model.MorphTarget{
			Name:        "target" + strconv.Itoa(i),
			HasNormals:  normals,
			HasTangents: tangents,
			HasUVs:      uvs,
		}
		if i < len(names) {
			mt.Name = names[i]
		}
		if i < len(weights) {
			mt.Influence = weights[i]
		}
		out[i] = mt
	}

	mgr := model.NewMorphTargetManager(out...)
	mgr.SetNumMaxInfluencers(len(out))
	mgr.SetUseTextureToStoreTargets(l.morphTextures)
	return mgr
}
