package loader

import "github.com/Carmen-Shannon/oxy-shade/engine/model"

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithMeshOptions applies options to every imported mesh before the imported configuration,
// for instance a shared material or shadow receiving.
//
// Parameters:
//   - options: the mesh options
//
// Returns:
//   - LoaderBuilderOption: a function that records the mesh options
func WithMeshOptions(options ...model.MeshBuilderOption) LoaderBuilderOption {
	return func(l *loader) {
		l.meshOptions = append(l.meshOptions, options...)
	}
}

// WithBoneTextures sets whether imported skeletons store their matrices in a texture.
//
// Parameters:
//   - b: true to request bone textures
//
// Returns:
//   - LoaderBuilderOption: a function that sets the bone texture switch
func WithBoneTextures(b bool) LoaderBuilderOption {
	return func(l *loader) {
		l.boneTextures = b
	}
}

// WithMorphTargetTextures sets whether imported morph target managers store their targets in
// a texture.
func WithMorphTargetTextures(b bool) LoaderBuilderOption {
	return func(l *loader) {
		l.morphTextures = b
	}
}
