package defines

import "strconv"

// Name is a define identifier as it appears after #define.
type Name string

// Indexed appends a slot index to a per-slot base name, e.g. Indexed(Light, 2) is "LIGHT2".
func Indexed(base Name, i int) Name {
	return base + Name(strconv.Itoa(i))
}

// Per-light slot bases. Combine with Indexed.
const (
	Light              Name = "LIGHT"
	SpotLight          Name = "SPOTLIGHT"
	HemiLight          Name = "HEMILIGHT"
	PointLight         Name = "POINTLIGHT"
	DirLight           Name = "DIRLIGHT"
	LightFalloffPhys   Name = "LIGHT_FALLOFF_PHYSICAL"
	LightFalloffGLTF   Name = "LIGHT_FALLOFF_GLTF"
	LightFalloffStd    Name = "LIGHT_FALLOFF_STANDARD"
	LightmapExcludedN  Name = "LIGHTMAPEXCLUDED"
	LightmapNoSpecular Name = "LIGHTMAPNOSPECULAR"
	ProjectedLightTex  Name = "PROJECTEDLIGHTTEXTURE"

	Shadow                 Name = "SHADOW"
	ShadowCSM              Name = "SHADOWCSM"
	ShadowCSMDebug         Name = "SHADOWCSMDEBUG"
	ShadowCSMNumCascades   Name = "SHADOWCSMNUM_CASCADES"
	ShadowCSMUseShadowMaxZ Name = "SHADOWCSMUSESHADOWMAXZ"
	ShadowCSMNoBlend       Name = "SHADOWCSMNOBLEND"
	ShadowCSMRightHanded   Name = "SHADOWCSM_RIGHTHANDED"
	ShadowPCF              Name = "SHADOWPCF"
	ShadowPCSS             Name = "SHADOWPCSS"
	ShadowPoisson          Name = "SHADOWPOISSON"
	ShadowESM              Name = "SHADOWESM"
	ShadowCloseESM         Name = "SHADOWCLOSEESM"
	ShadowCube             Name = "SHADOWCUBE"
	ShadowLowQuality       Name = "SHADOWLOWQUALITY"
	ShadowMediumQuality    Name = "SHADOWMEDIUMQUALITY"
)

// ShadowSlotBases lists every per-light shadow define base, in the order they
// are reset when a light slot is (re)assigned.
var ShadowSlotBases = []Name{
	Shadow, ShadowCSM, ShadowCSMDebug, ShadowCSMNumCascades, ShadowCSMUseShadowMaxZ,
	ShadowCSMNoBlend, ShadowCSMRightHanded, ShadowPCF, ShadowPCSS, ShadowPoisson,
	ShadowESM, ShadowCloseESM, ShadowCube, ShadowLowQuality, ShadowMediumQuality,
}

// Global light defines.
const (
	SpecularTerm     Name = "SPECULARTERM"
	Shadows          Name = "SHADOWS"
	ShadowFloat      Name = "SHADOWFLOAT"
	LightmapExcluded Name = "LIGHTMAPEXCLUDED"
)

// Attribute defines.
const (
	Normal         Name = "NORMAL"
	Tangent        Name = "TANGENT"
	UV             Name = "UV"
	UV1            Name = "UV1"
	VertexColor    Name = "VERTEXCOLOR"
	VertexAlpha    Name = "VERTEXALPHA"
	InstancesColor Name = "INSTANCESCOLOR"
)

// Bone and morph target defines.
const (
	NumBoneInfluencers   Name = "NUM_BONE_INFLUENCERS"
	BonesPerMesh         Name = "BonesPerMesh"
	BoneTexture          Name = "BONETEXTURE"
	BonesVelocityEnabled Name = "BONES_VELOCITY_ENABLED"
	MorphTargets         Name = "MORPHTARGETS"
	MorphTargetsUV       Name = "MORPHTARGETS_UV"
	MorphTargetsTangent  Name = "MORPHTARGETS_TANGENT"
	MorphTargetsNormal   Name = "MORPHTARGETS_NORMAL"
	MorphTargetsTexture  Name = "MORPHTARGETS_TEXTURE"
	NumMorphInfluencers  Name = "NUM_MORPH_INFLUENCERS"
)

// Misc and frame-bound defines.
const (
	LogarithmicDepth  Name = "LOGARITHMICDEPTH"
	PointSize         Name = "POINTSIZE"
	Fog               Name = "FOG"
	NonUniformScaling Name = "NONUNIFORMSCALING"
	AlphaTest         Name = "ALPHATEST"
	DepthPrePass      Name = "DEPTHPREPASS"
	Instances         Name = "INSTANCES"
	ThinInstances     Name = "THIN_INSTANCES"
	Multiview         Name = "MULTIVIEW"
	CameraOrtho       Name = "CAMERA_ORTHOGRAPHIC"
	CameraPerspective Name = "CAMERA_PERSPECTIVE"
	Diffuse           Name = "DIFFUSE"
)

// ClipPlaneNames holds the define for each scene clip plane slot, slot 0 first.
var ClipPlaneNames = [6]Name{"CLIPPLANE", "CLIPPLANE2", "CLIPPLANE3", "CLIPPLANE4", "CLIPPLANE5", "CLIPPLANE6"}

// Prepass defines.
const (
	PrePass                Name = "PREPASS"
	SceneMRTCount          Name = "SCENE_MRT_COUNT"
	PrePassNormalWorld     Name = "PREPASS_NORMAL_WORLDSPACE"
	PrePassColor           Name = "PREPASS_COLOR"
	PrePassColorIndex      Name = "PREPASS_COLOR_INDEX"
	PrePassPosition        Name = "PREPASS_POSITION"
	PrePassPositionIndex   Name = "PREPASS_POSITION_INDEX"
	PrePassLocalPosition   Name = "PREPASS_LOCAL_POSITION"
	PrePassLocalPosIndex   Name = "PREPASS_LOCAL_POSITION_INDEX"
	PrePassVelocity        Name = "PREPASS_VELOCITY"
	PrePassVelocityIndex   Name = "PREPASS_VELOCITY_INDEX"
	PrePassVelocityLinear  Name = "PREPASS_VELOCITY_LINEAR"
	PrePassVelLinearIndex  Name = "PREPASS_VELOCITY_LINEAR_INDEX"
	PrePassReflectivity    Name = "PREPASS_REFLECTIVITY"
	PrePassReflectivityIdx Name = "PREPASS_REFLECTIVITY_INDEX"
	PrePassIrradiance      Name = "PREPASS_IRRADIANCE"
	PrePassIrradianceIndex Name = "PREPASS_IRRADIANCE_INDEX"
	PrePassAlbedo          Name = "PREPASS_ALBEDO_SQRT"
	PrePassAlbedoIndex     Name = "PREPASS_ALBEDO_SQRT_INDEX"
	PrePassDepth           Name = "PREPASS_DEPTH"
	PrePassDepthIndex      Name = "PREPASS_DEPTH_INDEX"
	PrePassScreenDepth     Name = "PREPASS_SCREENSPACE_DEPTH"
	PrePassScreenDepthIdx  Name = "PREPASS_SCREENSPACE_DEPTH_INDEX"
	PrePassNormal          Name = "PREPASS_NORMAL"
	PrePassNormalIndex     Name = "PREPASS_NORMAL_INDEX"
	PrePassWorldNormal     Name = "PREPASS_WORLD_NORMAL"
	PrePassWorldNormalIdx  Name = "PREPASS_WORLD_NORMAL_INDEX"
)
