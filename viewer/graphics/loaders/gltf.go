package loaders

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/qmuntal/gltf"
	"golang.org/x/image/draw"

	"github.com/loupe3d/loupe/viewer/assets"
	"github.com/loupe3d/loupe/viewer/core"
	"github.com/loupe3d/loupe/viewer/graphics"
	"github.com/loupe3d/loupe/viewer/math"
	"github.com/loupe3d/loupe/viewer/scene"
)

// maxTextureDim caps embedded texture dimensions; anything larger is
// downscaled before upload.
const maxTextureDim = 2048

// GLTFLoader parses .gltf/.glb assets into scene subtrees. All format
// parsing is delegated to qmuntal/gltf; this binding only maps the parsed
// document onto scene nodes and resource handles.
type GLTFLoader struct{}

func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{}
}

func (l *GLTFLoader) Extensions() []string {
	return assets.ModelExtensions
}

func (l *GLTFLoader) Load(ctx context.Context, src graphics.Source) (scene.Node, error) {
	path := src.Path
	if src.Remote() {
		staged, cleanup, err := assets.StageRemote(ctx, src.URL)
		if err != nil {
			return nil, fmt.Errorf("staging '%s': %w", src.URL, err)
		}
		defer cleanup()
		path = staged
	}

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parsing '%s': %w", src.Name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := &docBuilder{
		doc:       doc,
		baseDir:   filepath.Dir(path),
		materials: make(map[uint32]*scene.Material),
		textures:  make(map[uint32]*scene.Texture),
	}

	root := scene.NewGroup(src.Name)
	for _, idx := range b.sceneNodes() {
		child, err := b.buildNode(ctx, idx)
		if err != nil {
			return nil, err
		}
		root.AddChild(child)
	}

	meshes := scene.Meshes(root)
	if len(meshes) == 0 {
		return nil, fmt.Errorf("'%s' contains no meshes", src.Name)
	}
	core.LogDebug("parsed '%s': %d meshes", src.Name, len(meshes))

	return root, nil
}

type docBuilder struct {
	doc       *gltf.Document
	baseDir   string
	materials map[uint32]*scene.Material
	textures  map[uint32]*scene.Texture
}

func (b *docBuilder) sceneNodes() []uint32 {
	if len(b.doc.Scenes) == 0 {
		return nil
	}
	idx := 0
	if b.doc.Scene != nil {
		idx = int(*b.doc.Scene)
	}
	return b.doc.Scenes[idx].Nodes
}

func (b *docBuilder) buildNode(ctx context.Context, idx uint32) (scene.Node, error) {
	if int(idx) >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", idx)
	}
	src := b.doc.Nodes[idx]

	var node scene.Node
	if src.Mesh != nil {
		mesh, err := b.buildMesh(ctx, src.Name, *src.Mesh)
		if err != nil {
			return nil, err
		}
		applyNodeTransform(src, mesh.Transform())
		for _, childIdx := range src.Children {
			child, err := b.buildNode(ctx, childIdx)
			if err != nil {
				return nil, err
			}
			mesh.AddChild(child)
		}
		node = mesh
	} else {
		group := scene.NewGroup(src.Name)
		applyNodeTransform(src, group.Transform())
		for _, childIdx := range src.Children {
			child, err := b.buildNode(ctx, childIdx)
			if err != nil {
				return nil, err
			}
			group.AddChild(child)
		}
		node = group
	}
	return node, nil
}

func applyNodeTransform(src *gltf.Node, out *math.Transform) {
	out.Position = math.NewVec3(src.Translation[0], src.Translation[1], src.Translation[2])
	out.Rotation = math.EulerFromQuaternion(src.Rotation[0], src.Rotation[1], src.Rotation[2], src.Rotation[3])
	out.Scale = math.NewVec3(src.Scale[0], src.Scale[1], src.Scale[2])
}

func (b *docBuilder) buildMesh(ctx context.Context, name string, meshIdx uint32) (*scene.Mesh, error) {
	if int(meshIdx) >= len(b.doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIdx)
	}
	src := b.doc.Meshes[meshIdx]
	if name == "" {
		name = src.Name
	}

	geometry := &scene.Geometry{
		Name:         name,
		LocalExtents: math.NewExtents3DEmpty(),
	}
	var materials []*scene.Material
	seen := make(map[uint32]bool)

	for _, prim := range src.Primitives {
		if posIdx, ok := prim.Attributes[gltf.POSITION]; ok {
			acc := b.doc.Accessors[posIdx]
			geometry.VertexCount += uint32(acc.Count)
			if len(acc.Min) == 3 && len(acc.Max) == 3 {
				geometry.LocalExtents = geometry.LocalExtents.Union(math.NewExtents3D(
					math.NewVec3(acc.Min[0], acc.Min[1], acc.Min[2]),
					math.NewVec3(acc.Max[0], acc.Max[1], acc.Max[2]),
				))
			}
		}
		if prim.Indices != nil {
			geometry.IndexCount += uint32(b.doc.Accessors[*prim.Indices].Count)
		}
		if prim.Material != nil && !seen[*prim.Material] {
			seen[*prim.Material] = true
			material, err := b.buildMaterial(ctx, *prim.Material)
			if err != nil {
				return nil, err
			}
			materials = append(materials, material)
		}
	}

	if len(materials) == 0 {
		materials = append(materials, defaultMaterial(name))
	}

	return scene.NewMesh(name, geometry, materials...), nil
}

func defaultMaterial(name string) *scene.Material {
	return &scene.Material{
		Name:      name + "_default",
		BaseColor: [4]float32{0.8, 0.8, 0.8, 1.0},
		Opacity:   1.0,
	}
}

func (b *docBuilder) buildMaterial(ctx context.Context, idx uint32) (*scene.Material, error) {
	if m, ok := b.materials[idx]; ok {
		return m, nil
	}
	src := b.doc.Materials[idx]

	material := &scene.Material{
		Name:        src.Name,
		BaseColor:   [4]float32{1, 1, 1, 1},
		Opacity:     1.0,
		DoubleSided: src.DoubleSided,
		Transparent: src.AlphaMode == gltf.AlphaBlend,
	}

	if pbr := src.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			material.BaseColor = *pbr.BaseColorFactor
			material.Opacity = material.BaseColor[3]
		}
		if pbr.BaseColorTexture != nil {
			texture, err := b.buildTexture(ctx, pbr.BaseColorTexture.Index)
			if err != nil {
				// A broken texture should not fail the whole model.
				core.LogWarn("skipping texture for material '%s': %s", src.Name, err)
			} else {
				material.BaseColorTexture = texture
			}
		}
	}

	b.materials[idx] = material
	return material, nil
}

func (b *docBuilder) buildTexture(ctx context.Context, idx uint32) (*scene.Texture, error) {
	if t, ok := b.textures[idx]; ok {
		return t, nil
	}
	if int(idx) >= len(b.doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", idx)
	}
	src := b.doc.Textures[idx]
	if src.Source == nil {
		return nil, fmt.Errorf("texture %d has no image source", idx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := b.imageBytes(*src.Source)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image %d: %w", *src.Source, err)
	}
	img = downscale(img, maxTextureDim)

	bounds := img.Bounds()
	nrgba := image.NewNRGBA(bounds)
	draw.Draw(nrgba, bounds, img, bounds.Min, draw.Src)

	texture := &scene.Texture{
		Name:   b.doc.Images[*src.Source].Name,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
		Pixels: nrgba.Pix,
	}
	b.textures[idx] = texture
	return texture, nil
}

func (b *docBuilder) imageBytes(imgIdx uint32) ([]byte, error) {
	if int(imgIdx) >= len(b.doc.Images) {
		return nil, fmt.Errorf("image index %d out of range", imgIdx)
	}
	img := b.doc.Images[imgIdx]

	switch {
	case img.BufferView != nil:
		view := b.doc.BufferViews[*img.BufferView]
		buffer := b.doc.Buffers[view.Buffer]
		if int(view.ByteOffset+view.ByteLength) > len(buffer.Data) {
			return nil, fmt.Errorf("image %d buffer view out of range", imgIdx)
		}
		return buffer.Data[view.ByteOffset : view.ByteOffset+view.ByteLength], nil
	case strings.HasPrefix(img.URI, "data:"):
		comma := strings.IndexByte(img.URI, ',')
		if comma < 0 {
			return nil, fmt.Errorf("image %d has a malformed data URI", imgIdx)
		}
		return base64.StdEncoding.DecodeString(img.URI[comma+1:])
	case img.URI != "":
		return os.ReadFile(filepath.Join(b.baseDir, img.URI))
	default:
		return nil, fmt.Errorf("image %d has no data", imgIdx)
	}
}

// downscale returns img resized so neither dimension exceeds maxDim.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}
	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
