package view

import (
	"testing"

	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/Carmen-Shannon/vista-go/engine/camera"
	"github.com/Carmen-Shannon/vista-go/engine/driver"
	"github.com/Carmen-Shannon/vista-go/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBuffer and fakeDriver satisfy the view's driver surface without a GPU,
// recording buffer traffic for assertions.
type fakeBuffer struct {
	size    uint64
	binding driver.BufferBinding
}

func (b *fakeBuffer) Size() uint64                  { return b.size }
func (b *fakeBuffer) Binding() driver.BufferBinding { return b.binding }

type fakeDriver struct {
	created []*fakeBuffer
	writes  int
}

func (d *fakeDriver) CreateShadowDepthTexture(width, height int) (*wgpu.TextureView, *wgpu.Texture, error) {
	return nil, nil, nil
}

func (d *fakeDriver) CreateComparisonSampler() (*wgpu.Sampler, error) {
	return nil, nil
}

func (d *fakeDriver) CreateBufferObject(label string, size uint64, binding driver.BufferBinding) (driver.BufferObject, error) {
	b := &fakeBuffer{size: size, binding: binding}
	d.created = append(d.created, b)
	return b, nil
}

func (d *fakeDriver) UpdateBufferObject(obj driver.BufferObject, offset uint64, data []byte) {
	d.writes++
}

func (d *fakeDriver) DestroyBufferObject(obj driver.BufferObject) {}

func (d *fakeDriver) ReadPixels(src *wgpu.Texture, x, y, width, height uint32, callback driver.ReadPixelsCallback) error {
	return nil
}

func TestViewSkyboxVisibility(t *testing.T) {
	v := NewView()
	assert.False(t, v.IsSkyboxVisible(), "no scene attached")

	sc := scene.NewScene("test")
	v.SetScene(sc)
	assert.False(t, v.IsSkyboxVisible(), "scene has no skybox")

	sc.SetSkybox(scene.NewSkybox())
	assert.True(t, v.IsSkyboxVisible())

	// Moving the view to layers the skybox does not render on hides it.
	v.SetVisibleLayers(0xFF, 0x02)
	assert.False(t, v.IsSkyboxVisible())

	sc.Skybox().SetLayerMask(0xFF, 0x02)
	assert.True(t, v.IsSkyboxVisible())
}

func TestPrepareSkipsRenderableBufferWhenNothingContributes(t *testing.T) {
	d := &fakeDriver{}
	sc := scene.NewScene("test")
	v := NewView(
		WithScene(sc),
		WithCamera(camera.NewCamera()),
		WithViewport(common.Viewport{Width: 640, Height: 480}),
		WithDriver(d),
	)

	require.NoError(t, v.Prepare(0))
	assert.Nil(t, v.RenderableBuffer(), "empty frame allocates no renderable buffer")
	assert.NotNil(t, v.LightBuffer())
	assert.NotNil(t, v.UniformBuffer())

	// The first contributing renderable triggers the allocation.
	sc.AddRenderable(scene.NewRenderable(
		scene.WithBoundingBox([3]float32{0, 0, -5}, [3]float32{1, 1, 1}),
	))
	require.NoError(t, v.Prepare(0))
	require.NotNil(t, v.RenderableBuffer())

	var rec scene.GPURenderableData
	assert.Equal(t, uint64(minRenderableBufferRecords*rec.Size()), v.RenderableBuffer().Size())
}
