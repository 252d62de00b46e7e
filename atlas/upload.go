package atlas

import (
	"image"

	"github.com/gogpu/gputypes"
)

// UploadRequest is a tightly packed copy of a dirty page region, ready for a
// WebGPU queue write.
type UploadRequest struct {
	PageID int

	// Format is the destination texture format.
	Format gputypes.TextureFormat

	// Origin is the top-left texel of the region in the page texture.
	Origin image.Point

	// Size is the region extent. DepthOrArrayLayers is always 1.
	Size gputypes.Extent3D

	// BytesPerRow is the row pitch of Data.
	BytesPerRow uint32

	// Data holds Size.Height rows of BytesPerRow bytes.
	Data []byte
}

// Bounds returns the region covered by the request in page coordinates.
func (r *UploadRequest) Bounds() image.Rectangle {
	return image.Rect(r.Origin.X, r.Origin.Y,
		r.Origin.X+int(r.Size.Width), r.Origin.Y+int(r.Size.Height))
}

func newUploadRequest(p *Page, r image.Rectangle) UploadRequest {
	bpp := p.format.BytesPerPixel()
	rowBytes := r.Dx() * bpp
	stride := p.Stride()

	data := make([]byte, rowBytes*r.Dy())
	for y := 0; y < r.Dy(); y++ {
		src := (r.Min.Y+y)*stride + r.Min.X*bpp
		copy(data[y*rowBytes:(y+1)*rowBytes], p.pix[src:src+rowBytes])
	}

	return UploadRequest{
		PageID: p.id,
		Format: p.format.GPUFormat(),
		Origin: r.Min,
		Size: gputypes.Extent3D{
			Width:              uint32(r.Dx()), //nolint:gosec // bounded by page size
			Height:             uint32(r.Dy()), //nolint:gosec // bounded by page size
			DepthOrArrayLayers: 1,
		},
		BytesPerRow: uint32(rowBytes), //nolint:gosec // bounded by page size
		Data:        data,
	}
}
