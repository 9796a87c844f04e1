package buffers

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"
)

type FramebufferAttachmentType int32

const (
	FramebufferAttachmentType_Unknown FramebufferAttachmentType = iota
	FramebufferAttachmentType_Texture
	FramebufferAttachmentType_Renderbuffer
)

type FramebufferAttachmentDataFormat int32

const (
	FramebufferAttachmentDataFormat_Unknown FramebufferAttachmentDataFormat = iota
	FramebufferAttachmentDataFormat_R32Int
	FramebufferAttachmentDataFormat_RGBA8
	FramebufferAttachmentDataFormat_SRGBA
	FramebufferAttachmentDataFormat_Depth24Stencil8
)

func (f FramebufferAttachmentDataFormat) IsColorFormat() bool {
	return f == FramebufferAttachmentDataFormat_R32Int ||
		f == FramebufferAttachmentDataFormat_RGBA8 ||
		f == FramebufferAttachmentDataFormat_SRGBA
}

func (f FramebufferAttachmentDataFormat) IsDepthFormat() bool {
	return f == FramebufferAttachmentDataFormat_Depth24Stencil8
}

// glFormats returns the internal format, pixel format and pixel type used to allocate the attachment
func (f FramebufferAttachmentDataFormat) glFormats() (internalFormat int32, format uint32, xtype uint32) {

	switch f {
	case FramebufferAttachmentDataFormat_R32Int:
		return gl.R32I, gl.RED_INTEGER, gl.INT
	case FramebufferAttachmentDataFormat_RGBA8:
		return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE
	case FramebufferAttachmentDataFormat_SRGBA:
		return gl.SRGB8_ALPHA8, gl.RGBA, gl.UNSIGNED_BYTE
	case FramebufferAttachmentDataFormat_Depth24Stencil8:
		return gl.DEPTH24_STENCIL8, gl.DEPTH_STENCIL, gl.UNSIGNED_INT_24_8
	default:
		return 0, 0, 0
	}
}

type FramebufferAttachment struct {
	Id     uint32
	Type   FramebufferAttachmentType
	Format FramebufferAttachmentDataFormat
}

// Framebuffer is an offscreen render target. All attachments share its size.
type Framebuffer struct {
	Id                    uint32
	Attachments           []FramebufferAttachment
	ColorAttachmentsCount uint32
	Width                 int32
	Height                int32
}

func (fbo *Framebuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo.Id)
}

func (fbo *Framebuffer) BindWithViewport() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo.Id)
	gl.Viewport(0, 0, fbo.Width, fbo.Height)
}

func (fbo *Framebuffer) UnBind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (fbo *Framebuffer) TargetSize() (width, height int32) {
	return fbo.Width, fbo.Height
}

// IsComplete returns true if OpenGL reports that the fbo is complete/usable.
// Note that this function binds and then unbinds the fbo
func (fbo *Framebuffer) IsComplete() bool {
	fbo.Bind()
	isComplete := gl.CheckFramebufferStatus(gl.FRAMEBUFFER) == gl.FRAMEBUFFER_COMPLETE
	fbo.UnBind()
	return isComplete
}

func (fbo *Framebuffer) HasDepthAttachment() bool {

	for i := 0; i < len(fbo.Attachments); i++ {
		if fbo.Attachments[i].Format.IsDepthFormat() {
			return true
		}
	}

	return false
}

func (fbo *Framebuffer) NewColorAttachment(attachType FramebufferAttachmentType, attachFormat FramebufferAttachmentDataFormat) error {

	if fbo.ColorAttachmentsCount == 8 {
		return errors.Errorf("framebuffer already has %d color attachments", fbo.ColorAttachmentsCount)
	}

	if !attachFormat.IsColorFormat() {
		return errors.Errorf("attachment data format %d is not a color format", attachFormat)
	}

	return fbo.attach(attachType, attachFormat, gl.COLOR_ATTACHMENT0+fbo.ColorAttachmentsCount, gl.LINEAR)
}

func (fbo *Framebuffer) NewDepthStencilAttachment(attachType FramebufferAttachmentType, attachFormat FramebufferAttachmentDataFormat) error {

	if fbo.HasDepthAttachment() {
		return errors.New("framebuffer already has a depth-stencil attachment")
	}

	if !attachFormat.IsDepthFormat() {
		return errors.Errorf("attachment data format %d is not a depth-stencil format", attachFormat)
	}

	return fbo.attach(attachType, attachFormat, gl.DEPTH_STENCIL_ATTACHMENT, gl.NEAREST)
}

func (fbo *Framebuffer) attach(attachType FramebufferAttachmentType, attachFormat FramebufferAttachmentDataFormat, attachPoint uint32, filter int32) error {

	a := FramebufferAttachment{
		Type:   attachType,
		Format: attachFormat,
	}

	internalFormat, format, xtype := attachFormat.glFormats()

	fbo.Bind()
	defer fbo.UnBind()

	switch attachType {

	case FramebufferAttachmentType_Texture:

		gl.GenTextures(1, &a.Id)
		if a.Id == 0 {
			return errors.Errorf("failed to generate texture for framebuffer. GlError=%d", gl.GetError())
		}

		gl.BindTexture(gl.TEXTURE_2D, a.Id)
		gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, fbo.Width, fbo.Height, 0, format, xtype, nil)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
		gl.BindTexture(gl.TEXTURE_2D, 0)

		gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachPoint, gl.TEXTURE_2D, a.Id, 0)

	case FramebufferAttachmentType_Renderbuffer:

		gl.GenRenderbuffers(1, &a.Id)
		if a.Id == 0 {
			return errors.Errorf("failed to generate render buffer for framebuffer. GlError=%d", gl.GetError())
		}

		gl.BindRenderbuffer(gl.RENDERBUFFER, a.Id)
		gl.RenderbufferStorage(gl.RENDERBUFFER, uint32(internalFormat), fbo.Width, fbo.Height)
		gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, attachPoint, gl.RENDERBUFFER, a.Id)

	default:
		return errors.Errorf("unknown framebuffer attachment type %d", attachType)
	}

	if attachFormat.IsColorFormat() {
		fbo.ColorAttachmentsCount++
	}

	fbo.Attachments = append(fbo.Attachments, a)
	return nil
}

// Delete frees the fbo and all its attachments
func (fbo *Framebuffer) Delete() {

	for i := 0; i < len(fbo.Attachments); i++ {

		a := &fbo.Attachments[i]
		if a.Type == FramebufferAttachmentType_Texture {
			gl.DeleteTextures(1, &a.Id)
		} else {
			gl.DeleteRenderbuffers(1, &a.Id)
		}
	}
	fbo.Attachments = nil
	fbo.ColorAttachmentsCount = 0

	if fbo.Id != 0 {
		gl.DeleteFramebuffers(1, &fbo.Id)
		fbo.Id = 0
	}
}

func NewFramebuffer(width, height int32) (Framebuffer, error) {

	fbo := Framebuffer{
		Width:  width,
		Height: height,
	}

	gl.GenFramebuffers(1, &fbo.Id)
	if fbo.Id == 0 {
		return Framebuffer{}, errors.Errorf("failed to generate framebuffer. GlError=%d", gl.GetError())
	}

	return fbo, nil
}
