package post

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"welbex/internal/core/attachment"
)

func TestPost_AttachFillsOnlyMatchingSlot(t *testing.T) {
	p := &Post{}

	replaced := p.Attach(attachment.KindImage, "/uploads/a.png")
	assert.Nil(t, replaced)
	require.NotNil(t, p.Image)
	assert.Equal(t, "/uploads/a.png", *p.Image)
	assert.Nil(t, p.Video)

	replaced = p.Attach(attachment.KindVideo, "/uploads/b.mp4")
	assert.Nil(t, replaced)
	require.NotNil(t, p.Video)
	assert.Equal(t, "/uploads/b.mp4", *p.Video)
	assert.Equal(t, "/uploads/a.png", *p.Image)
}

func TestPost_AttachReturnsReplacedReference(t *testing.T) {
	p := &Post{}
	p.Attach(attachment.KindImage, "/uploads/old.png")

	replaced := p.Attach(attachment.KindImage, "/uploads/new.png")
	require.NotNil(t, replaced)
	assert.Equal(t, "/uploads/old.png", *replaced)
	assert.Equal(t, "/uploads/new.png", *p.Image)
}

func TestPost_Attachments(t *testing.T) {
	p := &Post{}
	assert.Empty(t, p.Attachments())

	p.Attach(attachment.KindVideo, "/uploads/v.mp4")
	assert.Equal(t, []string{"/uploads/v.mp4"}, p.Attachments())

	p.Attach(attachment.KindImage, "/uploads/i.png")
	assert.Equal(t, []string{"/uploads/i.png", "/uploads/v.mp4"}, p.Attachments())
}
