package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateImageFileType(t *testing.T) {
	require.True(t, ValidateImageFileType("image/jpeg", "photo.jpg"))
	require.True(t, ValidateImageFileType("IMAGE/PNG", "photo.png"))
	// Content type unknown but extension allowed.
	require.True(t, ValidateImageFileType("application/octet-stream", "photo.webp"))
	require.True(t, ValidateImageFileType("", "photo.JPEG"))

	require.False(t, ValidateImageFileType("video/mp4", "clip.mp4"))
	require.False(t, ValidateImageFileType("", "document.pdf"))
	require.False(t, ValidateImageFileType("", "noextension"))
}

func TestContentTypeForFilename(t *testing.T) {
	require.Equal(t, "image/jpeg", ContentTypeForFilename("a.jpg"))
	require.Equal(t, "image/jpeg", ContentTypeForFilename("a.JPEG"))
	require.Equal(t, "image/webp", ContentTypeForFilename("a.webp"))
	require.Equal(t, "application/octet-stream", ContentTypeForFilename("a.gif"))
}

func TestCarImageKey(t *testing.T) {
	key := CarImageKey("car-123", "img-456", "front.PNG")
	require.Equal(t, "cars/car-123/img-456.png", key)
}
