package pathutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromLocalRoundTrip(t *testing.T) {
	local := filepath.Join("DCIM", "Camera", "IMG_0001.jpg")
	p := FromLocal(local)
	assert.Equal(t, RelPath("DCIM/Camera/IMG_0001.jpg"), p)
	assert.Equal(t, local, p.Local())
}

func TestJoinRemote(t *testing.T) {
	assert.Equal(t, "/sdcard/DCIM/a.jpg", JoinRemote("/sdcard/DCIM", "a.jpg"))
	assert.Equal(t, "/sdcard/DCIM/a.jpg", JoinRemote("/sdcard/DCIM/", "a.jpg"))
	assert.Equal(t, "/sdcard/d/sub/a.jpg", JoinRemote("/sdcard/d", "sub/a.jpg"))
	assert.Equal(t, "a.jpg", JoinRemote("", "a.jpg"))
}

func TestSplitRemote(t *testing.T) {
	dir, base := SplitRemote("/sdcard/DCIM/IMG_0001.jpg")
	assert.Equal(t, "/sdcard/DCIM", dir)
	assert.Equal(t, RelPath("IMG_0001.jpg"), base)
}

func TestJoinLocal(t *testing.T) {
	got := JoinLocal("/backup", "DCIM/Camera/a.jpg")
	assert.Equal(t, filepath.Join("/backup", "DCIM", "Camera", "a.jpg"), got)
}

func TestBase(t *testing.T) {
	assert.Equal(t, RelPath("a.jpg"), RelPath("DCIM/Camera/a.jpg").Base())
	assert.Equal(t, RelPath("a.jpg"), RelPath("a.jpg").Base())
}
