package media_storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/itww/admin-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloudinary struct {
	uploaded  uploader.UploadParams
	uploadErr string
	destroy   *uploader.DestroyResult
}

func (f *fakeCloudinary) Upload(_ context.Context, _ interface{}, p uploader.UploadParams) (*uploader.UploadResult, error) {
	f.uploaded = p
	return &uploader.UploadResult{PublicID: p.PublicID, Error: api.ErrorResp{Message: f.uploadErr}}, nil
}

func (f *fakeCloudinary) Destroy(_ context.Context, _ uploader.DestroyParams) (*uploader.DestroyResult, error) {
	return f.destroy, nil
}

func newFakeCloudinaryAdapter(t *testing.T, f *fakeCloudinary) *cloudinaryAdapter {
	t.Helper()
	cld, err := cloudinary.NewFromParams("demo", "key", "secret")
	require.NoError(t, err)
	return &cloudinaryAdapter{
		cld: cld, upload: f, logger: logger.NewNop(),
		now: func() time.Time { return time.UnixMilli(1700000000000) },
	}
}

func TestCloudinaryAdapter_Put(t *testing.T) {
	f := &fakeCloudinary{}
	a := newFakeCloudinaryAdapter(t, f)

	key, err := a.Put(context.Background(), "blogs", "cover art.jpg", strings.NewReader("jpg"), 3, "image/jpeg")
	require.NoError(t, err)
	assert.Regexp(t, `^blogs/1700000000000-[0-9a-f]{12}-cover_art\.jpg$`, key)
	assert.Equal(t, key, f.uploaded.PublicID)
	assert.Equal(t, "raw", f.uploaded.ResourceType)
	assert.Equal(t, api.CldAPIMap{"content_type": "image/jpeg"}, f.uploaded.Context)

	f.uploadErr = "Invalid Signature"
	_, err = a.Put(context.Background(), "blogs", "x.jpg", strings.NewReader("jpg"), 3, "image/jpeg")
	assert.ErrorContains(t, err, "Invalid Signature")
}

func TestCloudinaryAdapter_Delete(t *testing.T) {
	f := &fakeCloudinary{destroy: &uploader.DestroyResult{Result: "ok"}}
	a := newFakeCloudinaryAdapter(t, f)
	assert.NoError(t, a.Delete(context.Background(), "blogs/1-a.png"))

	f.destroy = &uploader.DestroyResult{Result: "not found"}
	assert.NoError(t, a.Delete(context.Background(), "blogs/1-a.png"))

	f.destroy = &uploader.DestroyResult{Error: api.ErrorResp{Message: "Invalid API key"}}
	assert.Error(t, a.Delete(context.Background(), "blogs/1-a.png"))
}

func TestCloudinaryAdapter_SignedReadURL(t *testing.T) {
	a := newFakeCloudinaryAdapter(t, &fakeCloudinary{})

	u, err := a.SignedReadURL(context.Background(), "blogs/1-a.pdf", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, u, "demo")
	assert.Contains(t, u, "s--")
	assert.True(t, strings.HasSuffix(u, "blogs/1-a.pdf"))
}
