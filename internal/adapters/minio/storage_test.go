package minio

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"welbex/internal/config"
)

const listPage = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
<Name>uploads</Name><Prefix></Prefix><KeyCount>1</KeyCount><MaxKeys>1000</MaxKeys>
<IsTruncated>%t</IsTruncated><NextContinuationToken>%s</NextContinuationToken>
<Contents><Key>%s</Key><LastModified>2024-03-01T12:00:00.000Z</LastModified><ETag>"e"</ETag><Size>3</Size><StorageClass>STANDARD</StorageClass></Contents>
</ListBucketResult>`

const accessDenied = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>AccessDenied</Code><Message>Access Denied.</Message><BucketName>uploads</BucketName><RequestId>1</RequestId></Error>`

// fakeS3 answers the bucket calls made by New, then serves listing pages.
// failSecondPage makes the continuation request fail.
func fakeS3(t *testing.T, failSecondPage bool) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var listCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Has("location"):
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprint(w, `<LocationConstraint xmlns="http://s3.amazonaws.com/doc/2006-03-01/">us-east-1</LocationConstraint>`)
		case r.Method == http.MethodHead:
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodGet && q.Get("list-type") == "2":
			listCalls.Add(1)
			w.Header().Set("Content-Type", "application/xml")
			if q.Get("continuation-token") == "" {
				fmt.Fprintf(w, listPage, true, "page-2", "1-a.png")
				return
			}
			if failSecondPage {
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, accessDenied)
				return
			}
			fmt.Fprintf(w, listPage, false, "", "2-b.mp4")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &listCalls
}

func newTestStorage(t *testing.T, srv *httptest.Server) *MinioStorage {
	t.Helper()
	endpoint := strings.TrimPrefix(srv.URL, "http://")
	ms, err := New(context.Background(), config.MinIO{
		Endpoint:  endpoint,
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "uploads",
		PublicURL: "http://cdn.local/",
	}, zap.NewNop())
	require.NoError(t, err)
	return ms
}

func TestMinioStorage_ListFollowsPages(t *testing.T) {
	srv, listCalls := fakeS3(t, false)
	ms := newTestStorage(t, srv)

	objects, err := ms.List(context.Background())
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "http://cdn.local/uploads/1-a.png", objects[0].Ref)
	assert.Equal(t, "http://cdn.local/uploads/2-b.mp4", objects[1].Ref)
	assert.True(t, objects[0].ModTime.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, int32(2), listCalls.Load())
}

func TestMinioStorage_ListStopsOnError(t *testing.T) {
	srv, listCalls := fakeS3(t, true)
	ms := newTestStorage(t, srv)

	objects, err := ms.List(context.Background())
	require.Error(t, err)
	assert.Nil(t, objects)

	// the listing is over once List returns: no further pages are requested
	calls := listCalls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, listCalls.Load())
}

func TestMinioStorage_RefRoundTrip(t *testing.T) {
	srv, _ := fakeS3(t, false)
	ms := newTestStorage(t, srv)

	name, ok := ms.nameOf(ms.refOf("1-a.png"))
	assert.True(t, ok)
	assert.Equal(t, "1-a.png", name)

	_, ok = ms.nameOf("/uploads/1-a.png")
	assert.False(t, ok)
	assert.NoError(t, ms.Remove(context.Background(), "/uploads/1-a.png"), "foreign refs are ignored")
}
