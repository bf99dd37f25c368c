package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeObject struct {
	contentType string
	data        []byte
}

// fakeS3 answers path-style PutObject and GetObject for one bucket.
type fakeS3 struct {
	mu      sync.Mutex
	bucket  string
	objects map[string]fakeObject
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key, ok := strings.CutPrefix(r.URL.Path, "/"+f.bucket+"/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodPut:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		f.objects[key] = fakeObject{contentType: r.Header.Get("Content-Type"), data: data}
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		obj, found := f.objects[key]
		if !found {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+
				`<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message>`+
				`<Key>`+key+`</Key><RequestId>1</RequestId></Error>`)
			return
		}
		w.Header().Set("Content-Type", obj.contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(obj.data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(obj.data)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeS3) object(key string) fakeObject {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[key]
}

func newFakeS3Store(t *testing.T) (*S3Store, *fakeS3) {
	t.Helper()
	fake := &fakeS3{bucket: "media", objects: map[string]fakeObject{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:                     "us-east-1",
		Credentials:                credentials.NewStaticCredentialsProvider("key", "secret", ""),
		BaseEndpoint:               aws.String(srv.URL),
		UsePathStyle:               true,
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		ResponseChecksumValidation: aws.ResponseChecksumValidationWhenRequired,
	})
	return &S3Store{client: client, bucket: fake.bucket}, fake
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	store, fake := newFakeS3Store(t)
	assert.Equal(t, "s3", store.Backend())

	require.NoError(t, store.Put(ctx, "a.png", "image/png", []byte("png-bytes")))
	assert.Equal(t, "image/png", fake.object("a.png").contentType)

	blob, err := store.Get(ctx, "a.png")
	require.NoError(t, err)
	defer blob.Body.Close()
	data, err := io.ReadAll(blob.Body)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "image/png", blob.ContentType)
	assert.Equal(t, int64(len(data)), blob.Size)

	_, err = store.Get(ctx, "missing.png")
	assert.ErrorIs(t, err, ErrBlobNotFound)

	assert.Error(t, store.Put(ctx, "../x.png", "image/png", nil))
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestGridFSStore(t *testing.T) {
	uri := os.Getenv("CONNECTLY_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("CONNECTLY_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	db := client.Database("connectly_blobs_" + strings.ReplaceAll(NewObjectName(""), "-", ""))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	store, err := NewGridFSStore(db)
	require.NoError(t, err)
	assert.Equal(t, "gridfs", store.Backend())

	require.NoError(t, store.Put(ctx, "b.jpg", "image/jpeg", []byte("jpeg-bytes")))
	blob, err := store.Get(ctx, "b.jpg")
	require.NoError(t, err)
	defer blob.Body.Close()
	data, err := io.ReadAll(blob.Body)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
	assert.Equal(t, "image/jpeg", blob.ContentType)
	assert.Equal(t, int64(len(data)), blob.Size)

	_, err = store.Get(ctx, "missing.jpg")
	assert.ErrorIs(t, err, ErrBlobNotFound)
}
