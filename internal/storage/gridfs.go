package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GridFSStore keeps blobs in the "uploads" GridFS bucket of a Mongo database.
type GridFSStore struct {
	bucket *gridfs.Bucket
}

func NewGridFSStore(db *mongo.Database) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("uploads"))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	return &GridFSStore{bucket: bucket}, nil
}

func (s *GridFSStore) Backend() string { return "gridfs" }

func (s *GridFSStore) Put(ctx context.Context, name, contentType string, data []byte) error {
	if !validName(name) {
		return fmt.Errorf("invalid blob name %q", name)
	}
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	stream, err := s.bucket.OpenUploadStream(name, opts)
	if err != nil {
		return fmt.Errorf("open upload stream: %w", err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := stream.SetWriteDeadline(deadline); err != nil {
			_ = stream.Abort()
			return err
		}
	}
	if _, err := io.Copy(stream, bytes.NewReader(data)); err != nil {
		_ = stream.Abort()
		return fmt.Errorf("write gridfs file: %w", err)
	}
	// Close flushes the last chunk and writes the files document.
	if err := stream.Close(); err != nil {
		return fmt.Errorf("finalize gridfs file: %w", err)
	}
	return nil
}

func (s *GridFSStore) Get(ctx context.Context, name string) (*Blob, error) {
	stream, err := s.bucket.OpenDownloadStreamByName(name)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetReadDeadline(deadline)
	}

	file := stream.GetFile()
	blob := &Blob{Body: stream, Size: file.Length}
	if len(file.Metadata) > 0 {
		if v, err := file.Metadata.LookupErr("contentType"); err == nil {
			blob.ContentType, _ = v.StringValueOK()
		}
	}
	return blob, nil
}
