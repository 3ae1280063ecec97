package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medication-tracker/internal/ports/snapshot"
)

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	failGet error
}

func (f *fakeObjects) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	b, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = b
	return &s3.PutObjectOutput{}, nil
}

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	fake := &fakeObjects{objects: map[string][]byte{}}
	s := newWithClient(fake, "bucket", "medtracker/")

	_, err := s.Load(ctx, snapshot.KeyDoses)
	assert.ErrorIs(t, err, snapshot.ErrNotFound)

	require.NoError(t, s.Save(ctx, snapshot.KeyDoses, []byte(`[{"id":"a"}]`)))
	assert.Contains(t, fake.objects, "bucket/medtracker/doses.json")

	got, err := s.Load(ctx, snapshot.KeyDoses)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(got))
}

func TestStore_LoadWrapsOtherErrors(t *testing.T) {
	boom := errors.New("network down")
	s := newWithClient(&fakeObjects{objects: map[string][]byte{}, failGet: boom}, "bucket", "")

	_, err := s.Load(context.Background(), snapshot.KeyPlans)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, snapshot.ErrNotFound)
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}
