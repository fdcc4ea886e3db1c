package inmemory

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/storage"
)

type object struct {
	data []byte
	info storage.ObjectInfo
}

// DataStore implements storage.DataStore in memory
type DataStore struct {
	objects map[string]object
	mu      sync.RWMutex
}

// NewDataStore creates an empty in-memory object store
func NewDataStore() *DataStore {
	return &DataStore{
		objects: make(map[string]object),
	}
}

func (s *DataStore) Put(ctx context.Context, key string, data io.Reader, options ...storage.PutOption) error {
	if key == "" {
		return storage.NewStorageError("Put", key, nil, storage.ErrCodeInvalidArgument, "key is required")
	}

	opts := storage.NewPutOptions(options...)

	content, err := io.ReadAll(data)
	if err != nil {
		return storage.NewStorageError("Put", key, err, storage.ErrCodeInternal, "failed to read data")
	}

	sum := md5.Sum(content)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = object{
		data: content,
		info: storage.ObjectInfo{
			Key:          key,
			Size:         int64(len(content)),
			LastModified: time.Now(),
			ETag:         hex.EncodeToString(sum[:]),
			ContentType:  opts.ContentType,
			Metadata:     opts.Metadata,
		},
	}

	return nil
}

func (s *DataStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, exists := s.objects[key]
	if !exists {
		return nil, storage.NewStorageError("Get", key, nil, storage.ErrCodeNotFound, "object not found")
	}

	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (s *DataStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)
	return nil
}

func (s *DataStore) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var objects []storage.ObjectInfo
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			objects = append(objects, obj.info)
		}
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Key < objects[j].Key
	})

	return objects, nil
}

func (s *DataStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.objects[key]
	return exists, nil
}
