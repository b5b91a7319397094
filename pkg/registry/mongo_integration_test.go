//go:build integration

package registry

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"
)

// Run with: MOLCANON_MONGO_URI=mongodb://localhost:27017 go test -tags integration ./pkg/registry
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MOLCANON_MONGO_URI")
	if uri == "" {
		t.Skip("MOLCANON_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := NewMongoStore(ctx, MongoConfig{
		URI:        uri,
		Database:   "molcanon_test",
		Collection: fmt.Sprintf("molecules_%d", time.Now().UnixNano()),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = s.coll.Drop(context.Background())
		s.Close()
	}()
	testStore(t, s)
}
