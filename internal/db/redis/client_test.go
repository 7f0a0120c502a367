package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"
)

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestSupportsVectorSearch_ModuleAbsentCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT._LIST")).
		Return(mock.Result(mock.RedisError("ERR unknown command 'FT._LIST'"))).
		Times(1)

	s := NewStoreForTest(c)
	if s.SupportsVectorSearch(context.Background()) {
		t.Fatal("expected false for a server without the search module")
	}
	// The definitive answer is cached: no second probe.
	if s.SupportsVectorSearch(context.Background()) {
		t.Fatal("expected cached false")
	}
}

func TestSupportsVectorSearch_TransientErrorReprobes(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("FT._LIST")).
			Return(mock.ErrorResult(context.DeadlineExceeded)),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("FT._LIST")).
			Return(mock.Result(mock.RedisArray())),
	)

	s := NewStoreForTest(c)
	if s.SupportsVectorSearch(context.Background()) {
		t.Fatal("expected false while the store is unreachable")
	}
	if !s.SupportsVectorSearch(context.Background()) {
		t.Fatal("expected a later call to re-probe and report true")
	}
}

func TestSupportsVectorSearch_SuccessCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT._LIST")).
		Return(mock.Result(mock.RedisArray())).
		Times(1)

	s := NewStoreForTest(c)
	for i := 0; i < 2; i++ {
		if !s.SupportsVectorSearch(context.Background()) {
			t.Fatal("expected true when the search module is present")
		}
	}
}

func TestIsRedisErr(t *testing.T) {
	serverErr := mock.Result(mock.RedisError("ERR Unknown Command 'FT._LIST'")).Error()
	if !isRedisErr(serverErr, "unknown command") {
		t.Error("expected case-insensitive match on a server error")
	}
	if isRedisErr(serverErr, "index already exists") {
		t.Error("unexpected match for an unrelated substring")
	}
	if isRedisErr(errors.New("dial tcp: connection refused"), "unknown command") {
		t.Error("network errors are not server errors")
	}
	if isRedisErr(nil, "unknown command") {
		t.Error("nil error must not match")
	}
}
