package storage

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestCollectKeyDeterministic(t *testing.T) {
	start := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	end := start.Add(9 * time.Hour)

	k1 := CollectKey(start, end, []string{"종로", "혜화"})
	k2 := CollectKey(start, end, []string{"종로", "혜화"})
	if k1 != k2 {
		t.Fatalf("CollectKey not deterministic: %q vs %q", k1, k2)
	}
	if !strings.HasPrefix(k1, "news:collect:") {
		t.Fatalf("unexpected key prefix: %q", k1)
	}

	// 关键词顺序决定命中列表顺序，所以不同顺序应是不同的 key
	if k1 == CollectKey(start, end, []string{"혜화", "종로"}) {
		t.Fatalf("keyword order should change the key")
	}
	if k1 == CollectKey(start, end.Add(time.Minute), []string{"종로", "혜화"}) {
		t.Fatalf("window should change the key")
	}
	// 拼接边界不能混淆
	if CollectKey(start, end, []string{"ab", "c"}) == CollectKey(start, end, []string{"a", "bc"}) {
		t.Fatalf("keyword boundaries must be preserved")
	}
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *Cache
	var out map[string]string
	if c.Get(context.Background(), "k", &out) {
		t.Fatalf("nil cache should never hit")
	}
	if err := c.Set(context.Background(), "k", map[string]string{"a": "b"}); err != nil {
		t.Fatalf("nil cache Set error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("nil cache Close error: %v", err)
	}
	if NewCache("", time.Minute) != nil {
		t.Fatalf("empty redis address should disable the cache")
	}
}

func TestGroupsKey(t *testing.T) {
	in := []string{"종혜북", "시경"}
	if got := GroupsKey(in); got != "시경,종혜북" {
		t.Fatalf("GroupsKey = %q", got)
	}
	if in[0] != "종혜북" {
		t.Fatalf("GroupsKey must not reorder its input")
	}
}
