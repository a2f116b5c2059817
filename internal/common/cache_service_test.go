package common

import (
	"errors"
	"testing"
	"time"
)

type leaderboardRow struct {
	UserID string `json:"userId"`
	Points int    `json:"points"`
}

func TestCacheService_DeletePrefix(t *testing.T) {
	c := NewCacheService(time.Minute, time.Minute)
	c.Set("LEADERBOARD_global", 1, time.Minute)
	c.Set("LEADERBOARD_course-1", 2, time.Minute)
	c.Set("SETTINGS_x", 3, time.Minute)

	c.DeletePrefix("LEADERBOARD_")

	if _, ok := c.Get("LEADERBOARD_global"); ok {
		t.Error("Expected LEADERBOARD_global to be removed")
	}
	if _, ok := c.Get("SETTINGS_x"); !ok {
		t.Error("Expected SETTINGS_x to survive")
	}
}

func TestGetOrSetTyped_LoadsOnce(t *testing.T) {
	c := NewCacheService(time.Minute, time.Minute)
	calls := 0
	loader := func() ([]leaderboardRow, error) {
		calls++
		return []leaderboardRow{{UserID: "u1", Points: 10}}, nil
	}

	for i := 0; i < 3; i++ {
		rows, err := GetOrSetTyped(c, "k", time.Minute, loader)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(rows) != 1 || rows[0].Points != 10 {
			t.Errorf("Unexpected rows: %+v", rows)
		}
	}
	if calls != 1 {
		t.Errorf("Expected loader to run once, got %d", calls)
	}
}

func TestGetOrSetTyped_ConvertsDecodedJSON(t *testing.T) {
	c := NewCacheService(time.Minute, time.Minute)
	// What the Redis backend hands back after decoding.
	c.Set("k", []interface{}{map[string]interface{}{"userId": "u1", "points": float64(7)}}, time.Minute)

	rows, err := GetOrSetTyped(c, "k", time.Minute, func() ([]leaderboardRow, error) {
		return nil, errors.New("loader should not run")
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rows) != 1 || rows[0].UserID != "u1" || rows[0].Points != 7 {
		t.Errorf("Unexpected rows: %+v", rows)
	}
}

func TestGetOrSetTyped_LoaderErrorNotCached(t *testing.T) {
	c := NewCacheService(time.Minute, time.Minute)
	_, err := GetOrSetTyped(c, "k", time.Minute, func() (int, error) {
		return 0, errors.New("boom")
	})
	if err == nil {
		t.Fatal("Expected loader error")
	}
	if _, ok := c.Get("k"); ok {
		t.Error("Expected nothing cached after a loader error")
	}
}

func TestGetOrSetTyped_ReplacesUndecodableEntry(t *testing.T) {
	c := NewCacheService(time.Minute, time.Minute)
	c.Set("k", "not a list", time.Minute)

	rows, err := GetOrSetTyped(c, "k", time.Minute, func() ([]leaderboardRow, error) {
		return []leaderboardRow{{UserID: "u1", Points: 3}}, nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rows) != 1 || rows[0].Points != 3 {
		t.Errorf("Unexpected rows: %+v", rows)
	}
	if cached, ok := c.Get("k"); !ok {
		t.Error("Expected the fresh value to be cached")
	} else if _, typed := cached.([]leaderboardRow); !typed {
		t.Errorf("Expected cached value to be replaced, got %T", cached)
	}
}
