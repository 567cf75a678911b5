package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestChallengePatchUnmarshalDistinguishesNullFromAbsent(t *testing.T) {
	var p ChallengePatch
	if err := json.Unmarshal([]byte(`{"videoUrl":null,"difficulty":4}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.VideoURL.Set || p.VideoURL.Value != nil {
		t.Fatalf("expected explicit null video url, got %+v", p.VideoURL)
	}
	if !p.Difficulty.Set || p.Difficulty.Value != 4 {
		t.Fatalf("expected difficulty 4, got %+v", p.Difficulty)
	}
	if p.VideoThumbnail.Set {
		t.Fatal("expected absent thumbnail to stay unset")
	}
}

func TestChallengePatchRejectsImmutableKeys(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "trick", body: `{"trick":"Heelflip"}`, wantErr: "trick"},
		{name: "creator and id", body: `{"id":"x","creatorId":"u9","difficulty":2}`, wantErr: "creatorId, id"},
		{name: "created at", body: `{"createdAt":"2026-01-01T00:00:00Z"}`, wantErr: "createdAt"},
		{name: "editable only", body: `{"difficulty":2,"buyIn":100,"videoThumbnail":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p ChallengePatch
			err := json.Unmarshal([]byte(tt.body), &p)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error naming %q, got %v", tt.wantErr, err)
			}
			if !p.IsEmpty() {
				t.Fatalf("rejected patch should stay empty, got %+v", p)
			}
		})
	}
}

func TestChallengePatchApplyClearsAndSets(t *testing.T) {
	expires := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	c := Challenge{
		ID:          "c1",
		CreatorID:   "u1",
		Status:      StatusActive,
		CurrentTurn: StringPtr("u2"),
		ExpiresAt:   &expires,
		VideoURL:    StringPtr("https://cdn/v.mp4"),
	}
	p := ChallengePatch{
		Status:      Some(StatusCompleted),
		CurrentTurn: Some[*string](nil),
		ExpiresAt:   Some[*time.Time](nil),
		LoserID:     Some(StringPtr("u2")),
	}
	p.Apply(&c)

	if c.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", c.Status)
	}
	if c.CurrentTurn != nil || c.ExpiresAt != nil {
		t.Fatal("expected turn and expiry cleared")
	}
	if c.LoserID == nil || *c.LoserID != "u2" {
		t.Fatalf("expected loser u2, got %v", c.LoserID)
	}
	if c.VideoURL == nil || *c.VideoURL != "https://cdn/v.mp4" {
		t.Fatal("expected unsupplied video url untouched")
	}
}

func TestChallengePatchRuleGovernedFields(t *testing.T) {
	p := ChallengePatch{
		CreatorLetters: Some("SK"),
		Difficulty:     Some(2),
	}
	fields := p.RuleGovernedFields()
	if len(fields) != 1 || fields[0] != "creatorLetters" {
		t.Fatalf("unexpected fields %v", fields)
	}
	if p.IsEmpty() {
		t.Fatal("expected non-empty patch")
	}
	if !(ChallengePatch{}).IsEmpty() {
		t.Fatal("expected empty patch")
	}
}

func TestChallengeCloneDoesNotShare(t *testing.T) {
	c := Challenge{OpponentID: StringPtr("u2")}
	d := c.Clone()
	*d.OpponentID = "u3"
	if *c.OpponentID != "u2" {
		t.Fatal("clone shares opponent pointer")
	}
}
