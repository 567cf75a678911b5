package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Optional distinguishes "not supplied" from a supplied value, including an
// explicit JSON null.
type Optional[T any] struct {
	Set   bool
	Value T
}

// Some returns a supplied Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// ChallengePatch lists the fields to merge onto a stored challenge.
// Immutable fields (id, creatorId, trick, createdAt) are not patchable.
type ChallengePatch struct {
	OpponentID      Optional[*string]         `json:"opponentId"`
	Status          Optional[ChallengeStatus] `json:"status"`
	CreatorLetters  Optional[string]          `json:"creatorLetters"`
	OpponentLetters Optional[string]          `json:"opponentLetters"`
	CurrentTurn     Optional[*string]         `json:"currentTurn"`
	ExpiresAt       Optional[*time.Time]      `json:"expiresAt"`
	LoserID         Optional[*string]         `json:"loserId"`
	Difficulty      Optional[int]             `json:"difficulty"`
	BuyIn           Optional[int64]           `json:"buyIn"`
	VideoURL        Optional[*string]         `json:"videoUrl"`
	VideoThumbnail  Optional[*string]         `json:"videoThumbnail"`
}

var patchFields = map[string]struct{}{
	"opponentId": {}, "status": {}, "creatorLetters": {}, "opponentLetters": {},
	"currentTurn": {}, "expiresAt": {}, "loserId": {}, "difficulty": {},
	"buyIn": {}, "videoUrl": {}, "videoThumbnail": {},
}

// UnmarshalJSON rejects keys that name no patchable field, so an edit of
// id, creatorId, trick or createdAt fails instead of being dropped.
func (p *ChallengePatch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var unknown []string
	for key := range raw {
		if _, ok := patchFields[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("fields cannot be edited: %s", strings.Join(unknown, ", "))
	}

	type plain ChallengePatch
	return json.Unmarshal(data, (*plain)(p))
}

// IsEmpty reports whether no field is supplied.
func (p ChallengePatch) IsEmpty() bool {
	return len(p.Columns()) == 0
}

// Apply merges the supplied fields onto c.
func (p ChallengePatch) Apply(c *Challenge) {
	if p.OpponentID.Set {
		c.OpponentID = cloneString(p.OpponentID.Value)
	}
	if p.Status.Set {
		c.Status = p.Status.Value
	}
	if p.CreatorLetters.Set {
		c.CreatorLetters = p.CreatorLetters.Value
	}
	if p.OpponentLetters.Set {
		c.OpponentLetters = p.OpponentLetters.Value
	}
	if p.CurrentTurn.Set {
		c.CurrentTurn = cloneString(p.CurrentTurn.Value)
	}
	if p.ExpiresAt.Set {
		c.ExpiresAt = nil
		if p.ExpiresAt.Value != nil {
			c.ExpiresAt = TimePtr(*p.ExpiresAt.Value)
		}
	}
	if p.LoserID.Set {
		c.LoserID = cloneString(p.LoserID.Value)
	}
	if p.Difficulty.Set {
		c.Difficulty = p.Difficulty.Value
	}
	if p.BuyIn.Set {
		c.BuyIn = p.BuyIn.Value
	}
	if p.VideoURL.Set {
		c.VideoURL = cloneString(p.VideoURL.Value)
	}
	if p.VideoThumbnail.Set {
		c.VideoThumbnail = cloneString(p.VideoThumbnail.Value)
	}
}

// Columns returns the supplied fields keyed by database column.
func (p ChallengePatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.OpponentID.Set {
		cols["opponent_id"] = p.OpponentID.Value
	}
	if p.Status.Set {
		cols["status"] = p.Status.Value
	}
	if p.CreatorLetters.Set {
		cols["creator_letters"] = p.CreatorLetters.Value
	}
	if p.OpponentLetters.Set {
		cols["opponent_letters"] = p.OpponentLetters.Value
	}
	if p.CurrentTurn.Set {
		cols["current_turn"] = p.CurrentTurn.Value
	}
	if p.ExpiresAt.Set {
		cols["expires_at"] = p.ExpiresAt.Value
	}
	if p.LoserID.Set {
		cols["loser_id"] = p.LoserID.Value
	}
	if p.Difficulty.Set {
		cols["difficulty"] = p.Difficulty.Value
	}
	if p.BuyIn.Set {
		cols["buy_in"] = p.BuyIn.Value
	}
	if p.VideoURL.Set {
		cols["video_url"] = p.VideoURL.Value
	}
	if p.VideoThumbnail.Set {
		cols["video_thumbnail"] = p.VideoThumbnail.Value
	}
	return cols
}

// RuleGovernedFields returns the JSON names of supplied fields that only the
// rules engine may change.
func (p ChallengePatch) RuleGovernedFields() []string {
	var fields []string
	if p.OpponentID.Set {
		fields = append(fields, "opponentId")
	}
	if p.Status.Set {
		fields = append(fields, "status")
	}
	if p.CreatorLetters.Set {
		fields = append(fields, "creatorLetters")
	}
	if p.OpponentLetters.Set {
		fields = append(fields, "opponentLetters")
	}
	if p.CurrentTurn.Set {
		fields = append(fields, "currentTurn")
	}
	if p.ExpiresAt.Set {
		fields = append(fields, "expiresAt")
	}
	if p.LoserID.Set {
		fields = append(fields, "loserId")
	}
	return fields
}
