package sim

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/talgya/econsim/internal/economy"
)

// Action type tags used in the log's JSON representation.
const (
	ActionTrade       = "Trade"
	ActionFailedTrade = "FailedTrade"
	ActionPriceUpdate = "PriceUpdate"
	ActionCrisisEvent = "CrisisEvent"
)

// Action is one tagged entry in the action log. Exactly one variant's fields
// are populated, selected by Type.
type Action struct {
	Type string `json:"type"`
	Step int    `json:"step"`

	// Trade / FailedTrade
	BuyerID  int             `json:"buyer_id"`
	SellerID int             `json:"seller_id"`
	SkillID  economy.SkillID `json:"skill_id"`
	Price    float64         `json:"price"`

	// PriceUpdate
	OldPrice float64 `json:"old_price"`
	NewPrice float64 `json:"new_price"`

	// CrisisEvent
	EventType string  `json:"event_type"`
	Severity  float64 `json:"severity"`
}

// MarshalJSON writes the variant's exact field set. Zero values stay in the
// document: buyer id 0 and severity 0 are legitimate, so field presence is
// decided by the action type, never by the value.
func (a Action) MarshalJSON() ([]byte, error) {
	switch a.Type {
	case ActionTrade, ActionFailedTrade:
		return json.Marshal(struct {
			Type     string          `json:"type"`
			Step     int             `json:"step"`
			BuyerID  int             `json:"buyer_id"`
			SellerID int             `json:"seller_id"`
			SkillID  economy.SkillID `json:"skill_id"`
			Price    float64         `json:"price"`
		}{a.Type, a.Step, a.BuyerID, a.SellerID, a.SkillID, a.Price})
	case ActionPriceUpdate:
		return json.Marshal(struct {
			Type     string          `json:"type"`
			Step     int             `json:"step"`
			SkillID  economy.SkillID `json:"skill_id"`
			OldPrice float64         `json:"old_price"`
			NewPrice float64         `json:"new_price"`
		}{a.Type, a.Step, a.SkillID, a.OldPrice, a.NewPrice})
	case ActionCrisisEvent:
		return json.Marshal(struct {
			Type      string  `json:"type"`
			Step      int     `json:"step"`
			EventType string  `json:"event_type"`
			Severity  float64 `json:"severity"`
		}{a.Type, a.Step, a.EventType, a.Severity})
	}

	type plain Action
	return json.Marshal(plain(a))
}

// ActionLog is the append-only record of step events, persisted as a single
// JSON document for audit and replay-by-inspection. Determinism comes from
// re-running with the same seed, not from the log.
type ActionLog struct {
	Seed        uint64   `json:"seed"`
	EntityCount int      `json:"entity_count"`
	MaxSteps    int      `json:"max_steps"`
	Actions     []Action `json:"actions"`
}

// NewActionLog creates an empty log carrying the run's header.
func NewActionLog(seed uint64, entityCount, maxSteps int) *ActionLog {
	return &ActionLog{
		Seed:        seed,
		EntityCount: entityCount,
		MaxSteps:    maxSteps,
		Actions:     []Action{},
	}
}

// Record appends one action.
func (l *ActionLog) Record(a Action) {
	l.Actions = append(l.Actions, a)
}

// RecordTrade appends a successful trade.
func (l *ActionLog) RecordTrade(step, buyer, seller int, skill economy.SkillID, price float64) {
	l.Record(Action{Type: ActionTrade, Step: step, BuyerID: buyer, SellerID: seller, SkillID: skill, Price: price})
}

// RecordFailedTrade appends a trade that failed on insufficient funds.
func (l *ActionLog) RecordFailedTrade(step, buyer, seller int, skill economy.SkillID, price float64) {
	l.Record(Action{Type: ActionFailedTrade, Step: step, BuyerID: buyer, SellerID: seller, SkillID: skill, Price: price})
}

// RecordPriceUpdate appends a market price change.
func (l *ActionLog) RecordPriceUpdate(step int, skill economy.SkillID, oldPrice, newPrice float64) {
	l.Record(Action{Type: ActionPriceUpdate, Step: step, SkillID: skill, OldPrice: oldPrice, NewPrice: newPrice})
}

// RecordCrisis appends a crisis event.
func (l *ActionLog) RecordCrisis(step int, kind CrisisKind, severity float64) {
	l.Record(Action{Type: ActionCrisisEvent, Step: step, EventType: kind.String(), Severity: severity})
}

// SaveToFile writes the log as pretty-printed JSON. Serialization failures
// are reported separately from file writes so callers can tell them apart.
func (l *ActionLog) SaveToFile(path string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encode action log: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write action log: %w", err)
	}
	return nil
}

// LoadActionLog reads a log back from disk. A missing file surfaces as a read
// error wrapping the os error; malformed JSON surfaces as a decode error.
func LoadActionLog(path string) (*ActionLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read action log: %w", err)
	}
	var log ActionLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("decode action log: %w", err)
	}
	return &log, nil
}
