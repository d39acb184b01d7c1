package manage_availability

import (
	"time"

	"github.com/coachhq/booking-service/internal/domain"
	"github.com/coachhq/booking-service/pkg/types"
)

type CreateRuleRequest struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func (r *CreateRuleRequest) ToDomain(coachID int64) *domain.AvailabilityRule {
	return &domain.AvailabilityRule{
		CoachID:   coachID,
		Weekday:   time.Weekday(r.Weekday),
		StartTime: types.TimeString(r.StartTime),
		EndTime:   types.TimeString(r.EndTime),
	}
}

type RuleResponse struct {
	ID        int64  `json:"id"`
	CoachID   int64  `json:"coachId"`
	Weekday   int    `json:"weekday"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Active    bool   `json:"active"`
}

func FromDomainRule(rule *domain.AvailabilityRule) *RuleResponse {
	return &RuleResponse{
		ID:        rule.ID,
		CoachID:   rule.CoachID,
		Weekday:   int(rule.Weekday),
		StartTime: string(rule.StartTime),
		EndTime:   string(rule.EndTime),
		Active:    rule.Active,
	}
}

type RulesResponse struct {
	Rules []*RuleResponse `json:"rules"`
}

type CreateBlackoutRequest struct {
	Date      string  `json:"date"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Reason    *string `json:"reason,omitempty"`
}

type BlackoutResponse struct {
	ID        int64   `json:"id"`
	CoachID   int64   `json:"coachId"`
	Date      string  `json:"date"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Reason    *string `json:"reason,omitempty"`
}

func FromDomainBlackout(b *domain.Blackout) *BlackoutResponse {
	return &BlackoutResponse{
		ID:        b.ID,
		CoachID:   b.CoachID,
		Date:      b.Date.Format(domain.DateFormat),
		StartTime: string(b.StartTime),
		EndTime:   string(b.EndTime),
		Reason:    b.Reason,
	}
}

type BlackoutsResponse struct {
	Blackouts []*BlackoutResponse `json:"blackouts"`
}
