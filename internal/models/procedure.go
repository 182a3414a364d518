package models

import "time"

type Procedure struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`

	PriceMaster    float64 `json:"price_master"`
	DurationMaster int     `json:"duration_master"`
	PriceJunior    float64 `json:"price_junior"`
	DurationJunior int     `json:"duration_junior"`

	Available bool       `json:"available"`
	AddedAt   time.Time  `json:"added_at"`
	StoppedAt *time.Time `json:"stopped_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// DurationFor returns the duration in minutes for a barber of the given tier.
func (p *Procedure) DurationFor(tier Tier) int {
	if tier == TierJunior {
		return p.DurationJunior
	}
	return p.DurationMaster
}

func (p *Procedure) PriceFor(tier Tier) float64 {
	if tier == TierJunior {
		return p.PriceJunior
	}
	return p.PriceMaster
}

// BarberProcedure records that a barber may perform a procedure in a
// validity window. Rows are deactivated, never deleted.
type BarberProcedure struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarberID    uint      `gorm:"index;not null" json:"barber_id"`
	Barber      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ProcedureID uint      `gorm:"index;not null" json:"procedure_id"`
	Procedure   Procedure `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"procedure"`

	CanPerform bool       `json:"can_perform"`
	ValidFrom  time.Time  `json:"valid_from"`
	ValidUntil *time.Time `json:"valid_until"`

	CreatedAt time.Time `json:"created_at"`
}

func (bp *BarberProcedure) IsCurrentlyValid(now time.Time) bool {
	if !bp.CanPerform || now.Before(bp.ValidFrom) {
		return false
	}
	return bp.ValidUntil == nil || now.Before(*bp.ValidUntil)
}
