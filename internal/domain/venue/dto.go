package venue

// CreateVenueRequest represents venue creation request (back office)
type CreateVenueRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=200"`
	City          string `json:"city"`
	Address       string `json:"address"`
	Capacity      int    `json:"capacity" validate:"gte=0"`
	Currency      string `json:"currency" validate:"required,len=3"`
	BufferMinutes int    `json:"buffer_minutes" validate:"gte=0,lte=480"`
}

// UpdateBufferRequest changes a venue's default setup/breakdown padding
type UpdateBufferRequest struct {
	BufferMinutes int `json:"buffer_minutes" validate:"gte=0,lte=480"`
}

// VenueResponse represents a venue in API responses
type VenueResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	City          string `json:"city,omitempty"`
	Address       string `json:"address,omitempty"`
	Capacity      int    `json:"capacity"`
	Currency      string `json:"currency"`
	BufferMinutes int    `json:"buffer_minutes"`
}

// PricingRuleResponse represents one weekday's pricing configuration
type PricingRuleResponse struct {
	DayOfWeek    int     `json:"day_of_week"`
	IsAvailable  bool    `json:"is_available"`
	PricingType  string  `json:"pricing_type"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	HourlyPrice  float64 `json:"hourly_price"`
	MinimumHours int     `json:"minimum_hours"`
	FullDayPrice float64 `json:"full_day_price"`
}

// DepositRuleResponse represents one deposit tier
type DepositRuleResponse struct {
	MinDaysBefore int     `json:"min_days_before"`
	Percent       float64 `json:"percent"`
}

// VenueResponseFromEntity converts entity to response DTO
func VenueResponseFromEntity(v *Venue) VenueResponse {
	return VenueResponse{
		ID:            v.ID.String(),
		Name:          v.Name,
		City:          v.City.String,
		Address:       v.Address.String,
		Capacity:      v.Capacity,
		Currency:      v.Currency,
		BufferMinutes: v.BufferMinutes,
	}
}

// PricingRuleResponseFromEntity converts entity to response DTO
func PricingRuleResponseFromEntity(r *PricingRule) PricingRuleResponse {
	return PricingRuleResponse{
		DayOfWeek:    r.DayOfWeek,
		IsAvailable:  r.IsAvailable,
		PricingType:  string(r.PricingType),
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		HourlyPrice:  r.HourlyPrice,
		MinimumHours: r.MinimumHours,
		FullDayPrice: r.FullDayPrice,
	}
}
